// Package cache owns the in-memory configuration document and the generation
// counter that governs its validity.
//
// Guarantees:
//
//   - Exactly one engine fetch per generation, no matter how many reads
//     occur within it. This is the component's reason to exist.
//   - A failed refresh never corrupts the previous snapshot; the error is
//     reported and the next read retries.
//   - Invalidation bumps the generation; the cached copy from the old
//     generation is never served again.
//
// The cache is the sole holder of the raw document. Readers receive the live
// reference only through Get; writers go through the mutation gateway, which
// copies before mutating, so a reference obtained before a mutation keeps
// observing a consistent pre-mutation snapshot.
package cache
