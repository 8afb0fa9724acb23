// Package document defines the raw configuration document exchanged with the
// entity-resolution engine.
//
// The wire contract is a nested JSON mapping: top-level keys are table names
// (CFG_DSRC, CFG_FTYPE, ...), table values are ordered sequences of flat
// records. The document is owned by the cache and mutated only through the
// gateway, always via a full deep copy ("mutate by replacement, never in
// place"):
//
//   - Decode/Encode: wire codec against the engine contract
//   - Copy: the full mutable copy every mutation operates on
//   - Table: ordered record access for projection
//
// Records keep the engine's internal field names; public field names are the
// schema package's concern.
package document
