package cache

import (
	"fmt"

	"github.com/brianmacy/szconfigtool/internal/document"
)

// Transport is the engine connection the cache depends on. Implemented by
// engine.SQLiteEngine (production) and fake transports (tests).
//
// All calls are synchronous; timeouts, if any, belong to the transport.
type Transport interface {
	// FetchConfiguration returns the engine's current configuration as the
	// nested-mapping JSON wire payload.
	FetchConfiguration() ([]byte, error)

	// WriteConfiguration replaces the engine's current configuration.
	WriteConfiguration(payload []byte) error

	// LoadConfigurationByID returns a persisted configuration snapshot.
	LoadConfigurationByID(id string) ([]byte, error)

	// SaveConfiguration persists the payload as a named snapshot and
	// returns its identifier.
	SaveConfiguration(payload []byte, comment string) (string, error)
}

// FetchError reports that the engine could not supply a usable document.
// The previous snapshot, if any, is left intact.
type FetchError struct {
	Op  string // "fetch" or "load"
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("configuration %s failed: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Cache holds the last-fetched configuration document and its generation.
// Not safe for concurrent use; the shell issues one command at a time.
type Cache struct {
	transport Transport

	generation uint64
	doc        *document.Document
	docGen     uint64 // generation the snapshot was fetched in

	fetches uint64 // total underlying engine fetches, for tests
}

// New creates a cache bound to an engine transport. The first Get fetches.
func New(transport Transport) *Cache {
	return &Cache{transport: transport, generation: 1}
}

// Generation returns the current cache generation. It increases on every
// invalidation and never decreases.
func (c *Cache) Generation() uint64 {
	return c.generation
}

// Fetches returns the number of underlying engine fetches performed.
func (c *Cache) Fetches() uint64 {
	return c.fetches
}

// Get returns the document for the current generation, fetching from the
// engine only when no snapshot exists for it. On fetch failure the prior
// snapshot is untouched and the next Get retries.
func (c *Cache) Get() (*document.Document, error) {
	if c.doc != nil && c.docGen == c.generation {
		return c.doc, nil
	}

	payload, err := c.transport.FetchConfiguration()
	if err != nil {
		return nil, &FetchError{Op: "fetch", Err: err}
	}
	c.fetches++

	doc, err := document.Decode(payload)
	if err != nil {
		return nil, &FetchError{Op: "fetch", Err: err}
	}

	c.doc = doc
	c.docGen = c.generation
	return c.doc, nil
}

// Invalidate discards the current snapshot by bumping the generation.
// The next Get performs exactly one engine fetch.
func (c *Cache) Invalidate() {
	c.generation++
}

// LoadGeneration replaces the cached document with a persisted snapshot
// identified by configID, bumping the generation. On failure the current
// snapshot and generation are untouched.
func (c *Cache) LoadGeneration(configID string) (*document.Document, error) {
	payload, err := c.transport.LoadConfigurationByID(configID)
	if err != nil {
		return nil, &FetchError{Op: "load", Err: err}
	}

	doc, err := document.Decode(payload)
	if err != nil {
		return nil, &FetchError{Op: "load", Err: err}
	}
	c.fetches++

	c.generation++
	c.doc = doc
	c.docGen = c.generation
	return c.doc, nil
}

// Transport exposes the engine connection for the mutation gateway, which
// shares it for write-through.
func (c *Cache) Transport() Transport {
	return c.transport
}
