// Package admin is the surface the shell talks to: typed, filtered, sorted
// views of every configuration table, plus the mutation verbs. Callers only
// ever see public-vocabulary ProjectedRecords; translation to and from the
// engine's internal schema happens here and in the gateway.
package admin

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianmacy/szconfigtool/internal/cache"
	"github.com/brianmacy/szconfigtool/internal/gateway"
	"github.com/brianmacy/szconfigtool/internal/schema"
	"github.com/brianmacy/szconfigtool/internal/view"
)

// NotFoundError reports a get for a key no record carries.
type NotFoundError struct {
	Table string
	Key   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s[%s]", e.Table, e.Key)
}

// Service wires the cache, projector, and gateway behind the command verbs.
type Service struct {
	cache     *cache.Cache
	registry  *schema.Registry
	projector *view.Projector
	gateway   *gateway.Gateway
	log       *slog.Logger
}

// New builds a service on top of an engine transport.
func New(transport cache.Transport, registry *schema.Registry, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	c := cache.New(transport)
	return &Service{
		cache:     c,
		registry:  registry,
		projector: view.NewProjector(registry),
		gateway:   gateway.New(c, registry),
		log:       log,
	}
}

// Tables returns the known table names.
func (s *Service) Tables() []string {
	return s.registry.TableNames()
}

// Generation returns the current cache generation.
func (s *Service) Generation() uint64 {
	return s.cache.Generation()
}

// List returns the projected records of a table, narrowed by the free-text
// filter and ordered by id.
func (s *Service) List(table, filter string) ([]*view.ProjectedRecord, error) {
	spec, err := s.registry.Lookup(table)
	if err != nil {
		return nil, err
	}
	doc, err := s.cache.Get()
	if err != nil {
		return nil, err
	}
	records, err := s.projector.Project(doc, table)
	if err != nil {
		return nil, err
	}
	records = view.Filter(records, filter)
	return view.SortByID(records, spec), nil
}

// Get returns the single projected record identified by key: exact match on
// the id field, else case-insensitive match on the code field.
func (s *Service) Get(table, key string) (*view.ProjectedRecord, error) {
	spec, err := s.registry.Lookup(table)
	if err != nil {
		return nil, err
	}
	doc, err := s.cache.Get()
	if err != nil {
		return nil, err
	}
	records, err := s.projector.Project(doc, table)
	if err != nil {
		return nil, err
	}

	// Match ids against the raw records, not the projection: projecting
	// fills a missing id with its zero value, which must not answer for
	// key "0". The projection preserves record order, so indexes line up.
	raw := doc.Table(table)
	idField := spec.InternalIDField()
	for i, rr := range raw {
		if v, ok := rr[idField]; ok && v != nil && stringKey(v) == key {
			return records[i], nil
		}
	}
	for _, rec := range records {
		if code, ok := rec.Get(spec.CodeField); ok && strings.EqualFold(stringKey(code), key) {
			return rec, nil
		}
	}
	return nil, &NotFoundError{Table: table, Key: key}
}

// Add translates a public-vocabulary payload to the internal schema and
// appends it through the gateway.
func (s *Service) Add(table string, payload map[string]any) error {
	spec, err := s.registry.Lookup(table)
	if err != nil {
		return err
	}
	candidate, err := spec.Invert(payload)
	if err != nil {
		return &gateway.MutationError{
			Code: gateway.ErrCodeValidation, Table: table,
			Message: "malformed payload", Err: err,
		}
	}
	if err := s.gateway.Add(table, candidate); err != nil {
		return err
	}
	s.log.Info("record added", "table", table, "generation", s.cache.Generation())
	return nil
}

// Update translates a public-vocabulary patch and merges it onto the record
// identified by key.
func (s *Service) Update(table, key string, payload map[string]any) error {
	spec, err := s.registry.Lookup(table)
	if err != nil {
		return err
	}
	patch, err := spec.Invert(payload)
	if err != nil {
		return &gateway.MutationError{
			Code: gateway.ErrCodeValidation, Table: table, Key: key,
			Message: "malformed payload", Err: err,
		}
	}
	if err := s.gateway.Update(table, key, patch); err != nil {
		return err
	}
	s.log.Info("record updated", "table", table, "key", key, "generation", s.cache.Generation())
	return nil
}

// Delete removes the record identified by key, cascading to declared
// dependents only when requested.
func (s *Service) Delete(table, key string, cascade bool) error {
	if err := s.gateway.Delete(table, key, cascade); err != nil {
		return err
	}
	s.log.Info("record deleted", "table", table, "key", key, "cascade", cascade)
	return nil
}

// Save persists the current document as a named snapshot.
func (s *Service) Save(comment string) (string, error) {
	doc, err := s.cache.Get()
	if err != nil {
		return "", err
	}
	payload, err := doc.Encode()
	if err != nil {
		return "", err
	}
	id, err := s.cache.Transport().SaveConfiguration(payload, comment)
	if err != nil {
		return "", err
	}
	s.log.Info("configuration saved", "config_id", id)
	return id, nil
}

// Load makes a saved snapshot the engine's current configuration and
// replaces the working document with it. The engine write happens first so
// a failure leaves both the engine and the cache on the previous state.
func (s *Service) Load(configID string) error {
	payload, err := s.cache.Transport().LoadConfigurationByID(configID)
	if err != nil {
		return &cache.FetchError{Op: "load", Err: err}
	}
	if err := s.cache.Transport().WriteConfiguration(payload); err != nil {
		return &gateway.MutationError{
			Code:    gateway.ErrCodeWriteThrough,
			Message: "restore snapshot", Err: err,
		}
	}
	if _, err := s.cache.LoadGeneration(configID); err != nil {
		// The engine already holds the snapshot; fall back to a refetch.
		s.cache.Invalidate()
	}
	s.log.Info("configuration loaded", "config_id", configID, "generation", s.cache.Generation())
	return nil
}

func stringKey(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
