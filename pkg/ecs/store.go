package ecs

import (
	"github.com/argus-labs/scene-engine/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store associates entities with their components. Each component type lives in its own densely
// packed storage, so inserts, lookups and removals are amortized O(1) and iteration is a linear scan.
//
// A Store is not safe for concurrent use. Callers that share one across goroutines must serialize
// access themselves.
type Store struct {
	id         uuid.UUID        // Identifies this store instance in logs and stats
	entities   entityManager    // Entity ID allocator and live set
	components componentManager // Component registry and storages
	logger     zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger returns an option to set the store's logger.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		id:         uuid.New(),
		entities:   newEntityManager(),
		components: newComponentManager(),
		logger:     telemetry.GetGlobalLogger("ecs.store"),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("store_id", s.id.String()).Logger()

	return s
}

// ID returns the store's instance ID.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// CreateEntity creates an entity without any components.
func (s *Store) CreateEntity() EntityID {
	return s.entities.create()
}

// DeleteEntity removes an entity together with every component attached to it. Returns false if the
// entity doesn't exist. Deleting an entity from inside an iteration over one of its components
// panics.
func (s *Store) DeleteEntity(eid EntityID) bool {
	if !s.entities.isAlive(eid) {
		s.logger.Warn().Uint64("entity", uint64(eid)).Msg("delete of an entity that does not exist")
		return false
	}

	for _, storage := range s.components.all() {
		storage.remove(eid)
	}
	return s.entities.remove(eid)
}

// Alive checks if an entity exists in the store.
func (s *Store) Alive(eid EntityID) bool {
	return s.entities.isAlive(eid)
}

// EntityCount returns the number of live entities.
func (s *Store) EntityCount() int {
	return s.entities.count()
}

// Reset deletes every entity and component storage. Entity IDs keep increasing across resets.
func (s *Store) Reset() {
	for _, storage := range s.components.all() {
		storage.clear()
	}
	s.components.reset()
	s.entities.reset()
	s.logger.Debug().Msg("store reset")
}
