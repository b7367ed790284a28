// Package ecs implements an entity-component store on top of paged sparse sets.
//
// Entities are plain integer IDs. Every component type gets its own storage: a packed dense array of
// values plus a sparse page table mapping entity IDs to dense positions. Pages are allocated the
// first time a key in their range is set and released when their last key is removed, so memory
// tracks the number of live components rather than the largest entity ID.
//
// Methods can't have type parameters, so the typed operations are package-level functions that take
// the store as their first argument:
//
//	store := ecs.NewStore()
//	eid := store.CreateEntity()
//	_ = ecs.Set(store, eid, Position{X: 1})
//	pos, ok := ecs.Get[Position](store, eid)
package ecs

import (
	"iter"

	"github.com/rotisserie/eris"
)

// Set sets a component on an entity. If the entity already has a component of this type, it is
// overwritten; an entity holds at most one instance of each component type. Returns
// ErrEntityNotFound if the entity doesn't exist.
func Set[T Component](s *Store, eid EntityID, component T) error {
	if !s.entities.isAlive(eid) {
		return eris.Wrapf(ErrEntityNotFound, "entity %d", eid)
	}

	storage, err := findOrCreate[T](&s.components)
	if err != nil {
		return eris.Wrap(err, "failed to set component")
	}

	pagesBefore := storage.activePages()
	storage.set(eid, component)
	if pages := storage.activePages(); pages != pagesBefore {
		s.logger.Debug().Str("component_type", storage.name()).Int("active_pages", pages).Msg("page allocated")
	}
	return nil
}

// Get returns a copy of an entity's component. The boolean is false if the entity doesn't exist or
// doesn't have the component.
func Get[T Component](s *Store, eid EntityID) (T, bool) {
	storage := find[T](&s.components)
	if storage == nil {
		var zero T
		return zero, false
	}
	return storage.get(eid)
}

// Has checks if an entity has a specific component type.
func Has[T Component](s *Store, eid EntityID) bool {
	storage := find[T](&s.components)
	return storage != nil && storage.has(eid)
}

// Remove removes a component from an entity. Returns false, and logs a warning, if the entity
// doesn't have the component. Removing a component from inside an iteration over that component
// type panics.
func Remove[T Component](s *Store, eid EntityID) bool {
	var zero T
	storage := find[T](&s.components)
	if storage == nil || !storage.has(eid) {
		s.logger.Warn().
			Uint64("entity", uint64(eid)).
			Str("component_type", zero.Name()).
			Msg("remove of a component the entity does not have")
		return false
	}

	pagesBefore := storage.activePages()
	storage.remove(eid)
	if pages := storage.activePages(); pages != pagesBefore {
		s.logger.Debug().Str("component_type", storage.name()).Int("active_pages", pages).Msg("page released")
	}
	return true
}

// Count returns the number of entities that have a component of type T.
func Count[T Component](s *Store) int {
	storage := find[T](&s.components)
	if storage == nil {
		return 0
	}
	return storage.len()
}

// TypeID returns the ID this store interned T's name to, registering T if needed.
func TypeID[T Component](s *Store) (ComponentID, error) {
	return idOf[T](&s.components)
}

// All returns an iterator over every entity with a component of type T and a copy of that
// component. Adding or removing T components while iterating panics.
func All[T Component](s *Store) iter.Seq2[EntityID, T] {
	storage := find[T](&s.components)
	if storage == nil {
		return func(func(EntityID, T) bool) {}
	}
	return storage.all()
}
