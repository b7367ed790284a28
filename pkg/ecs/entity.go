package ecs

import (
	"math"

	"github.com/argus-labs/scene-engine/pkg/assert"
)

// EntityID is a unique identifier for an entity. IDs are never reused within a store's lifetime.
type EntityID uint64

// MaxEntityID is the maximum entity ID that can be created.
const MaxEntityID = math.MaxUint64 - 1

// entityManager hands out entity IDs and tracks which of them are alive. The live set is itself a
// paged array so that long-running stores whose early entities are gone don't keep their pages.
type entityManager struct {
	nextID EntityID             // The next ID to allocate
	live   pagedArray[struct{}] // Set of live entity IDs
}

// newEntityManager creates a new entity manager.
func newEntityManager() entityManager {
	return entityManager{
		nextID: 0,
		live:   newPagedArray[struct{}](),
	}
}

// create returns a fresh entity ID and marks it alive.
func (em *entityManager) create() EntityID {
	id := em.nextID
	assert.That(id <= MaxEntityID, "max number of entities exceeded")

	em.live.set(id, struct{}{})
	em.nextID++
	return id
}

// remove marks an entity as dead. Returns false if the entity was not alive.
func (em *entityManager) remove(id EntityID) bool {
	return em.live.remove(id)
}

// isAlive reports whether the entity exists.
func (em *entityManager) isAlive(id EntityID) bool {
	return em.live.has(id)
}

// count returns the number of live entities.
func (em *entityManager) count() int {
	return em.live.len()
}

// ids returns the live entity IDs in no particular order.
func (em *entityManager) ids() []EntityID {
	return em.live.keys()
}

// reset forgets every live entity. nextID is kept so IDs handed out before the reset never alias
// entities created after it.
func (em *entityManager) reset() {
	em.live.clear()
}
