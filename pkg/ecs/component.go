package ecs

import (
	"fmt"

	"github.com/argus-labs/scene-engine/pkg/assert"
	"github.com/rotisserie/eris"
)

// Component is the interface that all components must implement.
// Components are plain data containers that can be attached to entities.
type Component interface { //nolint:iface // We may add more methods in the future.
	// Name returns a unique string identifier for the component type.
	// This should be consistent across program executions.
	Name() string
}

// ComponentID is the store-local identifier a component name is interned to. IDs are handed out in
// registration order and are only meaningful within the store that issued them.
type ComponentID = uint32

// componentManager is the store's registry. It maps component names to IDs and IDs to the storage
// that holds every instance of that component.
type componentManager struct {
	nextID   ComponentID            // The next available component ID
	catalog  map[string]ComponentID // Component name -> component ID
	storages []abstractStorage      // Component ID -> storage
}

// newComponentManager creates a new component manager.
func newComponentManager() componentManager {
	return componentManager{
		nextID:   0,
		catalog:  make(map[string]ComponentID),
		storages: make([]abstractStorage, 0),
	}
}

// register adds a storage under name and returns its ID. If the name is already registered, the
// existing ID is returned and storage is discarded.
func (cm *componentManager) register(name string, storage abstractStorage) (ComponentID, error) {
	if name == "" {
		return 0, eris.New("component name cannot be empty")
	}

	if cid, exists := cm.catalog[name]; exists {
		return cid, nil
	}

	cm.catalog[name] = cm.nextID
	cm.storages = append(cm.storages, storage)
	cm.nextID++
	assert.That(int(cm.nextID) == len(cm.storages), "component id doesn't match number of storages")

	return cm.nextID - 1, nil
}

// getID returns a component's ID given a name.
func (cm *componentManager) getID(name string) (ComponentID, error) {
	id, exists := cm.catalog[name]
	if !exists {
		return 0, eris.Wrapf(ErrComponentNotFound, "component %s", name)
	}
	return id, nil
}

// all returns every registered storage in ID order.
func (cm *componentManager) all() []abstractStorage {
	return cm.storages
}

// reset drops every storage and forgets all registered names.
func (cm *componentManager) reset() {
	*cm = newComponentManager()
}

// findOrCreate returns the storage for T, registering T first if this store has never seen it.
// Calling it again for the same T returns the same storage.
func findOrCreate[T Component](cm *componentManager) (*componentStorage[T], error) {
	var zero T
	name := zero.Name()

	if cid, exists := cm.catalog[name]; exists {
		return castStorage[T](cm.storages[cid]), nil
	}

	storage := newComponentStorage[T]()
	if _, err := cm.register(name, storage); err != nil {
		return nil, eris.Wrapf(err, "failed to register component %T", zero)
	}
	return storage, nil
}

// find returns the storage for T without registering it. Returns nil if T was never used.
func find[T Component](cm *componentManager) *componentStorage[T] {
	var zero T
	cid, exists := cm.catalog[zero.Name()]
	if !exists {
		return nil
	}
	return castStorage[T](cm.storages[cid])
}

// idOf returns the ID of T, registering it if needed.
func idOf[T Component](cm *componentManager) (ComponentID, error) {
	if _, err := findOrCreate[T](cm); err != nil {
		return 0, err
	}
	var zero T
	return cm.getID(zero.Name())
}

// castStorage converts a registered storage back to its concrete type. Two different Go types that
// share a component name would silently alias the same memory, so a mismatch always panics.
func castStorage[T Component](storage abstractStorage) *componentStorage[T] {
	concrete, ok := storage.(*componentStorage[T])
	if !ok {
		var zero T
		panic(fmt.Sprintf("ecs: component name %q is registered to a different type than %T",
			storage.name(), zero))
	}
	return concrete
}
