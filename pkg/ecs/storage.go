package ecs

import (
	"fmt"
	"iter"
)

// abstractStorage is the type-erased view of a componentStorage used by the registry and by
// operations that touch every component kind, like cascading entity deletes and stats.
type abstractStorage interface {
	name() string
	len() int
	has(eid EntityID) bool
	remove(eid EntityID) bool
	getAbstract(eid EntityID) (Component, bool)
	setAbstract(eid EntityID, value Component)
	activePages() int
	pageCapacity() int
	clear()
}

var _ abstractStorage = (*componentStorage[Component])(nil)

// componentStorage holds every instance of a single component type, keyed by entity.
type componentStorage[T Component] struct {
	compName string        // The component name this storage was registered under
	data     pagedArray[T] // Entity -> component value
}

// newComponentStorage creates an empty storage for T.
func newComponentStorage[T Component]() *componentStorage[T] {
	var zero T
	return &componentStorage[T]{
		compName: zero.Name(),
		data:     newPagedArray[T](),
	}
}

func (s *componentStorage[T]) name() string {
	return s.compName
}

func (s *componentStorage[T]) len() int {
	return s.data.len()
}

func (s *componentStorage[T]) has(eid EntityID) bool {
	return s.data.has(eid)
}

func (s *componentStorage[T]) get(eid EntityID) (T, bool) {
	return s.data.get(eid)
}

func (s *componentStorage[T]) getPtr(eid EntityID) *T {
	return s.data.getPtr(eid)
}

func (s *componentStorage[T]) set(eid EntityID, value T) {
	s.data.set(eid, value)
}

func (s *componentStorage[T]) remove(eid EntityID) bool {
	return s.data.remove(eid)
}

func (s *componentStorage[T]) forEach(fn func(EntityID, *T)) {
	s.data.forEachMutable(fn)
}

func (s *componentStorage[T]) all() iter.Seq2[EntityID, T] {
	return s.data.all()
}

func (s *componentStorage[T]) getAbstract(eid EntityID) (Component, bool) {
	value, ok := s.data.get(eid)
	if !ok {
		return nil, false
	}
	return value, true
}

// setAbstract sets a component from a type-erased value. A value whose dynamic type isn't T panics,
// since that can only happen if the registry handed out the wrong storage.
func (s *componentStorage[T]) setAbstract(eid EntityID, value Component) {
	concrete, ok := value.(T)
	if !ok {
		panic(fmt.Sprintf("ecs: storage %q holds %T, got %T", s.compName, *new(T), value))
	}
	s.data.set(eid, concrete)
}

func (s *componentStorage[T]) activePages() int {
	return s.data.activePageCount()
}

func (s *componentStorage[T]) pageCapacity() int {
	return s.data.pageCapacity()
}

func (s *componentStorage[T]) clear() {
	s.data.clear()
}
