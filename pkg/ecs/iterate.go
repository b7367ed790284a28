package ecs

import "fmt"

// Each calls fn for every entity that has a component of type T, passing a pointer to the stored
// component. Changes made through the pointer are kept. Adding or removing T components inside fn
// panics; the pointer must not be retained after fn returns.
func Each[T Component](s *Store, fn func(EntityID, *T)) {
	storage := find[T](&s.components)
	if storage == nil {
		return
	}
	storage.forEach(fn)
}

// Each2 calls fn for every entity that has both A and B. Iteration follows A's storage and B is
// looked up per entity, so put the rarer component first. A is mutated in place; B is passed as a
// copy that is written back after fn returns, unless fn removed B from the entity.
//
// Adding or removing A components inside fn panics. A and B must be different component types.
func Each2[A, B Component](s *Store, fn func(EntityID, *A, *B)) {
	checkDistinct[A, B]()

	primary := find[A](&s.components)
	probeB := find[B](&s.components)
	if primary == nil || probeB == nil {
		return
	}

	primary.forEach(func(eid EntityID, a *A) {
		b, ok := probeB.get(eid)
		if !ok {
			return
		}

		fn(eid, a, &b)

		writeBack(probeB, eid, b)
	})
}

// Each3 is Each2 for three component types. Iteration follows A's storage; B and C are copied and
// written back the same way Each2 handles B.
func Each3[A, B, C Component](s *Store, fn func(EntityID, *A, *B, *C)) {
	checkDistinct[A, B]()
	checkDistinct[A, C]()
	checkDistinct[B, C]()

	primary := find[A](&s.components)
	probeB := find[B](&s.components)
	probeC := find[C](&s.components)
	if primary == nil || probeB == nil || probeC == nil {
		return
	}

	primary.forEach(func(eid EntityID, a *A) {
		b, ok := probeB.get(eid)
		if !ok {
			return
		}
		c, ok := probeC.get(eid)
		if !ok {
			return
		}

		fn(eid, a, &b, &c)

		writeBack(probeB, eid, b)
		writeBack(probeC, eid, c)
	})
}

// writeBack stores a probed copy back into its storage if the entity still has the component.
func writeBack[T Component](storage *componentStorage[T], eid EntityID, value T) {
	if ptr := storage.getPtr(eid); ptr != nil {
		*ptr = value
	}
}

// checkDistinct panics if A and B are the same component. Joining a type with itself would hand fn
// a pointer and a stale copy of the same value.
func checkDistinct[A, B Component]() {
	var a A
	var b B
	if a.Name() == b.Name() {
		panic(fmt.Sprintf("ecs: cannot join component %q with itself", a.Name()))
	}
}
