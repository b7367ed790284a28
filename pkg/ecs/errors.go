package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned when attempting to operate on an entity that was never created
	// or has already been deleted.
	ErrEntityNotFound = eris.New("entity does not exist")

	// ErrComponentNotFound is returned when a component name has not been registered with the store.
	ErrComponentNotFound = eris.New("component is not registered")

	// ErrSystemCycle is returned by Scheduler.Init when system dependencies form a cycle.
	ErrSystemCycle = eris.New("system dependencies form a cycle")
)
