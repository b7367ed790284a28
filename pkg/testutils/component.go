package testutils

// -------------------------------------------------------------------------------------------------
// Components shared by the ecs and scene tests
// -------------------------------------------------------------------------------------------------

// Counter is a mutable counter used to check read-modify-write iteration.
type Counter struct {
	Count int
}

func (Counter) Name() string { return "counter" }

// Increment bumps the counter by one.
func (c *Counter) Increment() { c.Count++ }

// Tagged carries a small integer tag, used as the probed side of joins.
type Tagged struct {
	Hello int
}

func (Tagged) Name() string { return "tagged" }

type Position struct {
	X, Y, Z float64
}

func (Position) Name() string { return "position" }

type Velocity struct {
	X, Y, Z float64
}

func (Velocity) Name() string { return "velocity" }

type Health struct {
	Current, Max int
}

func (Health) Name() string { return "health" }

// Marker is a zero-sized component.
type Marker struct{}

func (Marker) Name() string { return "marker" }

// FakeCounter deliberately reuses Counter's name to trigger registry type confusion.
type FakeCounter struct {
	Count string
}

func (FakeCounter) Name() string { return "counter" }

// Unnamed has an empty name and must be rejected by the registry.
type Unnamed struct{}

func (Unnamed) Name() string { return "" }
