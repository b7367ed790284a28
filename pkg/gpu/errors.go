package gpu

import "github.com/rotisserie/eris"

var (
	// ErrAllocationFailed is returned when the current frame buffer has no room for an allocation.
	// The frame should be finished and the upload retried with the next buffer; allocations are never
	// retried internally.
	ErrAllocationFailed = eris.New("gpu memory pool is out of space")

	// ErrInvalidInput is returned for values that can't be encoded or for bad allocation parameters.
	ErrInvalidInput = eris.New("invalid gpu upload input")

	// ErrRingFull is returned when every slot of a uniform ring is held.
	ErrRingFull = eris.New("every uniform ring slot is in use")
)
