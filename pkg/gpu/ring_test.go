package gpu_test

import (
	"encoding/binary"
	"math"
	"sync"
	"testing"

	"github.com/argus-labs/scene-engine/pkg/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uniforms struct {
	ViewProjection mgl32.Mat4
	Time           float32
}

func TestUniformRing_AcquireRelease(t *testing.T) {
	t.Parallel()

	ring, err := gpu.NewUniformRing[uniforms](gpu.BuffersInFlight)
	require.NoError(t, err)
	assert.Equal(t, 256, ring.AlignedSize())
	assert.Equal(t, 512, ring.Offset(2))

	held := make([]int, 0, ring.Len())
	for range ring.Len() {
		slot, idx, err := ring.AcquireSlot()
		require.NoError(t, err)
		slot.Time = float32(idx)
		held = append(held, idx)
	}
	assert.Equal(t, []int{0, 1, 2}, held)

	_, _, err = ring.AcquireSlot()
	require.Error(t, err)
	assert.True(t, eris.Is(err, gpu.ErrRingFull))

	ring.Release(1)
	_, idx, err := ring.AcquireSlot()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	ring.Release(-1) // Out of range is ignored
	ring.Release(7)
}

func TestUniformRing_Next(t *testing.T) {
	t.Parallel()

	ring, err := gpu.NewUniformRing[float32](3)
	require.NoError(t, err)

	var order []int
	for range 4 {
		_, idx, err := ring.AcquireSlot()
		require.NoError(t, err)
		order = append(order, idx)
		ring.Release(idx)
		ring.Next()
	}
	assert.Equal(t, []int{0, 1, 2, 0}, order)
}

func TestUniformRing_Encode(t *testing.T) {
	t.Parallel()

	ring, err := gpu.NewUniformRing[uniforms](2)
	require.NoError(t, err)

	_, _, err = ring.AcquireSlot()
	require.NoError(t, err)
	slot, idx, err := ring.AcquireSlot()
	require.NoError(t, err)
	slot.Time = 1.5

	buf, err := ring.Encode()
	require.NoError(t, err)
	require.Len(t, buf, 2*ring.AlignedSize())
	timeOffset := ring.Offset(idx) + 64
	assert.InDelta(t, 1.5, math.Float32frombits(binary.LittleEndian.Uint32(buf[timeOffset:])), 0)
}

func TestUniformRing_ConcurrentRelease(t *testing.T) {
	t.Parallel()

	ring, err := gpu.NewUniformRing[uint64](8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 100 {
		_, idx, err := ring.AcquireSlot()
		if err != nil {
			require.True(t, eris.Is(err, gpu.ErrRingFull))
			wg.Wait()
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			ring.Release(idx)
		}()
	}
	wg.Wait()

	for range ring.Len() {
		_, _, err := ring.AcquireSlot()
		require.NoError(t, err)
	}
}

func TestUniformRing_Invalid(t *testing.T) {
	t.Parallel()

	_, err := gpu.NewUniformRing[uniforms](0)
	assert.True(t, eris.Is(err, gpu.ErrInvalidInput))
	_, err = gpu.NewUniformRing[int](3)
	assert.True(t, eris.Is(err, gpu.ErrInvalidInput))
}
