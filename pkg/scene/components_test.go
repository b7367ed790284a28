package scene_test

import (
	"testing"

	"github.com/argus-labs/scene-engine/pkg/ecs"
	"github.com/argus-labs/scene-engine/pkg/scene"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildren(t *testing.T) {
	t.Parallel()

	var c scene.Children
	for i := range ecs.EntityID(scene.MaxChildren) {
		require.NoError(t, c.Append(i+10))
	}
	assert.Equal(t, scene.MaxChildren, c.Len())
	assert.Equal(t, ecs.EntityID(10), c.At(0))

	err := c.Append(99)
	require.Error(t, err)
	assert.True(t, eris.Is(err, scene.ErrTooManyChildren))

	assert.True(t, c.Remove(11))
	assert.False(t, c.Remove(11))
	assert.Equal(t, scene.MaxChildren-1, c.Len())
	ids := c.IDs()
	assert.Equal(t, ecs.EntityID(10), ids[0])
	assert.Equal(t, ecs.EntityID(12), ids[1], "order is kept")

	require.NoError(t, c.Append(99))
	assert.Equal(t, ecs.EntityID(99), c.At(c.Len()-1))
}

func TestChildren_Equality(t *testing.T) {
	t.Parallel()

	var a, b scene.Children
	require.NoError(t, a.Append(1))
	require.NoError(t, a.Append(2))
	require.True(t, a.Remove(2))
	require.NoError(t, b.Append(1))
	assert.Equal(t, a, b, "removed slots are cleared")
}
