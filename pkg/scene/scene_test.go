package scene_test

import (
	"testing"

	"github.com/argus-labs/scene-engine/pkg/ecs"
	"github.com/argus-labs/scene-engine/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScene(t *testing.T) *scene.Scene {
	t.Helper()
	sc, err := scene.New()
	require.NoError(t, err)
	return sc
}

func TestScene_Root(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	root := sc.Root()

	transform, ok := ecs.Get[scene.Transform](sc.Store(), root)
	require.True(t, ok)
	assert.Equal(t, mgl32.Ident4(), transform.Matrix)

	children, ok := ecs.Get[scene.Children](sc.Store(), root)
	require.True(t, ok)
	assert.Equal(t, 0, children.Len())
}

func TestScene_TraverseDepthFirst(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	child0, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
	require.NoError(t, err)
	child1, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
	require.NoError(t, err)

	var order []ecs.EntityID
	sc.Traverse(func(eid ecs.EntityID, world mgl32.Mat4, _ int) bool {
		order = append(order, eid)
		assert.Equal(t, mgl32.Ident4(), world)
		return true
	})
	assert.Equal(t, []ecs.EntityID{sc.Root(), child0, child1}, order)
}

func TestScene_TraverseNested(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	a, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
	require.NoError(t, err)
	a0, err := sc.Spawn(a, scene.IdentityTransform())
	require.NoError(t, err)
	b, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
	require.NoError(t, err)
	a1, err := sc.Spawn(a, scene.IdentityTransform())
	require.NoError(t, err)

	var order []ecs.EntityID
	var depths []int
	sc.Traverse(func(eid ecs.EntityID, _ mgl32.Mat4, depth int) bool {
		order = append(order, eid)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []ecs.EntityID{sc.Root(), a, a0, a1, b}, order)
	assert.Equal(t, []int{0, 1, 2, 2, 1}, depths)

	// Returning false prunes the subtree.
	order = order[:0]
	sc.Traverse(func(eid ecs.EntityID, _ mgl32.Mat4, _ int) bool {
		order = append(order, eid)
		return eid != a
	})
	assert.Equal(t, []ecs.EntityID{sc.Root(), a, b}, order)
}

func TestScene_TransformsCompose(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	row, err := sc.Spawn(sc.Root(), scene.Translation(0, 2, 0))
	require.NoError(t, err)
	cell, err := sc.Spawn(row, scene.Translation(3, 0, 0))
	require.NoError(t, err)

	// A group without its own transform passes its parent's through.
	group := sc.Store().CreateEntity()
	require.NoError(t, sc.AddChild(cell, group))
	leaf, err := sc.Spawn(group, scene.Translation(0, 0, -1))
	require.NoError(t, err)

	world, ok := sc.WorldTransform(leaf)
	require.True(t, ok)
	pos := world.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 3.0, pos.X(), 1e-6)
	assert.InDelta(t, 2.0, pos.Y(), 1e-6)
	assert.InDelta(t, -1.0, pos.Z(), 1e-6)

	// Composition is parent * local, so a parent rotation rotates the child's offset.
	require.NoError(t, ecs.Set(sc.Store(), row, scene.Transform{Matrix: mgl32.HomogRotate3DZ(mgl32.DegToRad(90))}))
	world, ok = sc.WorldTransform(cell)
	require.True(t, ok)
	pos = world.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0.0, pos.X(), 1e-5)
	assert.InDelta(t, 3.0, pos.Y(), 1e-5)

	_, ok = sc.WorldTransform(sc.Store().CreateEntity())
	assert.False(t, ok, "detached entity")
}

func TestScene_ChildrenFull(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	for range scene.MaxChildren {
		_, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
		require.NoError(t, err)
	}
	entities := sc.Store().EntityCount()

	_, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
	require.Error(t, err)
	assert.True(t, eris.Is(err, scene.ErrTooManyChildren))
	assert.Equal(t, entities, sc.Store().EntityCount(), "failed spawn must not leak an entity")
}

func TestScene_SpawnUnderMissingParent(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	_, err := sc.Spawn(999, scene.IdentityTransform())
	require.Error(t, err)
	assert.True(t, eris.Is(err, ecs.ErrEntityNotFound))

	err = sc.AddChild(sc.Root(), 999)
	assert.True(t, eris.Is(err, ecs.ErrEntityNotFound))
}

func TestScene_TraverseSkipsCycles(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	a, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
	require.NoError(t, err)
	b, err := sc.Spawn(a, scene.IdentityTransform())
	require.NoError(t, err)
	require.NoError(t, sc.AddChild(b, a))         // b -> a closes a cycle
	require.NoError(t, sc.AddChild(sc.Root(), b)) // b also has two parents

	var order []ecs.EntityID
	sc.Traverse(func(eid ecs.EntityID, _ mgl32.Mat4, _ int) bool {
		order = append(order, eid)
		return true
	})
	assert.Equal(t, []ecs.EntityID{sc.Root(), a, b}, order)
}

func TestScene_TraverseSkipsDeletedChildren(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	a, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
	require.NoError(t, err)
	b, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
	require.NoError(t, err)
	require.True(t, sc.Store().DeleteEntity(a))

	var order []ecs.EntityID
	sc.Traverse(func(eid ecs.EntityID, _ mgl32.Mat4, _ int) bool {
		order = append(order, eid)
		return true
	})
	assert.Equal(t, []ecs.EntityID{sc.Root(), b}, order)
}

func TestScene_Reset(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	oldRoot := sc.Root()
	_, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
	require.NoError(t, err)

	require.NoError(t, sc.Reset())
	assert.NotEqual(t, oldRoot, sc.Root())
	assert.Equal(t, 1, sc.Store().EntityCount())
	assert.True(t, ecs.Has[scene.Transform](sc.Store(), sc.Root()))
	assert.True(t, ecs.Has[scene.Children](sc.Store(), sc.Root()))
}

func TestScene_CustomComponentOverwrite(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	eid, err := sc.Spawn(sc.Root(), scene.IdentityTransform())
	require.NoError(t, err)

	require.NoError(t, ecs.Set(sc.Store(), eid, scene.MeshOf(3)))
	require.NoError(t, ecs.Set(sc.Store(), eid, scene.MeshOf(4)))
	mesh, ok := ecs.Get[scene.Mesh](sc.Store(), eid)
	require.True(t, ok)
	assert.Equal(t, scene.ResourceID(4), mesh.Resource)
	assert.Equal(t, 1, ecs.Count[scene.Mesh](sc.Store()))
}

func TestScene_ViewProjection(t *testing.T) {
	t.Parallel()

	sc := newScene(t)
	cam, err := sc.Spawn(sc.Root(), scene.Translation(0, 0, 5))
	require.NoError(t, err)
	camera := scene.Camera{FovY: mgl32.DegToRad(60), Aspect: 1, Near: 0.1, Far: 100}
	require.NoError(t, ecs.Set(sc.Store(), cam, camera))

	vp, err := sc.ViewProjection(cam)
	require.NoError(t, err)

	// A point straight ahead of the camera lands in the middle of clip space.
	clip := vp.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0.0, clip.X()/clip.W(), 1e-5)
	assert.InDelta(t, 0.0, clip.Y()/clip.W(), 1e-5)
	assert.Greater(t, clip.W(), float32(0))

	_, err = sc.ViewProjection(sc.Root())
	require.Error(t, err)
}
