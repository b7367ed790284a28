// Package scene builds a transform hierarchy on top of an ecs.Store and flattens it into a display
// list for rendering.
//
// Every scene has a root entity with an identity transform. Entities are attached to the hierarchy
// by listing them in their parent's Children component; an entity's world transform is the product
// of the transforms on the path from the root down to it.
package scene

import (
	"github.com/argus-labs/scene-engine/pkg/ecs"
	"github.com/argus-labs/scene-engine/pkg/telemetry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Scene owns a store and the root of the hierarchy stored in it.
type Scene struct {
	store   *ecs.Store
	root    ecs.EntityID
	display []DisplayItem // Rebuilt by the render system every step
	logger  zerolog.Logger
}

// New creates a scene with a fresh store and a root entity.
func New(opts ...ecs.StoreOption) (*Scene, error) {
	store := ecs.NewStore(opts...)
	sc := &Scene{
		store:   store,
		display: make([]DisplayItem, 0),
		logger:  telemetry.GetGlobalLogger("scene").With().Str("store_id", store.ID().String()).Logger(),
	}

	if err := sc.createRoot(); err != nil {
		return nil, err
	}
	return sc, nil
}

// createRoot creates the root entity with an identity transform and no children.
func (sc *Scene) createRoot() error {
	sc.root = sc.store.CreateEntity()
	if err := ecs.Set(sc.store, sc.root, IdentityTransform()); err != nil {
		return eris.Wrap(err, "failed to set root transform")
	}
	if err := ecs.Set(sc.store, sc.root, Children{}); err != nil {
		return eris.Wrap(err, "failed to set root children")
	}
	return nil
}

// Store returns the scene's store.
func (sc *Scene) Store() *ecs.Store {
	return sc.store
}

// Root returns the root entity.
func (sc *Scene) Root() ecs.EntityID {
	return sc.root
}

// Spawn creates an entity with the given local transform and appends it to parent's children.
func (sc *Scene) Spawn(parent ecs.EntityID, transform Transform) (ecs.EntityID, error) {
	if !sc.store.Alive(parent) {
		return 0, eris.Wrapf(ecs.ErrEntityNotFound, "parent %d", parent)
	}

	eid := sc.store.CreateEntity()
	if err := ecs.Set(sc.store, eid, transform); err != nil {
		sc.store.DeleteEntity(eid)
		return 0, eris.Wrap(err, "failed to set transform")
	}
	if err := sc.AddChild(parent, eid); err != nil {
		sc.store.DeleteEntity(eid)
		return 0, err
	}
	return eid, nil
}

// AddChild appends child to parent's children, creating the Children component if parent doesn't
// have one yet.
func (sc *Scene) AddChild(parent, child ecs.EntityID) error {
	if !sc.store.Alive(child) {
		return eris.Wrapf(ecs.ErrEntityNotFound, "child %d", child)
	}

	children, _ := ecs.Get[Children](sc.store, parent)
	if err := children.Append(child); err != nil {
		return eris.Wrapf(err, "failed to add child to %d", parent)
	}
	if err := ecs.Set(sc.store, parent, children); err != nil {
		return eris.Wrapf(err, "failed to add child to %d", parent)
	}
	return nil
}

// Reset deletes every entity and creates a new root. The root gets a new ID.
func (sc *Scene) Reset() error {
	sc.store.Reset()
	sc.display = sc.display[:0]
	return sc.createRoot()
}

// WorldTransform returns the world transform of eid by walking down from the root. The boolean is
// false if eid isn't reachable from the root.
func (sc *Scene) WorldTransform(eid ecs.EntityID) (mgl32.Mat4, bool) {
	var (
		world mgl32.Mat4
		found bool
	)
	sc.Traverse(func(id ecs.EntityID, w mgl32.Mat4, _ int) bool {
		if found {
			return false
		}
		if id == eid {
			world, found = w, true
			return false
		}
		return true
	})
	return world, found
}

// ViewProjection returns the camera's projection times the inverse of its world transform.
func (sc *Scene) ViewProjection(camera ecs.EntityID) (mgl32.Mat4, error) {
	cam, ok := ecs.Get[Camera](sc.store, camera)
	if !ok {
		return mgl32.Mat4{}, eris.Errorf("entity %d has no camera", camera)
	}

	world, ok := sc.WorldTransform(camera)
	if !ok {
		t, _ := ecs.Get[Transform](sc.store, camera)
		world = localMatrix(t, ecs.Has[Transform](sc.store, camera))
	}
	return cam.Projection().Mul4(world.Inv()), nil
}
