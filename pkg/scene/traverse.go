package scene

import (
	"github.com/argus-labs/scene-engine/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// VisitFunc is called for every entity reached by Traverse with its world transform and its depth
// below the root (the root is at depth 0). Returning false skips the entity's children.
type VisitFunc func(eid ecs.EntityID, world mgl32.Mat4, depth int) bool

// Traverse walks the hierarchy depth-first from the root, visiting children in the order they were
// added. An entity without a Transform inherits its parent's world transform. Entities that are
// reached a second time, through a cycle or a second parent, are skipped.
func (sc *Scene) Traverse(fn VisitFunc) {
	visited := make(map[ecs.EntityID]struct{})
	sc.visit(sc.root, mgl32.Ident4(), 0, visited, fn)
}

func (sc *Scene) visit(
	eid ecs.EntityID, parentWorld mgl32.Mat4, depth int, visited map[ecs.EntityID]struct{}, fn VisitFunc,
) {
	if _, seen := visited[eid]; seen {
		sc.logger.Warn().Uint64("entity", uint64(eid)).Msg("entity reached twice during traversal, skipping")
		return
	}
	visited[eid] = struct{}{}

	if !sc.store.Alive(eid) {
		sc.logger.Warn().Uint64("entity", uint64(eid)).Msg("child entity does not exist, skipping")
		return
	}

	transform, ok := ecs.Get[Transform](sc.store, eid)
	world := parentWorld.Mul4(localMatrix(transform, ok))

	if !fn(eid, world, depth) {
		return
	}

	children, ok := ecs.Get[Children](sc.store, eid)
	if !ok {
		return
	}
	for i := range children.Len() {
		sc.visit(children.At(i), world, depth+1, visited, fn)
	}
}

// localMatrix returns the transform's matrix, or the identity if the entity has no transform.
func localMatrix(t Transform, ok bool) mgl32.Mat4 {
	if !ok {
		return mgl32.Ident4()
	}
	return t.Matrix
}
