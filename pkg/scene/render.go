package scene

import (
	"github.com/argus-labs/scene-engine/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
)

// DisplayItem is one draw in the display list.
type DisplayItem struct {
	World    mgl32.Mat4   `json:"world"`
	Resource ResourceID   `json:"resource"`
	Entity   ecs.EntityID `json:"entity"`
}

// RenderSystem returns a system that rebuilds the scene's display list from the hierarchy. Only
// entities reachable from the root that carry a valid Mesh are drawn, in traversal order.
func RenderSystem(sc *Scene) ecs.System {
	return func(_ ecs.StepInfo, s *ecs.Store) error {
		if s != sc.store {
			return eris.New("render system run against a store that doesn't belong to its scene")
		}
		sc.buildDisplayList()
		return nil
	}
}

// RenderSystemOptions returns the component access of the render system, for registering it with
// an ecs.Scheduler.
func RenderSystemOptions() []ecs.SystemOption {
	return []ecs.SystemOption{
		ecs.Reads[Transform](),
		ecs.Reads[Mesh](),
		ecs.Reads[Children](),
	}
}

func (sc *Scene) buildDisplayList() {
	sc.display = sc.display[:0]
	sc.Traverse(func(eid ecs.EntityID, world mgl32.Mat4, _ int) bool {
		if mesh, ok := ecs.Get[Mesh](sc.store, eid); ok && mesh.Valid {
			sc.display = append(sc.display, DisplayItem{World: world, Resource: mesh.Resource, Entity: eid})
		}
		return true
	})
}

// DisplayList returns a copy of the display list built by the last render system run.
func (sc *Scene) DisplayList() []DisplayItem {
	out := make([]DisplayItem, len(sc.display))
	copy(out, sc.display)
	return out
}
