package scene

import (
	"github.com/argus-labs/scene-engine/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
)

// MaxChildren is the number of children a single entity can hold.
const MaxChildren = 16

// ErrTooManyChildren is returned when appending to a full Children component.
var ErrTooManyChildren = eris.Errorf("an entity can have at most %d children", MaxChildren)

// Transform is an entity's transform relative to its parent.
type Transform struct {
	Matrix mgl32.Mat4
}

func (Transform) Name() string { return "transform" }

// IdentityTransform returns a transform that leaves its children where they are.
func IdentityTransform() Transform {
	return Transform{Matrix: mgl32.Ident4()}
}

// Translation returns a transform that moves its children by (x, y, z).
func Translation(x, y, z float32) Transform {
	return Transform{Matrix: mgl32.Translate3D(x, y, z)}
}

// ResourceID refers to a GPU resource such as a mesh. IDs are opaque to the scene and are resolved
// by the renderer.
type ResourceID uint32

// Mesh marks an entity as drawable. An entity whose mesh has no resource yet is skipped when
// building the display list.
type Mesh struct {
	Resource ResourceID
	Valid    bool // False if Resource hasn't been assigned
}

func (Mesh) Name() string { return "mesh" }

// MeshOf returns a mesh that draws resource.
func MeshOf(resource ResourceID) Mesh {
	return Mesh{Resource: resource, Valid: true}
}

// Children holds the ordered child entities of an entity.
type Children struct {
	ids [MaxChildren]ecs.EntityID
	n   int
}

func (Children) Name() string { return "children" }

// Append adds a child at the end. Returns ErrTooManyChildren if the collection is full.
func (c *Children) Append(eid ecs.EntityID) error {
	if c.n == MaxChildren {
		return eris.Wrapf(ErrTooManyChildren, "cannot append entity %d", eid)
	}
	c.ids[c.n] = eid
	c.n++
	return nil
}

// Remove deletes the first occurrence of eid, keeping the order of the remaining children.
// Returns false if eid isn't a child.
func (c *Children) Remove(eid ecs.EntityID) bool {
	for i := range c.n {
		if c.ids[i] == eid {
			copy(c.ids[i:c.n], c.ids[i+1:c.n])
			c.n--
			c.ids[c.n] = 0
			return true
		}
	}
	return false
}

// Len returns the number of children.
func (c Children) Len() int {
	return c.n
}

// At returns the i-th child.
func (c Children) At(i int) ecs.EntityID {
	return c.ids[:c.n][i]
}

// IDs returns a copy of the children in order.
func (c Children) IDs() []ecs.EntityID {
	ids := make([]ecs.EntityID, c.n)
	copy(ids, c.ids[:c.n])
	return ids
}

// Camera is a perspective camera. The view transform comes from the entity's Transform.
type Camera struct {
	FovY   float32 // Vertical field of view in radians
	Aspect float32 // Width / height
	Near   float32
	Far    float32
}

func (Camera) Name() string { return "camera" }

// Projection returns the camera's perspective projection matrix.
func (c Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}
