package geometry

import (
	"github.com/df07/go-pathcore/pkg/core"
)

// NoHit is the sentinel distance returned by intersection tests that miss.
const NoHit = -1.0

// ShapeKind tags the primitive stored in a Geom.
type ShapeKind uint8

const (
	// ShapeBox is the cube [-0.5,0.5]^3 in object space.
	ShapeBox ShapeKind = iota
	// ShapeSphere is the sphere of radius 0.5 centered at the object-space origin.
	ShapeSphere
	// ShapeMesh is a range of triangles, optionally accelerated by a BVH.
	ShapeMesh
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapeMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Geom is one placed instance of a primitive. Mesh instances reference
// shared triangle and BVH tables by index range rather than owning them.
type Geom struct {
	Kind       ShapeKind
	Transform  core.Transform
	MaterialID int

	// Half-open range into World.Triangles (meshes only).
	TriStart, TriEnd int

	// Range into World.Nodes; BVHCount == 0 means the mesh is tested brute force.
	BVHStart, BVHCount int

	// Object-space bounds of the mesh triangles.
	Bounds core.AABB
}

// Accelerated reports whether the mesh has a BVH.
func (g *Geom) Accelerated() bool {
	return g.Kind == ShapeMesh && g.BVHCount > 0
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T          float64   // World-space distance from the ray origin
	Point      core.Vec3 // Point of intersection
	Normal     core.Vec3 // Unit world-space normal, facing the incoming ray
	UV         core.Vec2 // Surface parameterization (meshes only)
	Outside    bool      // Whether the ray origin is outside the solid
	GeomIndex  int       // Index of the hit instance
	MaterialID int       // Material of the hit instance
}

// World is the flattened, read-only geometry of a scene.
type World struct {
	Geoms     []Geom
	Triangles []Triangle
	Nodes     []BVHNode
}

// finishHit converts an object-space hit into world space. localNormal must
// already face the object-space ray.
func finishHit(g *Geom, ray core.Ray, localPoint, localNormal core.Vec3, outside bool) (float64, HitRecord) {
	point := g.Transform.PointToWorld(localPoint)
	hit := HitRecord{
		Point:      point,
		Normal:     g.Transform.NormalToWorld(localNormal),
		Outside:    outside,
		MaterialID: g.MaterialID,
	}
	hit.T = point.Subtract(ray.Origin).Length()
	return hit.T, hit
}
