package geometry

import (
	"github.com/df07/go-pathcore/pkg/core"
)

// triangleEpsilon guards against rays lying in the plane of a triangle.
const triangleEpsilon = 1e-12

// Triangle holds three object-space vertices with per-vertex normals and
// texture coordinates. Triangles are immutable once a scene is built.
type Triangle struct {
	V       [3]core.Vec3
	Normals [3]core.Vec3
	UVs     [3]core.Vec2
}

// NewTriangle creates a flat-shaded triangle: all three vertex normals are
// the geometric normal and UVs are zero.
func NewTriangle(v0, v1, v2 core.Vec3) Triangle {
	n := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	return Triangle{
		V:       [3]core.Vec3{v0, v1, v2},
		Normals: [3]core.Vec3{n, n, n},
	}
}

// BoundingBox returns the object-space bounds of the triangle
func (tri *Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(tri.V[0], tri.V[1], tri.V[2])
}

// Centroid returns the average of the three vertices
func (tri *Triangle) Centroid() core.Vec3 {
	return tri.V[0].Add(tri.V[1]).Add(tri.V[2]).Multiply(1.0 / 3.0)
}

// Intersect runs the Möller-Trumbore test against an object-space ray. It
// returns the ray parameter and the barycentric weights (u, v) of vertices 1
// and 2. Hits at t <= 0 are rejected.
func (tri *Triangle) Intersect(ray core.Ray) (t, u, v float64, ok bool) {
	edge1 := tri.V[1].Subtract(tri.V[0])
	edge2 := tri.V[2].Subtract(tri.V[0])

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -triangleEpsilon && a < triangleEpsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(tri.V[0])
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	t = f * edge2.Dot(q)
	if t <= 0 {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// interpolate blends the per-vertex normal and uv at barycentric (u, v)
func (tri *Triangle) interpolate(u, v float64) (core.Vec3, core.Vec2) {
	w := 1 - u - v
	normal := tri.Normals[0].Multiply(w).
		Add(tri.Normals[1].Multiply(u)).
		Add(tri.Normals[2].Multiply(v))
	uv := tri.UVs[0].Multiply(w).
		Add(tri.UVs[1].Multiply(u)).
		Add(tri.UVs[2].Multiply(v))
	return normal, uv
}

// triangleCandidate is the closest triangle found so far in object space
type triangleCandidate struct {
	index int
	t     float64
	u, v  float64
}

func (c *triangleCandidate) consider(index int, tri *Triangle, q core.Ray) {
	t, u, v, ok := tri.Intersect(q)
	if ok && t < c.t {
		*c = triangleCandidate{index: index, t: t, u: u, v: v}
	}
}

// finishTriangleHit converts the closest object-space triangle hit into a
// world-space record. The normal is flipped to face the ray when the ray
// approaches the back face.
func finishTriangleHit(g *Geom, ray, q core.Ray, tri *Triangle, c triangleCandidate) (float64, HitRecord) {
	localNormal, uv := tri.interpolate(c.u, c.v)
	outside := localNormal.Dot(q.Direction) < 0
	if !outside {
		localNormal = localNormal.Negate()
	}

	t, hit := finishHit(g, ray, q.At(c.t), localNormal, outside)
	hit.UV = uv
	return t, hit
}
