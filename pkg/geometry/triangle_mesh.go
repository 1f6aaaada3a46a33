package geometry

import (
	"errors"
	"math"

	"github.com/df07/go-pathcore/pkg/core"
	"golang.org/x/xerrors"
)

// IntersectMesh tests every triangle of a mesh instance. The object-space
// bounds are checked first so rays that miss the mesh skip the loop.
func IntersectMesh(g *Geom, ray core.Ray, triangles []Triangle) (float64, HitRecord) {
	q := g.Transform.ToLocal(ray)
	if !g.Bounds.HasIntersection(q) {
		return NoHit, HitRecord{}
	}

	best := triangleCandidate{index: -1, t: math.Inf(1)}
	for i := g.TriStart; i < g.TriEnd; i++ {
		best.consider(i, &triangles[i], q)
	}

	if best.index < 0 {
		return NoHit, HitRecord{}
	}
	return finishTriangleHit(g, ray, q, &triangles[best.index], best)
}

// MeshBounds returns the object-space bounds of a triangle range
func MeshBounds(triangles []Triangle) core.AABB {
	if len(triangles) == 0 {
		return core.AABB{}
	}
	bounds := core.EmptyAABB()
	for i := range triangles {
		bounds = bounds.Union(triangles[i].BoundingBox())
	}
	return bounds
}

// ErrInvalidMesh is returned when face or attribute tables do not line up.
var ErrInvalidMesh = errors.New("invalid mesh")

// MeshOptions carries optional per-vertex attributes for NewTriangles.
type MeshOptions struct {
	Normals []core.Vec3 // One per vertex; flat normals are used when nil
	UVs     []core.Vec2 // One per vertex; zero when nil
}

// NewTriangles creates an object-space triangle list from vertices and face
// indices, each group of three indices forming one triangle.
func NewTriangles(vertices []core.Vec3, faces []int, opts *MeshOptions) ([]Triangle, error) {
	if len(faces)%3 != 0 {
		return nil, xerrors.Errorf("%d face indices is not a multiple of 3: %w", len(faces), ErrInvalidMesh)
	}
	if opts == nil {
		opts = &MeshOptions{}
	}
	if opts.Normals != nil && len(opts.Normals) != len(vertices) {
		return nil, xerrors.Errorf("%d normals for %d vertices: %w", len(opts.Normals), len(vertices), ErrInvalidMesh)
	}
	if opts.UVs != nil && len(opts.UVs) != len(vertices) {
		return nil, xerrors.Errorf("%d uvs for %d vertices: %w", len(opts.UVs), len(vertices), ErrInvalidMesh)
	}

	triangles := make([]Triangle, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		idx := [3]int{faces[i], faces[i+1], faces[i+2]}
		for _, k := range idx {
			if k < 0 || k >= len(vertices) {
				return nil, xerrors.Errorf("face %d index %d out of range: %w", i/3, k, ErrInvalidMesh)
			}
		}

		tri := NewTriangle(vertices[idx[0]], vertices[idx[1]], vertices[idx[2]])
		for j, k := range idx {
			if opts.Normals != nil {
				tri.Normals[j] = opts.Normals[k].Normalize()
			}
			if opts.UVs != nil {
				tri.UVs[j] = opts.UVs[k]
			}
		}
		triangles = append(triangles, tri)
	}
	return triangles, nil
}

// NewQuad returns the two triangles of the parallelogram spanned by u and v
// from corner, with uv (0,0) at corner and (1,1) at the opposite corner.
func NewQuad(corner, u, v core.Vec3) []Triangle {
	p := [4]core.Vec3{corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v)}
	uv := [4]core.Vec2{core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(1, 1), core.NewVec2(0, 1)}

	a := NewTriangle(p[0], p[1], p[2])
	a.UVs = [3]core.Vec2{uv[0], uv[1], uv[2]}
	b := NewTriangle(p[0], p[2], p[3])
	b.UVs = [3]core.Vec2{uv[0], uv[2], uv[3]}
	return []Triangle{a, b}
}
