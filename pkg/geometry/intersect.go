package geometry

import (
	"math"

	"github.com/df07/go-pathcore/pkg/core"
)

// IntersectGeom tests a single instance, dispatching on its shape kind.
func IntersectGeom(w *World, index int, ray core.Ray) (float64, HitRecord) {
	g := &w.Geoms[index]

	var t float64
	var hit HitRecord
	switch g.Kind {
	case ShapeBox:
		t, hit = IntersectBox(g, ray)
	case ShapeSphere:
		t, hit = IntersectSphere(g, ray)
	case ShapeMesh:
		if g.Accelerated() {
			t, hit = IntersectBVH(g, ray, w.Triangles, w.Nodes)
		} else {
			t, hit = IntersectMesh(g, ray, w.Triangles)
		}
	default:
		return NoHit, HitRecord{}
	}

	hit.GeomIndex = index
	return t, hit
}

// Intersect finds the nearest hit with t > 0 across every instance of the world.
func Intersect(ray core.Ray, w *World) (HitRecord, bool) {
	closest := HitRecord{T: math.Inf(1), GeomIndex: -1}
	found := false

	for i := range w.Geoms {
		t, hit := IntersectGeom(w, i, ray)
		if t > 0 && t < closest.T {
			closest = hit
			found = true
		}
	}

	if !found {
		return HitRecord{GeomIndex: -1}, false
	}
	return closest, true
}
