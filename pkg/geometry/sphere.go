package geometry

import (
	"math"

	"github.com/df07/go-pathcore/pkg/core"
)

// sphereRadius is the object-space radius of every sphere instance.
const sphereRadius = 0.5

// IntersectSphere tests a ray against a transformed sphere of radius 0.5
// centered at the object-space origin.
func IntersectSphere(g *Geom, ray core.Ray) (float64, HitRecord) {
	q := g.Transform.ToLocal(ray)

	// Quadratic with a unit direction: t^2 + 2(o.d)t + (o.o - r^2) = 0
	halfB := q.Origin.Dot(q.Direction)
	discriminant := halfB*halfB - (q.Origin.Dot(q.Origin) - sphereRadius*sphereRadius)
	if discriminant < 0 {
		return NoHit, HitRecord{}
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := -halfB + sqrtD
	t2 := -halfB - sqrtD

	var t float64
	var outside bool
	switch {
	case t1 < 0 && t2 < 0:
		return NoHit, HitRecord{}
	case t1 > 0 && t2 > 0:
		t = math.Min(t1, t2)
		outside = true
	default:
		// Origin inside the sphere: take the far root
		t = math.Max(t1, t2)
		outside = false
	}

	localPoint := q.At(t)
	localNormal := localPoint
	if !outside {
		localNormal = localNormal.Negate()
	}

	return finishHit(g, ray, localPoint, localNormal, outside)
}
