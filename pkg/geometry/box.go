package geometry

import (
	"math"

	"github.com/df07/go-pathcore/pkg/core"
)

// IntersectBox tests a ray against a transformed unit cube using the slab
// method. If the ray starts inside the cube the exit point is reported with
// Outside=false. The returned normal always faces the incoming ray.
func IntersectBox(g *Geom, ray core.Ray) (float64, HitRecord) {
	q := g.Transform.ToLocal(ray)

	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	var tMinNormal, tMaxNormal core.Vec3

	for axis := 0; axis < 3; axis++ {
		direction := q.Direction.Axis(axis)
		origin := q.Origin.Axis(axis)

		// Parallel to this slab pair: no narrowing, but the origin must lie between the planes
		if math.Abs(direction) <= core.ParallelEpsilon {
			if origin < -0.5 || origin > 0.5 {
				return NoHit, HitRecord{}
			}
			continue
		}

		t1 := (-0.5 - origin) / direction
		t2 := (+0.5 - origin) / direction
		ta := math.Min(t1, t2)
		tb := math.Max(t1, t2)

		// Both the entry and the exit face on this axis face against the ray
		var n core.Vec3
		if t2 < t1 {
			n = n.WithAxis(axis, 1)
		} else {
			n = n.WithAxis(axis, -1)
		}

		if ta > tMin {
			tMin = ta
			tMinNormal = n
		}
		if tb < tMax {
			tMax = tb
			tMaxNormal = n
		}
	}

	if tMax < tMin || tMax <= 0 {
		return NoHit, HitRecord{}
	}

	outside := true
	if tMin <= 0 {
		tMin = tMax
		tMinNormal = tMaxNormal
		outside = false
	}

	return finishHit(g, ray, q.At(tMin), tMinNormal, outside)
}
