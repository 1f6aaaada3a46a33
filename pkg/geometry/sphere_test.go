package geometry

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/google/go-cmp/cmp"
)

func TestIntersectSphere(t *testing.T) {
	unit := &Geom{Kind: ShapeSphere, Transform: core.IdentityTransform(), MaterialID: 3}
	stretched := &Geom{Kind: ShapeSphere, Transform: core.NewTRS(core.Vec3{}, core.Vec3{}, core.NewVec3(1, 1, 4))}

	tests := []struct {
		name    string
		geom    *Geom
		ray     core.Ray
		wantHit bool
		want    HitRecord
	}{
		{
			name:    "outside looking in",
			geom:    unit,
			ray:     core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)),
			wantHit: true,
			want:    HitRecord{T: 4.5, Point: core.NewVec3(0, 0, 0.5), Normal: core.NewVec3(0, 0, 1), Outside: true, MaterialID: 3},
		},
		{
			// The reported normal faces the ray; the outward normal here is (0,0,-1)
			name:    "inside looking out",
			geom:    unit,
			ray:     core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
			wantHit: true,
			want:    HitRecord{T: 0.5, Point: core.NewVec3(0, 0, -0.5), Normal: core.NewVec3(0, 0, 1), Outside: false, MaterialID: 3},
		},
		{
			name: "sphere behind the ray",
			geom: unit,
			ray:  core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)),
		},
		{
			name: "passes beside",
			geom: unit,
			ray:  core.NewRay(core.NewVec3(0.6, 0, 5), core.NewVec3(0, 0, -1)),
		},
		{
			name:    "non-uniform scale reports world distance",
			geom:    stretched,
			ray:     core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1)),
			wantHit: true,
			want:    HitRecord{T: 8, Point: core.NewVec3(0, 0, 2), Normal: core.NewVec3(0, 0, 1), Outside: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, hit := IntersectSphere(tt.geom, tt.ray)
			if !tt.wantHit {
				if dist != NoHit {
					t.Fatalf("Expected miss, got t=%v at %v", dist, hit.Point)
				}
				return
			}
			if diff := cmp.Diff(tt.want, hit, approx); diff != "" {
				t.Errorf("IntersectSphere() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIntersectSphere_InsideNormalIsNegatedOutward(t *testing.T) {
	g := &Geom{Kind: ShapeSphere, Transform: core.NewTRS(core.NewVec3(1, -2, 3), core.NewVec3(10, 20, 30), core.NewVec3(3, 3, 3))}
	center := core.NewVec3(1, -2, 3)
	random := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 200; i++ {
		dir := randomDirection(random)
		dist, hit := IntersectSphere(g, core.NewRay(center, dir))
		if dist <= 0 {
			t.Fatalf("Ray %d from the center missed", i)
		}
		if hit.Outside {
			t.Fatalf("Ray %d from the center reported an outside hit", i)
		}
		outward := hit.Point.Subtract(center).Normalize()
		if diff := cmp.Diff(outward.Negate(), hit.Normal, approx); diff != "" {
			t.Fatalf("Ray %d normal mismatch (-want +got):\n%s", i, diff)
		}
		if math.Abs(dist-1.5) > 1e-9 {
			t.Errorf("Ray %d expected t=1.5, got %v", i, dist)
		}
	}
}

func randomDirection(random *rand.Rand) core.Vec3 {
	for {
		v := core.NewVec3(2*random.Float64()-1, 2*random.Float64()-1, 2*random.Float64()-1)
		if l := v.LengthSquared(); l > 1e-4 && l <= 1 {
			return v.Normalize()
		}
	}
}
