package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/google/go-cmp/cmp"
)

func TestTriangle_Intersect(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
		expectedU float64
		expectedV float64
	}{
		{
			name:      "Ray hits triangle interior",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 1.0,
			expectedU: 0.25,
			expectedV: 0.25,
		},
		{
			name:      "Ray hits triangle edge",
			ray:       core.NewRay(core.NewVec3(0.5, 0, -1), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 1.0,
			expectedU: 0.5,
			expectedV: 0,
		},
		{
			name:      "Ray from the back side",
			ray:       core.NewRay(core.NewVec3(0.1, 0.2, 2), core.NewVec3(0, 0, -1)),
			shouldHit: true,
			expectedT: 2.0,
			expectedU: 0.1,
			expectedV: 0.2,
		},
		{
			name: "Ray misses triangle",
			ray:  core.NewRay(core.NewVec3(0.75, 0.75, -1), core.NewVec3(0, 0, 1)),
		},
		{
			name: "Ray parallel to triangle plane",
			ray:  core.NewRay(core.NewVec3(-1, 0.25, 0), core.NewVec3(1, 0, 0)),
		},
		{
			name: "Triangle behind ray",
			ray:  core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, u, v, ok := tri.Intersect(tt.ray)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(dist-tt.expectedT) > 1e-12 {
				t.Errorf("Expected t=%v, got %v", tt.expectedT, dist)
			}
			if math.Abs(u-tt.expectedU) > 1e-12 || math.Abs(v-tt.expectedV) > 1e-12 {
				t.Errorf("Expected barycentrics (%v, %v), got (%v, %v)", tt.expectedU, tt.expectedV, u, v)
			}
		})
	}
}

func TestTriangle_InterpolatesVertexAttributes(t *testing.T) {
	vertices := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}
	tris, err := NewTriangles(vertices, []int{0, 1, 2}, &MeshOptions{
		Normals: []core.Vec3{core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 1), core.NewVec3(0, 1, 1)},
		UVs:     []core.Vec2{core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1)},
	})
	if err != nil {
		t.Fatalf("NewTriangles() error: %v", err)
	}

	g := &Geom{Kind: ShapeMesh, Transform: core.IdentityTransform(), TriStart: 0, TriEnd: 1, Bounds: MeshBounds(tris)}
	dist, hit := IntersectMesh(g, core.NewRay(core.NewVec3(0.2, 0.3, 1), core.NewVec3(0, 0, -1)), tris)
	if dist <= 0 {
		t.Fatalf("Expected hit, got t=%v", dist)
	}

	// Weights are 0.5 for vertex 0, 0.2 for vertex 1 and 0.3 for vertex 2
	wantUV := core.NewVec2(0.2, 0.3)
	if diff := cmp.Diff(wantUV, hit.UV, approx); diff != "" {
		t.Errorf("UV mismatch (-want +got):\n%s", diff)
	}
	n1 := core.NewVec3(1, 0, 1).Normalize()
	n2 := core.NewVec3(0, 1, 1).Normalize()
	wantNormal := core.NewVec3(0, 0, 0.5).Add(n1.Multiply(0.2)).Add(n2.Multiply(0.3)).Normalize()
	if diff := cmp.Diff(wantNormal, hit.Normal, approx); diff != "" {
		t.Errorf("Normal mismatch (-want +got):\n%s", diff)
	}
	if !hit.Outside {
		t.Errorf("Expected outside hit on the front face")
	}
}

func TestTriangle_BackFaceFlipsNormal(t *testing.T) {
	tris := []Triangle{NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))}
	g := &Geom{Kind: ShapeMesh, Transform: core.IdentityTransform(), TriStart: 0, TriEnd: 1, Bounds: MeshBounds(tris)}

	_, hit := IntersectMesh(g, core.NewRay(core.NewVec3(0.2, 0.2, -1), core.NewVec3(0, 0, 1)), tris)
	if hit.Outside {
		t.Errorf("Expected back face hit to report outside=false")
	}
	if diff := cmp.Diff(core.NewVec3(0, 0, -1), hit.Normal, approx); diff != "" {
		t.Errorf("Normal mismatch (-want +got):\n%s", diff)
	}
}

func TestNewTriangles_Errors(t *testing.T) {
	vertices := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}

	tests := []struct {
		name  string
		faces []int
		opts  *MeshOptions
	}{
		{name: "incomplete face", faces: []int{0, 1}},
		{name: "index out of range", faces: []int{0, 1, 3}},
		{name: "negative index", faces: []int{0, -1, 2}},
		{name: "normal count", faces: []int{0, 1, 2}, opts: &MeshOptions{Normals: []core.Vec3{{}}}},
		{name: "uv count", faces: []int{0, 1, 2}, opts: &MeshOptions{UVs: []core.Vec2{{}, {}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriangles(vertices, tt.faces, tt.opts)
			if !errors.Is(err, ErrInvalidMesh) {
				t.Errorf("Expected ErrInvalidMesh, got %v", err)
			}
		})
	}
}

func TestQuadMesh_CenterHit(t *testing.T) {
	tris := NewQuad(core.NewVec3(-0.5, -0.5, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	if len(tris) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(tris))
	}

	nodes, ordered, err := BuildBVH(tris, DefaultBVHOptions())
	if err != nil {
		t.Fatalf("BuildBVH() error: %v", err)
	}

	w := &World{
		Geoms: []Geom{
			{Kind: ShapeMesh, Transform: core.IdentityTransform(), TriStart: 0, TriEnd: 2, Bounds: MeshBounds(tris)},
			{Kind: ShapeMesh, Transform: core.NewTRS(core.NewVec3(0, 0, -20), core.Vec3{}, core.NewVec3(1, 1, 1)),
				TriStart: 2, TriEnd: 4, BVHStart: 0, BVHCount: len(nodes), Bounds: MeshBounds(ordered)},
		},
		Triangles: append(append([]Triangle{}, tris...), ordered...),
		Nodes:     nodes,
	}

	want := HitRecord{T: 5, Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1), UV: core.NewVec2(0.5, 0.5), Outside: true}

	for i := range w.Geoms {
		ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
		if i == 1 {
			ray.Origin = core.NewVec3(0, 0, -15)
		}

		first, ok := Intersect(ray, &World{Geoms: w.Geoms[i : i+1], Triangles: w.Triangles, Nodes: w.Nodes})
		if !ok {
			t.Fatalf("Geom %d: expected hit through the quad center", i)
		}
		again, _ := Intersect(ray, &World{Geoms: w.Geoms[i : i+1], Triangles: w.Triangles, Nodes: w.Nodes})
		if diff := cmp.Diff(first, again); diff != "" {
			t.Errorf("Geom %d: repeated intersection differs:\n%s", i, diff)
		}

		expected := want
		expected.Point = expected.Point.Add(core.NewVec3(0, 0, -20*float64(i)))
		if diff := cmp.Diff(expected, first, approx); diff != "" {
			t.Errorf("Geom %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}
