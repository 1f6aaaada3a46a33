package scene

import (
	"github.com/df07/go-pathcore/pkg/core"
	"github.com/df07/go-pathcore/pkg/geometry"
	"github.com/df07/go-pathcore/pkg/material"
)

// NewCornellScene creates a Cornell box built from thin boxes, lit by an
// emissive panel, holding a mirror sphere, a glass sphere and a textured,
// BVH-accelerated floor mesh.
func NewCornellScene() (*Scene, error) {
	b := NewBuilder()
	b.SetCamera(CameraConfig{
		Center:      core.NewVec3(0, 5, 10.5),
		LookAt:      core.NewVec3(0, 5, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45,
		AspectRatio: 1,
	})
	b.SetSampling(SamplingConfig{Width: 400, Height: 400, SamplesPerPixel: 256, MaxDepth: 8})

	checker := b.AddTexture(material.NewCheckerboardTexture(64, 64, 8,
		core.NewVec3(0.85, 0.85, 0.85), core.NewVec3(0.2, 0.2, 0.2)))

	light := b.AddMaterial(material.NewEmissive(core.NewVec3(1, 1, 1), 5))
	white := b.AddMaterial(material.NewDiffuse(core.NewVec3(0.85, 0.85, 0.85)))
	red := b.AddMaterial(material.NewDiffuse(core.NewVec3(0.85, 0.35, 0.35)))
	green := b.AddMaterial(material.NewDiffuse(core.NewVec3(0.35, 0.85, 0.35)))
	mirror := b.AddMaterial(material.NewSpecular(core.NewVec3(0.98, 0.98, 0.98)))
	glass := b.AddMaterial(material.NewDielectric(core.NewVec3(0.98, 0.98, 0.98), 1.5))
	floor := b.AddMaterial(material.NewDiffuse(core.NewVec3(0.85, 0.85, 0.85)).WithTexture(checker))

	noRotation := core.Vec3{}

	// Light panel just below the ceiling
	b.AddBox(core.NewTRS(core.NewVec3(0, 9.9, 0), noRotation, core.NewVec3(3, 0.3, 3)), light)

	// Walls
	b.AddBox(core.NewTRS(core.NewVec3(0, 10, 0), noRotation, core.NewVec3(10, 0.01, 10)), white)
	b.AddBox(core.NewTRS(core.NewVec3(0, 5, -5), noRotation, core.NewVec3(10, 10, 0.01)), white)
	b.AddBox(core.NewTRS(core.NewVec3(-5, 5, 0), noRotation, core.NewVec3(0.01, 10, 10)), red)
	b.AddBox(core.NewTRS(core.NewVec3(5, 5, 0), noRotation, core.NewVec3(0.01, 10, 10)), green)

	tris, err := gridMesh(16, 16)
	if err != nil {
		return nil, err
	}
	b.AddMesh(tris, core.NewTRS(core.Vec3{}, noRotation, core.NewVec3(10, 1, 10)), floor, true)

	// Spheres of radius 1.5 resting on the floor
	b.AddSphere(core.NewTRS(core.NewVec3(-2, 1.5, -1), noRotation, core.NewVec3(3, 3, 3)), mirror)
	b.AddSphere(core.NewTRS(core.NewVec3(2, 1.5, 1), noRotation, core.NewVec3(3, 3, 3)), glass)

	return b.Build()
}

// gridMesh tessellates the unit square [-0.5,0.5]^2 of the XZ plane into
// nu x nv quads facing +Y, with uv spanning [0,1]^2.
func gridMesh(nu, nv int) ([]geometry.Triangle, error) {
	vertices := make([]core.Vec3, 0, (nu+1)*(nv+1))
	uvs := make([]core.Vec2, 0, (nu+1)*(nv+1))
	for j := 0; j <= nv; j++ {
		for i := 0; i <= nu; i++ {
			u := float64(i) / float64(nu)
			v := float64(j) / float64(nv)
			vertices = append(vertices, core.NewVec3(u-0.5, 0, 0.5-v))
			uvs = append(uvs, core.NewVec2(u, v))
		}
	}

	index := func(i, j int) int { return j*(nu+1) + i }
	faces := make([]int, 0, nu*nv*6)
	for j := 0; j < nv; j++ {
		for i := 0; i < nu; i++ {
			p00, p10 := index(i, j), index(i+1, j)
			p01, p11 := index(i, j+1), index(i+1, j+1)
			faces = append(faces, p00, p10, p11, p00, p11, p01)
		}
	}

	return geometry.NewTriangles(vertices, faces, &geometry.MeshOptions{UVs: uvs})
}
