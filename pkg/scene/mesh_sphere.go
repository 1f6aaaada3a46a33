package scene

import (
	"math"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/df07/go-pathcore/pkg/geometry"
	"github.com/df07/go-pathcore/pkg/material"
)

// NewMeshSphereScene places tessellated spheres with interpolated normals
// beside analytic spheres of the same size, on a UV-debug textured ground.
func NewMeshSphereScene() (*Scene, error) {
	b := NewBuilder()
	b.SetCamera(CameraConfig{
		Center:      core.NewVec3(0, 2.5, 9),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	})
	b.SetSampling(SamplingConfig{Width: 640, Height: 360, SamplesPerPixel: 128, MaxDepth: 8})

	noRotation := core.Vec3{}
	uvDebug := b.AddTexture(material.NewUVDebugTexture(128, 128))

	sky := b.AddMaterial(material.NewEmissive(core.NewVec3(0.9, 0.95, 1.0), 1.5))
	ground := b.AddMaterial(material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.8)).WithTexture(uvDebug))
	blue := b.AddMaterial(material.NewDiffuse(core.NewVec3(0.2, 0.3, 0.8)))
	glass := b.AddMaterial(material.NewDielectric(core.NewVec3(1, 1, 1), 1.5))
	water := b.AddMaterial(material.NewTransmissive(core.NewVec3(0.9, 0.95, 1.0), 1.33))
	gold := b.AddMaterial(material.NewSpecular(core.NewVec3(1.0, 0.78, 0.34)))

	// Overhead light dome and ground slab
	b.AddSphere(core.NewTRS(core.NewVec3(0, 30, 0), noRotation, core.NewVec3(30, 30, 30)), sky)
	b.AddBox(core.NewTRS(core.NewVec3(0, -0.5, 0), noRotation, core.NewVec3(20, 1, 20)), ground)

	tris, err := uvSphereMesh(24, 48)
	if err != nil {
		return nil, err
	}

	size := core.NewVec3(2, 2, 2)
	b.AddMesh(tris, core.NewTRS(core.NewVec3(-3, 1, 0), noRotation, size), blue, true)
	b.AddMesh(tris, core.NewTRS(core.NewVec3(0, 1, 0), core.NewVec3(0, 45, 0), size), glass, true)
	b.AddSphere(core.NewTRS(core.NewVec3(3, 1, 0), noRotation, size), water)
	b.AddSphere(core.NewTRS(core.NewVec3(1.5, 0.5, 2), noRotation, core.NewVec3(1, 1, 1)), gold)

	return b.Build()
}

// uvSphereMesh tessellates the radius 0.5 sphere into latitude/longitude
// bands with smooth normals and equirectangular uvs.
func uvSphereMesh(latitudes, longitudes int) ([]geometry.Triangle, error) {
	count := (latitudes + 1) * (longitudes + 1)
	vertices := make([]core.Vec3, 0, count)
	normals := make([]core.Vec3, 0, count)
	uvs := make([]core.Vec2, 0, count)

	for lat := 0; lat <= latitudes; lat++ {
		theta := math.Pi * float64(lat) / float64(latitudes)
		for lon := 0; lon <= longitudes; lon++ {
			phi := 2 * math.Pi * float64(lon) / float64(longitudes)
			n := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Cos(theta), math.Sin(theta)*math.Sin(phi))
			vertices = append(vertices, n.Multiply(0.5))
			normals = append(normals, n)
			uvs = append(uvs, core.NewVec2(float64(lon)/float64(longitudes), 1-float64(lat)/float64(latitudes)))
		}
	}

	index := func(lat, lon int) int { return lat*(longitudes+1) + lon }
	faces := make([]int, 0, latitudes*longitudes*6)
	for lat := 0; lat < latitudes; lat++ {
		for lon := 0; lon < longitudes; lon++ {
			a, b := index(lat, lon), index(lat, lon+1)
			c, d := index(lat+1, lon), index(lat+1, lon+1)
			// The pole rows collapse to single triangles
			if lat != 0 {
				faces = append(faces, a, b, c)
			}
			if lat != latitudes-1 {
				faces = append(faces, b, d, c)
			}
		}
	}

	return geometry.NewTriangles(vertices, faces, &geometry.MeshOptions{Normals: normals, UVs: uvs})
}
