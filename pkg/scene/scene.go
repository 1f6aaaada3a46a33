package scene

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/df07/go-pathcore/pkg/geometry"
	"github.com/df07/go-pathcore/pkg/material"
	"github.com/olekukonko/tablewriter"
)

var (
	// ErrInvalidMaterial is returned for material tables that cannot be shaded.
	ErrInvalidMaterial = errors.New("invalid material")

	// ErrInvalidTexture is returned for unusable textures or texture bindings.
	ErrInvalidTexture = errors.New("invalid texture")

	// ErrInvalidGeometry is returned for instances that cannot be intersected.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// CameraConfig describes a pinhole camera
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // Up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
}

// SamplingConfig contains the default render settings of a scene
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of iterations
	MaxDepth        int // Maximum ray bounce depth
}

// Scene is a flattened, validated scene. All tables are read-only once
// Build has returned and may be shared between render workers.
type Scene struct {
	World          geometry.World
	Materials      []material.Material
	Textures       *material.TextureSet
	Camera         CameraConfig
	SamplingConfig SamplingConfig
}

// Material returns the material of a hit
func (s *Scene) Material(hit geometry.HitRecord) material.Material {
	return s.Materials[hit.MaterialID]
}

// Stats builds a tabular summary of the scene tables.
func (s *Scene) Stats() string {
	var shapes [3]int
	for i := range s.World.Geoms {
		shapes[s.World.Geoms[i].Kind]++
	}

	var kinds [material.KindEmissive + 1]int
	for _, m := range s.Materials {
		kinds[m.Kind()]++
	}

	var bvh geometry.BVHStats
	accelerated := 0
	for i := range s.World.Geoms {
		g := &s.World.Geoms[i]
		if !g.Accelerated() {
			continue
		}
		accelerated++
		st, _ := geometry.ValidateBVH(s.World.Nodes[g.BVHStart:g.BVHStart+g.BVHCount], g.TriEnd-g.TriStart)
		bvh.Leaves += st.Leaves
		bvh.MaxDepth = max(bvh.MaxDepth, st.MaxDepth)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count"})
	table.Append([]string{"Instances", "---", count(len(s.World.Geoms))})
	table.Append([]string{"", "Boxes", count(shapes[geometry.ShapeBox])})
	table.Append([]string{"", "Spheres", count(shapes[geometry.ShapeSphere])})
	table.Append([]string{"", "Meshes", count(shapes[geometry.ShapeMesh])})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Geometry", "---", " "})
	table.Append([]string{"", "Triangles", count(len(s.World.Triangles))})
	table.Append([]string{"", "BVH nodes", count(len(s.World.Nodes))})
	table.Append([]string{"", "BVH leaves", count(bvh.Leaves)})
	table.Append([]string{"", "BVH max depth", count(bvh.MaxDepth)})
	table.Append([]string{"", "Accelerated meshes", count(accelerated)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", "---", count(len(s.Materials))})
	for k := material.KindDiffuse; k <= material.KindEmissive; k++ {
		table.Append([]string{"", k.String(), count(kinds[k])})
	}
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Textures", "---", count(s.Textures.Len())})
	table.SetFooter([]string{"Resolution", " ", fmt.Sprintf("%dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)})

	table.Render()
	return buf.String()
}

func count(n int) string {
	return fmt.Sprintf("%d", n)
}
