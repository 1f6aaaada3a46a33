package scene

import (
	"math"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/df07/go-pathcore/pkg/geometry"
	"github.com/df07/go-pathcore/pkg/log"
	"github.com/df07/go-pathcore/pkg/material"
	"golang.org/x/xerrors"
)

// Builder flattens instance descriptions into the tables of a Scene. Meshes
// are appended to one shared triangle table; accelerated meshes get their
// BVH built immediately and appended to the shared node table.
type Builder struct {
	logger     log.Logger
	bvhOptions geometry.BVHOptions

	materials []material.Material
	textures  *material.TextureSet
	geoms     []geometry.Geom
	triangles []geometry.Triangle
	nodes     []geometry.BVHNode

	camera   CameraConfig
	sampling SamplingConfig

	// First error raised by an Add call, reported by Build
	err error
}

// NewBuilder creates an empty builder with default BVH options
func NewBuilder() *Builder {
	return &Builder{
		logger:     log.New("scene"),
		bvhOptions: geometry.DefaultBVHOptions(),
		textures:   material.NewTextureSet(),
		camera: CameraConfig{
			Center:      core.NewVec3(0, 0, 5),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        45,
			AspectRatio: 1,
		},
		sampling: SamplingConfig{Width: 400, Height: 400, SamplesPerPixel: 64, MaxDepth: 8},
	}
}

// SetBVHOptions changes the options used for meshes added afterwards
func (b *Builder) SetBVHOptions(opts geometry.BVHOptions) *Builder {
	b.bvhOptions = opts
	return b
}

// SetCamera sets the scene camera
func (b *Builder) SetCamera(camera CameraConfig) *Builder {
	b.camera = camera
	return b
}

// SetSampling sets the default render settings
func (b *Builder) SetSampling(sampling SamplingConfig) *Builder {
	b.sampling = sampling
	return b
}

// AddMaterial appends a material and returns its id
func (b *Builder) AddMaterial(m material.Material) int {
	b.materials = append(b.materials, m)
	return len(b.materials) - 1
}

// AddTexture appends a texture and returns its handle
func (b *Builder) AddTexture(t *material.Texture) int {
	return b.textures.Add(t)
}

// AddSphere places a radius 0.5 sphere and returns the instance index
func (b *Builder) AddSphere(xf core.Transform, materialID int) int {
	return b.addGeom(geometry.Geom{Kind: geometry.ShapeSphere, Transform: xf, MaterialID: materialID})
}

// AddBox places a unit cube and returns the instance index
func (b *Builder) AddBox(xf core.Transform, materialID int) int {
	return b.addGeom(geometry.Geom{Kind: geometry.ShapeBox, Transform: xf, MaterialID: materialID})
}

// AddMesh places an object-space triangle list and returns the instance
// index. With accelerate set a BVH is built over the triangles, which are
// stored in BVH leaf order.
func (b *Builder) AddMesh(tris []geometry.Triangle, xf core.Transform, materialID int, accelerate bool) int {
	g := geometry.Geom{
		Kind:       geometry.ShapeMesh,
		Transform:  xf,
		MaterialID: materialID,
		TriStart:   len(b.triangles),
		Bounds:     geometry.MeshBounds(tris),
	}

	if accelerate && len(tris) > 0 {
		nodes, ordered, err := geometry.BuildBVH(tris, b.bvhOptions)
		if err != nil {
			b.fail(xerrors.Errorf("mesh %d: %w", len(b.geoms), err))
			return -1
		}
		g.BVHStart = len(b.nodes)
		g.BVHCount = len(nodes)
		b.nodes = append(b.nodes, nodes...)
		tris = ordered
	}

	b.triangles = append(b.triangles, tris...)
	g.TriEnd = len(b.triangles)
	return b.addGeom(g)
}

func (b *Builder) addGeom(g geometry.Geom) int {
	b.geoms = append(b.geoms, g)
	return len(b.geoms) - 1
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build validates the tables and returns the scene. The builder must not be
// used afterwards.
func (b *Builder) Build() (*Scene, error) {
	if b.err != nil {
		return nil, b.err
	}

	s := &Scene{
		World: geometry.World{
			Geoms:     b.geoms,
			Triangles: b.triangles,
			Nodes:     b.nodes,
		},
		Materials:      b.materials,
		Textures:       b.textures,
		Camera:         b.camera,
		SamplingConfig: b.sampling,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	b.logger.Infof(
		"scene built: %d instances, %d triangles, %d BVH nodes, %d materials, %d textures",
		len(s.World.Geoms), len(s.World.Triangles), len(s.World.Nodes), len(s.Materials), s.Textures.Len(),
	)
	return s, nil
}

// Validate checks every cross-table reference the renderer relies on.
func (s *Scene) Validate() error {
	for i := 0; i < s.Textures.Len(); i++ {
		if !s.Textures.Get(i).Valid() {
			return xerrors.Errorf("texture %d: missing or mismatched pixel buffer: %w", i, ErrInvalidTexture)
		}
	}

	for i, m := range s.Materials {
		if err := validateMaterial(m, s.Textures.Len()); err != nil {
			return xerrors.Errorf("material %d: %w", i, err)
		}
	}

	for i := range s.World.Geoms {
		if err := s.validateGeom(&s.World.Geoms[i]); err != nil {
			return xerrors.Errorf("instance %d: %w", i, err)
		}
	}
	return nil
}

func validateMaterial(m material.Material, textureCount int) error {
	if m.Textured && (m.TextureID < 0 || m.TextureID >= textureCount) {
		return xerrors.Errorf("texture handle %d out of %d: %w", m.TextureID, textureCount, ErrInvalidTexture)
	}
	if m.Refractive && !(m.IOR > 0) {
		return xerrors.Errorf("index of refraction %v: %w", m.IOR, ErrInvalidMaterial)
	}
	if m.Emittance < 0 || math.IsNaN(m.Emittance) {
		return xerrors.Errorf("emittance %v: %w", m.Emittance, ErrInvalidMaterial)
	}
	for axis := 0; axis < 3; axis++ {
		if c := m.Color.Axis(axis); c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return xerrors.Errorf("color %v: %w", m.Color, ErrInvalidMaterial)
		}
	}
	return nil
}

func (s *Scene) validateGeom(g *geometry.Geom) error {
	if g.MaterialID < 0 || g.MaterialID >= len(s.Materials) {
		return xerrors.Errorf("material id %d out of %d: %w", g.MaterialID, len(s.Materials), ErrInvalidMaterial)
	}
	if g.Transform.IsDegenerate() {
		return xerrors.Errorf("transform is not invertible: %w", ErrInvalidGeometry)
	}

	switch g.Kind {
	case geometry.ShapeBox, geometry.ShapeSphere:
		return nil
	case geometry.ShapeMesh:
	default:
		return xerrors.Errorf("unknown shape kind %d: %w", g.Kind, ErrInvalidGeometry)
	}

	if g.TriStart < 0 || g.TriEnd < g.TriStart || g.TriEnd > len(s.World.Triangles) {
		return xerrors.Errorf("triangle range [%d,%d) outside %d triangles: %w",
			g.TriStart, g.TriEnd, len(s.World.Triangles), ErrInvalidGeometry)
	}
	if g.BVHCount == 0 {
		return nil
	}
	if g.BVHStart < 0 || g.BVHCount < 0 || g.BVHStart+g.BVHCount > len(s.World.Nodes) {
		return xerrors.Errorf("bvh range [%d,%d) outside %d nodes: %w",
			g.BVHStart, g.BVHStart+g.BVHCount, len(s.World.Nodes), ErrInvalidGeometry)
	}
	if _, err := geometry.ValidateBVH(s.World.Nodes[g.BVHStart:g.BVHStart+g.BVHCount], g.TriEnd-g.TriStart); err != nil {
		return err
	}
	return nil
}
