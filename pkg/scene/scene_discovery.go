package scene

import (
	"errors"
	"sort"

	"golang.org/x/xerrors"
)

// ErrUnknownScene is returned by Load for ids that are not registered.
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string // Unique identifier
	DisplayName string // Name shown to users
	Description string

	build func() (*Scene, error)
}

var builtinScenes = []SceneInfo{
	{
		ID:          "cornell-box",
		DisplayName: "Cornell Box",
		Description: "Box walls, area light, mirror and glass spheres, textured mesh floor",
		build:       NewCornellScene,
	},
	{
		ID:          "sphere-grid",
		DisplayName: "Sphere Grid",
		Description: "20x20 grid of diffuse and mirror spheres under a sun light",
		build:       func() (*Scene, error) { return NewSphereGridScene(20) },
	},
	{
		ID:          "mesh-sphere",
		DisplayName: "Triangle Mesh Sphere",
		Description: "Smooth-shaded BVH mesh spheres next to analytic ones",
		build:       NewMeshSphereScene,
	},
}

// ListScenes returns the built-in scenes sorted by display name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	copy(scenes, builtinScenes)
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes
}

// Load builds the built-in scene with the given id
func Load(id string) (*Scene, error) {
	for _, info := range builtinScenes {
		if info.ID == id {
			s, err := info.build()
			if err != nil {
				return nil, xerrors.Errorf("scene %q: %w", id, err)
			}
			return s, nil
		}
	}
	return nil, xerrors.Errorf("scene %q: %w", id, ErrUnknownScene)
}
