package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a scene id is not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a registered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtinScene struct {
	info  SceneInfo
	build func() *Scene
}

const builtinGroup = "Built-in Scenes"

var builtins = []builtinScene{
	{
		info: SceneInfo{
			ID:          "cornell",
			Description: "Cornell box with a mirror sphere and a glass sphere",
			Group:       builtinGroup,
		},
		build: NewCornellScene,
	},
	{
		info: SceneInfo{
			ID:          "sphere-box",
			Description: "Red diffuse sphere in an open white box, one point light",
			Group:       "Test Scenes",
		},
		build: NewSphereBoxScene,
	},
	{
		info: SceneInfo{
			ID:          "caustic",
			Description: "Glass sphere focusing a point light onto the floor",
			Group:       builtinGroup,
		},
		build: NewCausticScene,
	},
	{
		info: SceneInfo{
			ID:          "dual-light",
			Description: "Diffuse spheres under two lights of different power",
			Group:       builtinGroup,
		},
		build: NewDualLightScene,
	},
}

// Names returns the ids of every registered scene in registration order
func Names() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.info.ID
	}
	return names
}

// Load builds a fresh, preprocessed copy of the scene with the given id
func Load(id string) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID != id {
			continue
		}
		s := b.build()
		if err := s.Preprocess(); err != nil {
			return nil, fmt.Errorf("scene %s: %w", id, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownScene, id, strings.Join(Names(), ", "))
}

// ListAllScenes returns the registered scenes, grouped by category
func ListAllScenes() ScenesResponse {
	groupMap := make(map[string][]SceneInfo)
	for _, b := range builtins {
		info := b.info
		if info.DisplayName == "" {
			info.DisplayName = titleCase(info.ID)
		}
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	var response ScenesResponse
	if group, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: group})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response
}

// titleCase converts an id-style string to title case
// e.g., "sphere-box" -> "Sphere Box"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
