package scene

import (
	"errors"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-empty", "Cornell Empty"},
		{"dual_light", "Dual Light"},
		{"sphere-box", "Sphere Box"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if result := titleCase(tc.input); result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestLoad_AllBuiltins(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%q) failed: %v", name, err)
			}
			if len(s.Lights) == 0 {
				t.Error("Expected at least one light")
			}
			if s.GetPrimitiveCount() == 0 {
				t.Error("Expected at least one object")
			}
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	if _, err := Load("no-such-scene"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestListAllScenes(t *testing.T) {
	response := ListAllScenes()
	if len(response.Groups) == 0 || response.Groups[0].Name != builtinGroup {
		t.Fatalf("Expected built-in group first, got %+v", response.Groups)
	}

	total := 0
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			if info.DisplayName == "" {
				t.Errorf("Scene %s has no display name", info.ID)
			}
			total++
		}
	}
	if total != len(Names()) {
		t.Errorf("Expected %d scenes, got %d", len(Names()), total)
	}
}
