package foldstate

import (
	"fmt"

	"popup-designer/internal/designer/models"
)

// ============================================================
// Material & paper layers
// ============================================================

var (
	JoinTypes  = []string{"glue", "doubletape", "slotjoin", "foldpin"}
	CardColors = map[string]string{
		"white":  "#ffffff",
		"cream":  "#ffe8b6",
		"pink":   "#ffd4d4",
		"blue":   "#d4f1ff",
		"purple": "#e8d4ff",
		"green":  "#d4ffd4",
	}
	// PaperPalette is cycled through when a layer is added without a colour.
	PaperPalette = []string{"#ffffff", "#ffe8b6", "#ffd4d4", "#d4f1ff", "#e8d4ff", "#d4ffd4", "#ffffcc", "#ffcccc"}
)

const (
	MinComplexity = 1
	MaxComplexity = 5
)

func DefaultMaterial() models.Material {
	return models.Material{
		BaseStock:    "300gsm",
		ElementStock: "220gsm",
		Join:         "glue",
		Color:        "white",
		Complexity:   2,
	}
}

// SetMaterial validates join type and card colour; complexity is clamped
// and empty stock names keep their current value.
func (s *State) SetMaterial(m models.Material) (models.Material, error) {
	next := s.material
	if m.Join != "" {
		if !contains(JoinTypes, m.Join) {
			return s.material, &models.ValidationError{Field: "joinType", Raw: m.Join, Reason: "unknown join type"}
		}
		next.Join = m.Join
	}
	if m.Color != "" {
		if _, ok := CardColors[m.Color]; !ok {
			return s.material, &models.ValidationError{Field: "cardColor", Raw: m.Color, Reason: "unknown card colour"}
		}
		next.Color = m.Color
	}
	if m.BaseStock != "" {
		next.BaseStock = m.BaseStock
	}
	if m.ElementStock != "" {
		next.ElementStock = m.ElementStock
	}
	if m.Complexity != 0 {
		next.Complexity = min(max(m.Complexity, MinComplexity), MaxComplexity)
	}
	s.material = next
	return next, nil
}

func (s *State) PaperLayers() []models.PaperLayer {
	out := make([]models.PaperLayer, len(s.papers))
	copy(out, s.papers)
	return out
}

// AddPaperLayer appends a sheet and returns its index. An empty colour
// picks the next palette entry.
func (s *State) AddPaperLayer(color string) int {
	if color == "" {
		color = PaperPalette[len(s.papers)%len(PaperPalette)]
	}
	s.papers = append(s.papers, models.PaperLayer{Color: color})
	return len(s.papers) - 1
}

func (s *State) RemovePaperLayer(index int) error {
	if index < 0 || index >= len(s.papers) {
		return fmt.Errorf("paper layer %d: %w", index, models.ErrNotFound)
	}
	if len(s.papers) <= 1 {
		return fmt.Errorf("remove paper layer %d: %w", index, models.ErrLastElement)
	}
	s.papers = append(s.papers[:index:index], s.papers[index+1:]...)
	return nil
}

func (s *State) SetPaperColor(index int, color string) error {
	if index < 0 || index >= len(s.papers) {
		return fmt.Errorf("paper layer %d: %w", index, models.ErrNotFound)
	}
	if color == "" {
		return &models.ValidationError{Field: "color", Raw: color, Reason: "empty colour"}
	}
	s.papers[index].Color = color
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
