package placement

import (
	"math"

	"popup-designer/internal/designer/models"
)

func init() {
	Register(floatingLayers{})
	Register(pullTab{})
	Register(spinner{})
	Register(emptyCard{})
}

// ============================================================
// Floating layers
// ============================================================

var floatingColors = []string{"#ffffff", "#dddddd", "#bbbbbb", "#999999"}

// floatingLayers: two support bars carrying four stacked sheets.
type floatingLayers struct{}

func (floatingLayers) Kind() models.MechanismKind { return models.MechanismFloating }

func (floatingLayers) Placements(in Input, f Frame) []models.Placement {
	u := f.Unit
	barX := f.PanelWidth / 2.5
	barSize := vec(0.3*u, 1.2*f.Height, u)

	out := []models.Placement{
		{Kind: models.ShapeBar, Name: "bar-left", Position: vec(-barX, 0, u), Size: barSize, Color: ElementColor},
		{Kind: models.ShapeBar, Name: "bar-right", Position: vec(barX, 0, u), Size: barSize, Color: ElementColor},
	}
	for i, color := range floatingColors {
		z := (2.5*float64(i) + 2) * u
		if in.Motion != 0 {
			z += math.Sin(in.Motion+float64(i)) * 0.5 * u
		}
		out = append(out, models.Placement{
			Kind:     models.ShapeLayer,
			Name:     "layer-" + itoa(i+1),
			Position: vec(0, 0, z),
			Size:     vec(0.7*f.PanelWidth, 0.7*f.Height, 0.1*u),
			Color:    color,
		})
	}
	return out
}

// ============================================================
// Pull tab
// ============================================================

// pullTab: a sliding panel with a handle tab on its lower right.
type pullTab struct{}

func (pullTab) Kind() models.MechanismKind { return models.MechanismPullTab }

func (pullTab) Placements(in Input, f Frame) []models.Placement {
	u := f.Unit
	slide := math.Sin(in.Motion) * 3 * u
	return []models.Placement{
		{
			Kind:     models.ShapeSlider,
			Name:     "slider",
			Position: vec(slide, 0, u),
			Size:     vec(0.6*f.PanelWidth, 0.5*f.Height, 0.08*u),
			Color:    ElementColor,
		},
		{
			Kind:     models.ShapeTab,
			Name:     "tab",
			Position: vec(0.4*f.PanelWidth, -0.3*f.Height, u),
			Size:     vec(0.3*f.PanelWidth, 0.5*u, 0.08*u),
			Color:    ElementColor,
		},
	}
}

// ============================================================
// Spinner
// ============================================================

// spinner: a pivot with two wings turning about it.
type spinner struct{}

func (spinner) Kind() models.MechanismKind { return models.MechanismSpinner }

func (spinner) Placements(in Input, f Frame) []models.Placement {
	u := f.Unit
	spin := in.Motion * 2
	arm := 1.5 * u
	dx, dy := arm*math.Cos(spin), arm*math.Sin(spin)

	return []models.Placement{
		{
			Kind:     models.ShapePivot,
			Name:     "pivot",
			Position: vec(0, 0, u),
			Size:     vec(0.6*u, 0.6*u, 0.2*u),
			Color:    "#cccccc",
		},
		{
			Kind:     models.ShapeWing,
			Name:     "wing-1",
			Position: vec(dx, dy, 1.2*u),
			Rotation: vec(0, 0, spin),
			Size:     vec(2*u, 3*u, 0),
			Color:    ElementColor,
		},
		{
			Kind:     models.ShapeWing,
			Name:     "wing-2",
			Position: vec(-dx, -dy, 1.2*u),
			Rotation: vec(0, 0, spin),
			Size:     vec(2*u, 3*u, 0),
			Color:    ElementColor,
		},
	}
}

// ============================================================
// Empty
// ============================================================

type emptyCard struct{}

func (emptyCard) Kind() models.MechanismKind { return models.MechanismEmpty }

func (emptyCard) Placements(Input, Frame) []models.Placement { return nil }
