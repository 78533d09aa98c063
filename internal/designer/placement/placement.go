// Package placement derives the 3D layout of a card design. Every mechanism
// is a variant registered under its kind; the base panels, paper layers and
// flat pattern are shared by all of them.
package placement

import (
	"math"

	"cogentcore.org/core/math32"

	"popup-designer/internal/designer/foldstate"
	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/pattern"
)

const (
	PanelThickness    = 1.0
	ParallelLayerStep = 1.5
	ElementColor      = "#f5a962"
)

// Input is everything a mechanism may read. Motion is the decorative
// animation clock in seconds; at 0 the output depends on articulation only.
type Input struct {
	Card         models.Card
	Articulation models.Articulation
	Mechanism    models.MechanismKind
	Elements     []models.Element
	PaperLayers  []models.PaperLayer
	CardColor    string
	Motion       float64
}

// FromState reads the current design.
func FromState(s *foldstate.State, motion float64) Input {
	return Input{
		Card:         s.Card(),
		Articulation: s.Articulation(),
		Mechanism:    s.Mechanism(),
		Elements:     s.Elements(),
		PaperLayers:  s.PaperLayers(),
		CardColor:    foldstate.CardColors[s.Material().Color],
		Motion:       motion,
	}
}

// Mechanism produces the parts specific to one pop-up archetype.
type Mechanism interface {
	Kind() models.MechanismKind
	Placements(in Input, f Frame) []models.Placement
}

// ============================================================
// Frame
// ============================================================

// Frame holds the values every mechanism derives from the card. The spine is
// the Y axis; Right and Left are unit vectors pointing from the spine along
// each panel.
type Frame struct {
	Angle      float64
	Right      math32.Vector3
	Left       math32.Vector3
	PanelWidth float64
	Height     float64
	Unit       float64
}

func NewFrame(card models.Card, a models.Articulation) Frame {
	theta := a.Clamp().Angle()
	w := math.Max(card.Width, 1)
	h := math.Max(card.Height, 1)
	return Frame{
		Angle:      theta,
		Right:      math32.Vec3(1, 0, 0),
		Left:       vec(math.Cos(theta), 0, math.Sin(theta)),
		PanelWidth: w / 2,
		Height:     h,
		Unit:       w / 15,
	}
}

// ============================================================
// Derivation
// ============================================================

// Derive computes placements and flat pattern for in. It never fails;
// unknown mechanisms render as an empty card.
func Derive(in Input) models.Geometry {
	m, ok := Lookup(in.Mechanism)
	if !ok {
		m, _ = Lookup(models.MechanismEmpty)
	}
	a := in.Articulation.Clamp()
	f := NewFrame(in.Card, a)

	placements := basePanels(in, f)
	placements = append(placements, paperLayers(in, f)...)
	placements = append(placements, m.Placements(in, f)...)

	return models.Geometry{
		Mechanism:    m.Kind(),
		Articulation: a,
		Angle:        f.Angle,
		Placements:   placements,
		Pattern:      pattern.Derive(in.Card, in.Elements),
	}
}

// Bounds is the box enclosing every placement.
func Bounds(g models.Geometry) math32.Box3 {
	b := math32.B3Empty()
	for _, p := range g.Placements {
		b.ExpandByBox(p.Bounds())
	}
	return b
}

func basePanels(in Input, f Frame) []models.Placement {
	size := vec(f.PanelWidth, f.Height, PanelThickness)
	color := in.CardColor
	if color == "" {
		color = "#ffffff"
	}
	return []models.Placement{
		{
			Kind:     models.ShapePanel,
			Name:     "panel-left",
			Position: f.Left.MulScalar(float32(f.PanelWidth / 2)),
			Rotation: vec(0, f.Angle, 0),
			Size:     size,
			Color:    color,
		},
		{
			Kind:     models.ShapePanel,
			Name:     "panel-right",
			Position: f.Right.MulScalar(float32(f.PanelWidth / 2)),
			Size:     size,
			Color:    color,
		},
	}
}

func paperLayers(in Input, f Frame) []models.Placement {
	size := models.PaperSizeFor(in.Card)
	out := make([]models.Placement, 0, len(in.PaperLayers))
	for i, layer := range in.PaperLayers {
		out = append(out, models.Placement{
			Kind:     models.ShapePaper,
			Name:     "paper-" + itoa(i+1),
			Position: vec(0, 0, -(2+0.3*float64(i))*f.Unit),
			Size:     vec(size.Width, size.Height, 0.08*f.Unit),
			Color:    layer.Color,
		})
	}
	return out
}

func vec(x, y, z float64) math32.Vector3 {
	return math32.Vec3(float32(x), float32(y), float32(z))
}
