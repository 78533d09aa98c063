package models

import (
	"fmt"
	"math"
	"strings"

	"cogentcore.org/core/math32"
)

// ============================================================
// Card
// ============================================================

// Card is the pair of base panels joined along the spine. Width is measured
// across the spine (both panels together), Height along it.
type Card struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PanelWidth is the width of one base panel.
func (c Card) PanelWidth() float64 {
	return c.Width / 2
}

// ============================================================
// Articulation
// ============================================================

// Articulation is how open the card is, as a fraction in [0,1]:
// 0 closed, 0.5 open at 90°, 1 flat open.
type Articulation float64

const (
	Closed   Articulation = 0
	Upright  Articulation = 0.5
	FlatOpen Articulation = 1
)

// ArticulationFromAngle maps an opening angle in [0, π] onto the fraction.
func ArticulationFromAngle(rad float64) Articulation {
	return Articulation(rad / math.Pi).Clamp()
}

// Clamp saturates the value into [0,1]. NaN is treated as closed.
func (a Articulation) Clamp() Articulation {
	if math.IsNaN(float64(a)) || a < Closed {
		return Closed
	}
	if a > FlatOpen {
		return FlatOpen
	}
	return a
}

// Angle is the opening angle between the panels, closed 0 to flat open π.
func (a Articulation) Angle() float64 {
	return float64(a.Clamp()) * math.Pi
}

// Degrees is Angle in degrees.
func (a Articulation) Degrees() float64 {
	return float64(a.Clamp()) * 180
}

// SignedDegrees is the back-panel read-out used by CSS style viewers:
// -180 closed, 0 upright, +180 flat.
func (a Articulation) SignedDegrees() float64 {
	return (float64(a.Clamp()) - 0.5) * 360
}

// ============================================================
// Pop-up elements
// ============================================================

type Element struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
}

// Field names an editable element attribute.
type Field string

const (
	FieldX     Field = "x"
	FieldWidth Field = "width"
	FieldDepth Field = "depth"
)

func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldX, FieldWidth, FieldDepth:
		return f, nil
	}
	return "", &ValidationError{Field: "field", Raw: s, Reason: "unknown element field"}
}

// Get returns the value of f.
func (e Element) Get(f Field) float64 {
	switch f {
	case FieldX:
		return e.X
	case FieldWidth:
		return e.Width
	case FieldDepth:
		return e.Depth
	}
	return 0
}

// Set returns a copy of e with f set to v.
func (e Element) Set(f Field, v float64) Element {
	switch f {
	case FieldX:
		e.X = v
	case FieldWidth:
		e.Width = v
	case FieldDepth:
		e.Depth = v
	}
	return e
}

// Bounds is an inclusive numeric range.
type Bounds struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

func (b Bounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// ============================================================
// Mechanisms
// ============================================================

type MechanismKind string

const (
	MechanismParallel MechanismKind = "parallel"
	MechanismVFold    MechanismKind = "vfold"
	MechanismFloating MechanismKind = "floating"
	MechanismPullTab  MechanismKind = "pulltab"
	MechanismSpinner  MechanismKind = "spinner"
	MechanismEmpty    MechanismKind = "empty"
)

var mechanismNames = map[MechanismKind]string{
	MechanismParallel: "Parallel fold",
	MechanismVFold:    "V-fold",
	MechanismFloating: "Floating layers",
	MechanismPullTab:  "Pull tab",
	MechanismSpinner:  "Spinner",
	MechanismEmpty:    "Empty card",
}

// Mechanisms lists every mechanism in display order.
func Mechanisms() []MechanismKind {
	return []MechanismKind{
		MechanismParallel,
		MechanismVFold,
		MechanismFloating,
		MechanismPullTab,
		MechanismSpinner,
		MechanismEmpty,
	}
}

// ParseMechanism accepts the canonical names plus the hyphenated spellings
// ("parallel-fold", "v-fold", "floating-layer", "pull-tab").
func ParseMechanism(s string) (MechanismKind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "parallel-fold", "parallel_fold":
		key = string(MechanismParallel)
	case "v-fold", "v_fold":
		key = string(MechanismVFold)
	case "floating-layer", "floating-layers", "floating_layer":
		key = string(MechanismFloating)
	case "pull-tab", "pull_tab":
		key = string(MechanismPullTab)
	}
	k := MechanismKind(key)
	if _, ok := mechanismNames[k]; !ok {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownMechanism)
	}
	return k, nil
}

// DisplayName is the human readable mechanism name.
func (k MechanismKind) DisplayName() string {
	if name, ok := mechanismNames[k]; ok {
		return name
	}
	return string(k)
}

// ============================================================
// Paper layers & material (auxiliary metadata)
// ============================================================

type PaperLayer struct {
	Color string `json:"color"`
}

type PaperSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PaperSizeFor is the sheet size of a paper layer backing card c.
func PaperSizeFor(c Card) PaperSize {
	return PaperSize{Width: c.PanelWidth() * 1.1, Height: c.Height * 1.1}
}

type Material struct {
	BaseStock    string `json:"baseCardType"`
	ElementStock string `json:"elementCardType"`
	Join         string `json:"joinType"`
	Color        string `json:"cardColor"`
	Complexity   int    `json:"complexity"`
}

// ============================================================
// 3D placements
// ============================================================

type ShapeKind string

const (
	ShapePanel  ShapeKind = "panel"
	ShapeBox    ShapeKind = "box"
	ShapeWedge  ShapeKind = "wedge"
	ShapeSphere ShapeKind = "sphere"
	ShapeBar    ShapeKind = "bar"
	ShapeLayer  ShapeKind = "layer"
	ShapeSlider ShapeKind = "slider"
	ShapeTab    ShapeKind = "tab"
	ShapePivot  ShapeKind = "pivot"
	ShapeWing   ShapeKind = "wing"
	ShapePaper  ShapeKind = "paper"
)

// Footprint is the paper size of an element box, carried verbatim from the
// element so the flat pattern and the 3D box agree exactly.
type Footprint struct {
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
}

// Placement is one visual part: center position, Euler rotation (radians)
// and extents along the local axes.
type Placement struct {
	Kind      ShapeKind      `json:"kind"`
	Name      string         `json:"name"`
	Position  math32.Vector3 `json:"position"`
	Rotation  math32.Vector3 `json:"rotation"`
	Size      math32.Vector3 `json:"size"`
	ElementID int            `json:"elementId,omitempty"`
	Footprint *Footprint     `json:"footprint,omitempty"`
	Color     string         `json:"color,omitempty"`
}

// Bounds is the axis aligned box spanned by the unrotated extents.
func (p Placement) Bounds() math32.Box3 {
	var b math32.Box3
	b.SetFromCenterAndSize(p.Position, p.Size)
	return b
}

type Geometry struct {
	Mechanism    MechanismKind `json:"mechanism"`
	Articulation Articulation  `json:"articulation"`
	Angle        float64       `json:"angle"`
	Placements   []Placement   `json:"placements"`
	Pattern      LineSet       `json:"pattern"`
}

// Find returns the first placement with the given name.
func (g Geometry) Find(name string) (Placement, bool) {
	for _, p := range g.Placements {
		if p.Name == name {
			return p, true
		}
	}
	return Placement{}, false
}

// ============================================================
// 2D flat pattern
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type LineKind string

const (
	LineCut  LineKind = "CUT"
	LineFold LineKind = "FOLD"
)

type Segment struct {
	Kind      LineKind `json:"kind"`
	Start     Point    `json:"start"`
	End       Point    `json:"end"`
	Role      string   `json:"role"`
	ElementID int      `json:"elementId,omitempty"`
}

func (s Segment) Length() float64 {
	return math.Hypot(s.End.X-s.Start.X, s.End.Y-s.Start.Y)
}

type LabelKind string

const (
	LabelTitle     LabelKind = "title"
	LabelID        LabelKind = "id"
	LabelDimension LabelKind = "dimension"
	LabelHint      LabelKind = "hint"
)

type Label struct {
	Kind      LabelKind `json:"kind"`
	Text      string    `json:"text"`
	At        Point     `json:"at"`
	ElementID int       `json:"elementId,omitempty"`
}

// LineSet is the flat pattern. Border is the sheet outline; Lines holds the
// centerline fold followed by four lines per element, in element order.
type LineSet struct {
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	CenterX float64   `json:"centerX"`
	CenterY float64   `json:"centerY"`
	Border  []Segment `json:"border"`
	Lines   []Segment `json:"lines"`
	Labels  []Label   `json:"labels"`
}

// ForElement returns the lines drawn for element id.
func (l LineSet) ForElement(id int) []Segment {
	var out []Segment
	for _, s := range l.Lines {
		if s.ElementID == id {
			out = append(out, s)
		}
	}
	return out
}

// Count returns how many lines of kind k are in Lines.
func (l LineSet) Count(k LineKind) int {
	n := 0
	for _, s := range l.Lines {
		if s.Kind == k {
			n++
		}
	}
	return n
}
