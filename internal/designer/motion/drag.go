package motion

import (
	"math"

	"popup-designer/internal/designer/models"
)

const (
	// DragThreshold is the pointer travel in pixels that decides a gesture.
	DragThreshold    = 10.0
	OrbitSensitivity = 0.01
)

type Gesture string

const (
	GestureNone  Gesture = "none"
	GestureOpen  Gesture = "open"
	GestureOrbit Gesture = "orbit"
)

// Update is the effect of one pointer move.
type Update struct {
	Gesture      Gesture             `json:"gesture"`
	Articulation models.Articulation `json:"articulation"`
	OrbitX       float64             `json:"orbitX"`
	OrbitY       float64             `json:"orbitY"`
}

// Drag classifies one pointer drag. Horizontal travel beyond the threshold
// opens or closes the card, vertical travel orbits the view; the first
// threshold crossed locks the gesture until the pointer is released.
type Drag struct {
	active bool
	kind   Gesture
	startX float64
	startY float64
	lastX  float64
	lastY  float64
	origin models.Articulation
}

// Begin starts a drag at (x,y) on a card currently opened to current.
func (d *Drag) Begin(x, y float64, current models.Articulation) {
	*d = Drag{
		active: true,
		kind:   GestureNone,
		startX: x,
		startY: y,
		lastX:  x,
		lastY:  y,
		origin: current,
	}
}

func (d *Drag) Active() bool     { return d.active }
func (d *Drag) Gesture() Gesture { return d.kind }

// Move handles a pointer move within a viewport viewportWidth pixels wide.
func (d *Drag) Move(x, y, viewportWidth float64) Update {
	if !d.active {
		return Update{Gesture: GestureNone}
	}
	dx, dy := x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y

	totalX, totalY := x-d.startX, y-d.startY
	if d.kind == GestureNone {
		switch {
		case math.Abs(totalX) > DragThreshold:
			d.kind = GestureOpen
		case math.Abs(totalY) > DragThreshold:
			d.kind = GestureOrbit
		default:
			return Update{Gesture: GestureNone}
		}
	}

	switch d.kind {
	case GestureOpen:
		if viewportWidth <= 0 {
			return Update{Gesture: GestureOpen, Articulation: d.origin}
		}
		a := (d.origin + models.Articulation(totalX/viewportWidth)).Clamp()
		return Update{Gesture: GestureOpen, Articulation: a}
	default:
		return Update{Gesture: GestureOrbit, OrbitX: dy * OrbitSensitivity, OrbitY: dx * OrbitSensitivity}
	}
}

// End finishes the drag (pointer up or leaving the surface).
func (d *Drag) End() {
	d.active = false
	d.kind = GestureNone
}
