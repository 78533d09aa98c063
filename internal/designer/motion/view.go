package motion

import "math"

const (
	DefaultDistance = 30.0
	MinDistance     = 15.0
	MaxDistance     = 60.0
)

// View is the orbit camera around the card.
type View struct {
	RotX     float64 `json:"rotX"`
	RotY     float64 `json:"rotY"`
	Distance float64 `json:"distance"`
}

func NewView() View {
	return View{Distance: DefaultDistance}
}

// Orbit adds to both rotations; pitch stays within ±π/2.
func (v *View) Orbit(pitch, yaw float64) {
	v.RotX = math.Max(-math.Pi/2, math.Min(math.Pi/2, v.RotX+pitch))
	v.RotY += yaw
}

// Zoom handles one wheel step: scrolling down moves the camera away.
func (v *View) Zoom(wheelDelta float64) {
	factor := 0.9
	if wheelDelta > 0 {
		factor = 1.1
	}
	v.Distance = math.Max(MinDistance, math.Min(MaxDistance, v.Distance*factor))
}

// Scale is the zoom read-out, 1 at the default distance.
func (v View) Scale() float64 {
	return DefaultDistance / v.Distance
}

func (v *View) Reset() {
	*v = NewView()
}
