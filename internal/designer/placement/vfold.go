package placement

import (
	"math"

	"popup-designer/internal/designer/models"
)

func init() { Register(vFold{}) }

// WedgeFraction is the share of the card height spanned by the V-fold wedge.
const WedgeFraction = 0.5

// vFold is a triangular prism with its apex on the spine, opening with the card.
type vFold struct{}

func (vFold) Kind() models.MechanismKind { return models.MechanismVFold }

func (vFold) Placements(in Input, f Frame) []models.Placement {
	span := f.Height * WedgeFraction
	wobble := math.Sin(in.Motion) * 0.3
	return []models.Placement{
		{
			Kind:     models.ShapeWedge,
			Name:     "wedge",
			Position: vec(0, span/2, 0.5*f.Unit),
			Rotation: vec(0, (math.Pi-f.Angle)/2, wobble),
			Size:     vec(f.PanelWidth*2/3, span, f.Unit),
			Color:    ElementColor,
		},
		{
			Kind:     models.ShapeSphere,
			Name:     "ornament",
			Position: vec(0, span+f.Unit, 0.5*f.Unit),
			Size:     vec(f.Unit, f.Unit, f.Unit),
			Color:    ElementColor,
		},
	}
}
