package placement

import (
	"math"

	"popup-designer/internal/designer/models"
)

func init() { Register(parallelFold{}) }

// parallelFold turns every element into a box hinged on the spine. The
// element's center crease sits at depth·(Left+Right): flat at the spine when
// the card is open flat, folded out to 2·depth when the card is closed.
type parallelFold struct{}

func (parallelFold) Kind() models.MechanismKind { return models.MechanismParallel }

func (parallelFold) Placements(in Input, f Frame) []models.Placement {
	bisector := f.Left.Add(f.Right)
	tilt := (f.Angle - math.Pi/2) / 2

	out := make([]models.Placement, 0, len(in.Elements))
	for i, el := range in.Elements {
		width := math.Max(el.Width, 0)
		depth := math.Max(el.Depth, 0)

		center := bisector.MulScalar(float32(depth / 2))
		center.Y = float32(el.X)
		center.Z += float32(float64(i) * ParallelLayerStep)

		out = append(out, models.Placement{
			Kind:      models.ShapeBox,
			Name:      "element-" + itoa(el.ID),
			Position:  center,
			Rotation:  vec(0, tilt, 0),
			Size:      vec(depth, width, depth),
			ElementID: el.ID,
			Footprint: &models.Footprint{Width: el.Width, Depth: el.Depth},
			Color:     ElementColor,
		})
	}
	return out
}
