// Package pattern derives the flat cut/fold layout of a card. The result
// does not depend on the mechanism.
package pattern

import (
	"fmt"
	"math"
	"strconv"

	"popup-designer/internal/designer/models"
)

// Margin is the distance between the frame edge and the sheet outline.
const Margin = 10.0

// Derive lays the sheet out with the spine horizontal: the sheet is
// card.Height long along the spine and card.Width across it. Each element
// gets two vertical cuts at xPos±width/2 and two horizontal folds at
// centerY±depth. Overlapping elements are drawn independently.
func Derive(card models.Card, elements []models.Element) models.LineSet {
	sheetW := math.Max(card.Height, 0)
	sheetH := math.Max(card.Width, 0)
	frameW := sheetW + 2*Margin
	frameH := sheetH + 2*Margin
	cx, cy := frameW/2, frameH/2

	ls := models.LineSet{
		Width:   frameW,
		Height:  frameH,
		CenterX: cx,
		CenterY: cy,
		Border:  border(Margin, Margin, frameW-Margin, frameH-Margin),
		Lines:   make([]models.Segment, 0, 1+4*len(elements)),
	}

	ls.Lines = append(ls.Lines, models.Segment{
		Kind:  models.LineFold,
		Role:  "centerline",
		Start: models.Point{X: Margin, Y: cy},
		End:   models.Point{X: frameW - Margin, Y: cy},
	})
	ls.Labels = append(ls.Labels, models.Label{
		Kind: models.LabelTitle,
		Text: "Valley Fold (Center)",
		At:   models.Point{X: Margin + 5, Y: cy - 8},
	})

	for _, el := range elements {
		xPos := cx + el.X
		halfWidth := el.Width / 2
		topY := cy - el.Depth
		bottomY := cy + el.Depth
		leftX := xPos - halfWidth
		rightX := xPos + halfWidth

		ls.Lines = append(ls.Lines,
			models.Segment{Kind: models.LineCut, Role: "cut-left", ElementID: el.ID,
				Start: models.Point{X: leftX, Y: topY}, End: models.Point{X: leftX, Y: bottomY}},
			models.Segment{Kind: models.LineCut, Role: "cut-right", ElementID: el.ID,
				Start: models.Point{X: rightX, Y: topY}, End: models.Point{X: rightX, Y: bottomY}},
			models.Segment{Kind: models.LineFold, Role: "fold-top", ElementID: el.ID,
				Start: models.Point{X: leftX, Y: topY}, End: models.Point{X: rightX, Y: topY}},
			models.Segment{Kind: models.LineFold, Role: "fold-bottom", ElementID: el.ID,
				Start: models.Point{X: leftX, Y: bottomY}, End: models.Point{X: rightX, Y: bottomY}},
		)

		ls.Labels = append(ls.Labels,
			models.Label{Kind: models.LabelHint, Text: "FOLD UP", ElementID: el.ID, At: models.Point{X: xPos, Y: topY - 6}},
			models.Label{Kind: models.LabelHint, Text: "FOLD DOWN", ElementID: el.ID, At: models.Point{X: xPos, Y: bottomY + 15}},
			models.Label{Kind: models.LabelID, Text: "#" + strconv.Itoa(el.ID), ElementID: el.ID, At: models.Point{X: xPos, Y: cy + 4}},
			models.Label{Kind: models.LabelDimension, Text: Dimension(el), ElementID: el.ID, At: models.Point{X: xPos, Y: cy + 20}},
		)
	}
	return ls
}

// Dimension is the annotation printed under an element id.
func Dimension(el models.Element) string {
	return fmt.Sprintf("W:%s D:%s", formatMM(el.Width), formatMM(el.Depth))
}

func border(x0, y0, x1, y1 float64) []models.Segment {
	corners := []models.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
	out := make([]models.Segment, 0, 4)
	for i, p := range corners {
		out = append(out, models.Segment{
			Kind:  models.LineCut,
			Role:  "border",
			Start: p,
			End:   corners[(i+1)%len(corners)],
		})
	}
	return out
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
