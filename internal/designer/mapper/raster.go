package mapper

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"popup-designer/internal/designer/models"
)

// ============================================================
// PNG raster of the flat pattern
// ============================================================

// MaxRasterSide caps the longest side of a raster in pixels.
const MaxRasterSide = 4096

// RenderPNG rasterizes the pattern lines at scale pixels per millimetre.
// Labels are left to the SVG output.
func (r *Renderer) RenderPNG(w io.Writer, ls models.LineSet, scale float64) error {
	if ls.Width <= 0 || ls.Height <= 0 {
		return fmt.Errorf("pattern has no area")
	}
	if scale <= 0 {
		scale = 4
	}
	if longest := math.Max(ls.Width, ls.Height) * scale; longest > MaxRasterSide {
		scale = MaxRasterSide / math.Max(ls.Width, ls.Height)
	}

	dc := gg.NewContext(int(math.Ceil(ls.Width*scale)), int(math.Ceil(ls.Height*scale)))
	defer dc.Close()
	dc.ClearWithColor(gg.Hex("#ffffff"))

	segments := append(append([]models.Segment{}, ls.Border...), ls.Lines...)
	for _, s := range segments {
		if s.Kind == models.LineFold {
			dc.SetHexColor(FoldStroke)
			dc.SetDash(4*scale, 3*scale)
		} else {
			dc.SetHexColor(CutStroke)
			dc.SetDash()
		}
		dc.SetLineWidth(math.Max(1, scale/2))
		dc.DrawLine(s.Start.X*scale, s.Start.Y*scale, s.End.X*scale, s.End.Y*scale)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("stroke %s: %w", SegmentID(s), err)
		}
	}

	return dc.EncodePNG(w)
}
