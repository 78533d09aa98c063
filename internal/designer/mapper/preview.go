package mapper

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/motion"
	"popup-designer/internal/designer/placement"
)

// ============================================================
// 3D preview (orthographic wireframe)
// ============================================================

var kindStroke = map[models.ShapeKind]string{
	models.ShapePanel:  "#444444",
	models.ShapePaper:  "#bbbbbb",
	models.ShapeBox:    "#f5a962",
	models.ShapeWedge:  "#e377c2",
	models.ShapeSphere: "#9467bd",
	models.ShapeBar:    "#8c564b",
	models.ShapeLayer:  "#17becf",
	models.ShapeSlider: "#2ca02c",
	models.ShapeTab:    "#2ca02c",
	models.ShapePivot:  "#7f7f7f",
	models.ShapeWing:   "#ff7f0e",
}

// boxEdges joins the corner indices produced by corners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

type vec3 struct{ x, y, z float64 }

// RenderPreview draws every placement as a wireframe seen through view.
// The geometry is fitted into a size×size image, then scaled by the zoom.
func (r *Renderer) RenderPreview(w io.Writer, g models.Geometry, view motion.View, size int) error {
	if size <= 0 {
		size = 512
	}
	if size > MaxRasterSide {
		size = MaxRasterSide
	}
	if view.Distance <= 0 {
		view = motion.NewView()
	}

	bounds := placement.Bounds(g)
	extent := 1.0
	if !bounds.IsEmpty() {
		s := bounds.Size()
		extent = math.Max(1, math.Sqrt(float64(s.X*s.X+s.Y*s.Y+s.Z*s.Z)))
	}
	pixels := 0.9 * float64(size) / extent * view.Scale()
	half := float64(size) / 2

	project := func(p vec3) (float64, float64) {
		p = rotateY(p, view.RotY)
		p = rotateX(p, view.RotX)
		return half + p.x*pixels, half - p.y*pixels
	}

	dc := gg.NewContext(size, size)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex("#f7f7fb"))
	dc.SetLineWidth(1.5)

	for _, p := range g.Placements {
		stroke, ok := kindStroke[p.Kind]
		if !ok {
			stroke = "#333333"
		}
		dc.SetHexColor(stroke)

		if p.Kind == models.ShapeSphere {
			x, y := project(vec3{float64(p.Position.X), float64(p.Position.Y), float64(p.Position.Z)})
			dc.DrawCircle(x, y, float64(p.Size.X)/2*pixels)
		} else {
			pts := corners(p)
			for _, e := range boxEdges {
				x1, y1 := project(pts[e[0]])
				x2, y2 := project(pts[e[1]])
				dc.DrawLine(x1, y1, x2, y2)
			}
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("stroke %s: %w", p.Name, err)
		}
	}

	return dc.EncodePNG(w)
}

// corners returns the eight corners of a placement in world space. The
// local box is rotated about X, then Y, then Z before translation.
func corners(p models.Placement) [8]vec3 {
	hx, hy, hz := float64(p.Size.X)/2, float64(p.Size.Y)/2, float64(p.Size.Z)/2
	rx, ry, rz := float64(p.Rotation.X), float64(p.Rotation.Y), float64(p.Rotation.Z)
	pos := vec3{float64(p.Position.X), float64(p.Position.Y), float64(p.Position.Z)}

	var out [8]vec3
	for i := range out {
		c := vec3{-hx, -hy, -hz}
		if i&1 != 0 {
			c.x = hx
		}
		if i&2 != 0 {
			c.y = hy
		}
		if i&4 != 0 {
			c.z = hz
		}
		c = rotateZ(rotateY(rotateX(c, rx), ry), rz)
		out[i] = vec3{c.x + pos.x, c.y + pos.y, c.z + pos.z}
	}
	return out
}

func rotateX(v vec3, a float64) vec3 {
	s, c := math.Sincos(a)
	return vec3{v.x, v.y*c - v.z*s, v.y*s + v.z*c}
}

func rotateY(v vec3, a float64) vec3 {
	s, c := math.Sincos(a)
	return vec3{v.x*c + v.z*s, v.y, -v.x*s + v.z*c}
}

func rotateZ(v vec3, a float64) vec3 {
	s, c := math.Sincos(a)
	return vec3{v.x*c - v.y*s, v.x*s + v.y*c, v.z}
}
