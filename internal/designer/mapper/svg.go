package mapper

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"popup-designer/internal/designer/models"
)

// ============================================================
// SVG renderer
// ============================================================

const (
	CutStroke  = "#d62728"
	FoldStroke = "#1f77b4"
	FoldDash   = "4 3"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderSVG draws a flat pattern. Every line carries an id of the form
// cut_<element>_<side> / fold_<element>_<side> (fold_centerline and
// cut_border for the sheet) so the parser can read the sheet back.
func (r *Renderer) RenderSVG(ls models.LineSet) (string, error) {
	if ls.Width <= 0 || ls.Height <= 0 {
		return "", fmt.Errorf("pattern has no area")
	}

	var elements []string
	elements = append(elements, r.renderBorder(ls.Border)...)
	elements = append(elements, r.renderLines(ls.Lines)...)
	elements = append(elements, r.renderLabels(ls.Labels)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%smm" height="%smm" viewBox="0 0 %s %s">`,
		formatFloat(ls.Width), formatFloat(ls.Height), formatFloat(ls.Width), formatFloat(ls.Height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderBorder(border []models.Segment) []string {
	if len(border) == 0 {
		return nil
	}

	var path strings.Builder
	path.WriteString(`<path id="cut_border" class="cut" d="M `)
	path.WriteString(formatPoint(border[0].Start))
	for _, s := range border {
		path.WriteString(" L ")
		path.WriteString(formatPoint(s.End))
	}
	path.WriteString(` Z" fill="none" stroke="` + CutStroke + `" stroke-width="1" />`)

	return []string{path.String()}
}

func (r *Renderer) renderLines(lines []models.Segment) []string {
	out := make([]string, 0, len(lines))

	for _, s := range lines {
		dash := ""
		stroke := CutStroke
		if s.Kind == models.LineFold {
			stroke = FoldStroke
			dash = ` stroke-dasharray="` + FoldDash + `"`
		}

		out = append(out, fmt.Sprintf(`<line id="%s" class="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"%s />`,
			SegmentID(s), strings.ToLower(string(s.Kind)),
			formatFloat(s.Start.X), formatFloat(s.Start.Y), formatFloat(s.End.X), formatFloat(s.End.Y),
			stroke, dash))
	}

	return out
}

func (r *Renderer) renderLabels(labels []models.Label) []string {
	out := make([]string, 0, len(labels))

	for _, l := range labels {
		anchor := "middle"
		size := 8
		switch l.Kind {
		case models.LabelTitle:
			anchor = "start"
			size = 9
		case models.LabelDimension:
			size = 7
		}

		var text strings.Builder
		_ = xml.EscapeText(&text, []byte(l.Text))
		out = append(out, fmt.Sprintf(`<text class="label-%s" x="%s" y="%s" font-size="%d" text-anchor="%s" font-family="monospace">%s</text>`,
			l.Kind, formatFloat(l.At.X), formatFloat(l.At.Y), size, anchor, text.String()))
	}

	return out
}

// SegmentID is the SVG id of a pattern line, e.g. cut_3_left.
func SegmentID(s models.Segment) string {
	prefix := strings.ToLower(string(s.Kind))
	if s.ElementID == 0 {
		return prefix + "_" + s.Role
	}
	side := s.Role
	if i := strings.IndexByte(side, '-'); i >= 0 {
		side = side[i+1:]
	}
	return prefix + "_" + strconv.Itoa(s.ElementID) + "_" + side
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(round(val), 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}

// round trims float noise so ids and coordinates stay readable.
func round(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
