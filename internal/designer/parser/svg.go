package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"popup-designer/internal/designer/models"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName xml.Name `xml:"svg"`
	ViewBox string   `xml:"viewBox,attr"`
	Lines   []Line   `xml:"line"`
	Paths   []Path   `xml:"path"`
	Texts   []Text   `xml:"text"`
}

type Line struct {
	ID    string  `xml:"id,attr"`
	Class string  `xml:"class,attr"`
	X1    float64 `xml:"x1,attr"`
	Y1    float64 `xml:"y1,attr"`
	X2    float64 `xml:"x2,attr"`
	Y2    float64 `xml:"y2,attr"`
}

type Path struct {
	ID    string `xml:"id,attr"`
	Class string `xml:"class,attr"`
	D     string `xml:"d,attr"`
}

type Text struct {
	Class string  `xml:"class,attr"`
	X     float64 `xml:"x,attr"`
	Y     float64 `xml:"y,attr"`
	Value string  `xml:",chardata"`
}

// ============================================================
// Parser
// ============================================================

// ParseSVG reads a flat pattern sheet back into a LineSet. Lines and paths
// are classified by their cut_/fold_ id prefix, falling back to the class
// attribute; anything else is ignored.
func ParseSVG(r io.Reader) (models.LineSet, error) {
	var svg SVG
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&svg); err != nil {
		return models.LineSet{}, err
	}

	var ls models.LineSet
	if box := parseCoords(svg.ViewBox); len(box) == 4 {
		ls.Width, ls.Height = box[2], box[3]
		ls.CenterX, ls.CenterY = box[0]+box[2]/2, box[1]+box[3]/2
	}

	// Parse lines
	for _, line := range svg.Lines {
		seg, ok := classify(line.ID, line.Class)
		if !ok {
			continue
		}
		seg.Start = models.Point{X: line.X1, Y: line.Y1}
		seg.End = models.Point{X: line.X2, Y: line.Y2}
		ls.Lines = append(ls.Lines, seg)
	}

	// Parse paths
	for _, path := range svg.Paths {
		seg, ok := classify(path.ID, path.Class)
		if !ok {
			continue
		}
		points, err := ParsePath(path.D)
		if err != nil {
			return models.LineSet{}, fmt.Errorf("path %q: %w", path.ID, err)
		}
		for i := 1; i < len(points); i++ {
			s := seg
			s.Start, s.End = points[i-1], points[i]
			if s.Start == s.End {
				continue
			}
			if s.Role == "border" {
				ls.Border = append(ls.Border, s)
			} else {
				ls.Lines = append(ls.Lines, s)
			}
		}
	}

	for _, text := range svg.Texts {
		kind, ok := strings.CutPrefix(text.Class, "label-")
		if !ok {
			continue
		}
		label := models.Label{
			Kind: models.LabelKind(kind),
			Text: strings.TrimSpace(text.Value),
			At:   models.Point{X: text.X, Y: text.Y},
		}
		if id, err := strconv.Atoi(strings.TrimPrefix(label.Text, "#")); err == nil && label.Kind == models.LabelID {
			label.ElementID = id
		}
		ls.Labels = append(ls.Labels, label)
	}

	orderLines(ls.Lines)
	return ls, nil
}

// classify maps ids like cut_3_left, fold_centerline or cut_border to a
// segment kind, element id and role.
func classify(id, class string) (models.Segment, bool) {
	var seg models.Segment
	var rest string

	switch {
	case strings.HasPrefix(id, "cut_"):
		seg.Kind, rest = models.LineCut, id[len("cut_"):]
	case strings.HasPrefix(id, "fold_"):
		seg.Kind, rest = models.LineFold, id[len("fold_"):]
	case class == "cut":
		seg.Kind = models.LineCut
	case class == "fold":
		seg.Kind = models.LineFold
	default:
		return seg, false
	}

	head, side, found := strings.Cut(rest, "_")
	if n, err := strconv.Atoi(head); err == nil && found {
		seg.ElementID = n
		seg.Role = strings.ToLower(string(seg.Kind)) + "-" + side
	} else {
		seg.Role = rest
	}
	return seg, true
}

var roleOrder = map[string]int{
	"cut-left":    0,
	"cut-right":   1,
	"fold-top":    2,
	"fold-bottom": 3,
}

// orderLines puts element-free lines first, then each element's four
// lines in drawing order. Elements keep the order they appear in.
func orderLines(lines []models.Segment) {
	first := map[int]int{0: -1}
	for i, l := range lines {
		if _, ok := first[l.ElementID]; !ok {
			first[l.ElementID] = i
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if first[a.ElementID] != first[b.ElementID] {
			return first[a.ElementID] < first[b.ElementID]
		}
		return roleOrder[a.Role] < roleOrder[b.Role]
	})
}
