package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"popup-designer/internal/designer/models"
)

// ============================================================
// Path Parser
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath turns the straight-line subset of SVG path data (M, L, H, V, Z
// and their relative forms) into points. Z repeats the subpath start.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []models.Point
	var cur, start models.Point

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "m", "L", "l":
			// Extra pairs after a moveto are implicit linetos.
			for i := 0; i+1 < len(coords); i += 2 {
				if cmd == "m" || cmd == "l" {
					cur = models.Point{X: cur.X + coords[i], Y: cur.Y + coords[i+1]}
				} else {
					cur = models.Point{X: coords[i], Y: coords[i+1]}
				}
				if i == 0 && (cmd == "M" || cmd == "m") {
					start = cur
				}
				points = append(points, cur)
			}

		case "H", "h":
			for _, x := range coords {
				if cmd == "h" {
					x += cur.X
				}
				cur.X = x
				points = append(points, cur)
			}

		case "V", "v":
			for _, y := range coords {
				if cmd == "v" {
					y += cur.Y
				}
				cur.Y = y
				points = append(points, cur)
			}

		case "Z", "z":
			if len(points) > 0 {
				cur = start
				points = append(points, start)
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no points", d)
	}
	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	var coords []float64
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}

	return coords
}
