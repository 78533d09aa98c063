package mapper

import (
	"fmt"
	"math"
	"strings"

	"popup-designer/internal/designer/foldstate"
	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/pattern"
)

// ============================================================
// Construction guide
// ============================================================

var structureHints = map[models.MechanismKind]string{
	models.MechanismVFold:    "V-fold: the most basic structure, suited to figures, trees and simple buildings.",
	models.MechanismParallel: "Parallel fold: builds depth in layers, suited to architecture and scenery.",
	models.MechanismFloating: "Floating layers: the most advanced structure and the hardest to build, suited to layered scenes.",
	models.MechanismPullTab:  "Pull tab: adds interaction, suited to reveal effects.",
	models.MechanismSpinner:  "Spinner: needs a precisely placed pivot, with the best payoff.",
}

var recommendations = map[models.MechanismKind]string{
	models.MechanismVFold:    "Use 300 GSM for the base so it can carry the structure. Use 220 GSM for elements to stay flexible without sagging. Keep folds parallel to the paper grain.",
	models.MechanismParallel: "Use the stiffest 300-350 GSM for the base since stacked layers add stress. Use 200 GSM for element layers so layers separate cleanly.",
	models.MechanismFloating: "Support strips need precise design. Base 300 GSM, side strips 220 GSM, floating layers 180-200 GSM to keep them light.",
	models.MechanismPullTab:  "The base needs 300 GSM for stable support. Moving parts use 220 GSM. Tracks must be precise so the mechanism neither pulls out nor jams.",
	models.MechanismSpinner:  "Base 300 GSM keeps the centre of mass stable. Rotating parts use 190-210 GSM so they turn smoothly. Reinforce the pivot point.",
}

const defaultRecommendation = "Choose paper weight according to the structure's complexity."

var joinNames = map[string]string{
	"glue":       "White glue",
	"doubletape": "Double-sided tape",
	"slotjoin":   "Slot join",
	"foldpin":    "Fold pin",
}

type Stats struct {
	Area       float64 `json:"area"`
	PopDepth   float64 `json:"popDepth"`
	Elements   int     `json:"elements"`
	CutLength  float64 `json:"cutLength"`
	FoldLength float64 `json:"foldLength"`
}

type Guide struct {
	ProjectName    string               `json:"projectName,omitempty"`
	Mechanism      models.MechanismKind `json:"mechanism"`
	MechanismName  string               `json:"mechanismName"`
	Card           models.Card          `json:"card"`
	Material       models.Material      `json:"material"`
	PaperLayers    int                  `json:"paperLayers"`
	Elements       []models.Element     `json:"elements"`
	Stats          Stats                `json:"stats"`
	Hint           string               `json:"hint,omitempty"`
	Recommendation string               `json:"recommendation"`
	Steps          []string             `json:"steps"`
}

// PopDepth is the recommended pop-out depth for a complexity level.
func PopDepth(complexity int) float64 {
	return math.Max(5, 8+2*float64(complexity))
}

func BuildGuide(s *foldstate.State) Guide {
	card := s.Card()
	elements := s.Elements()
	ls := pattern.Derive(card, elements)
	mat := s.Material()

	stats := Stats{
		Area:     card.Width * card.Height,
		PopDepth: PopDepth(mat.Complexity),
		Elements: len(elements),
	}
	for _, seg := range append(append([]models.Segment{}, ls.Border...), ls.Lines...) {
		if seg.Kind == models.LineCut {
			stats.CutLength += seg.Length()
		} else {
			stats.FoldLength += seg.Length()
		}
	}

	rec, ok := recommendations[s.Mechanism()]
	if !ok {
		rec = defaultRecommendation
	}

	return Guide{
		ProjectName:    s.ProjectName(),
		Mechanism:      s.Mechanism(),
		MechanismName:  s.Mechanism().DisplayName(),
		Card:           card,
		Material:       mat,
		PaperLayers:    len(s.PaperLayers()),
		Elements:       elements,
		Stats:          stats,
		Hint:           structureHints[s.Mechanism()],
		Recommendation: rec,
		Steps:          steps(s.Mechanism(), elements, mat),
	}
}

func steps(kind models.MechanismKind, elements []models.Element, mat models.Material) []string {
	join := joinNames[mat.Join]
	if join == "" {
		join = mat.Join
	}

	out := []string{
		fmt.Sprintf("Print the flat pattern on %s stock. Red lines are cuts, blue dashed lines are folds.", strings.ToUpper(mat.BaseStock)),
		"Score the centre valley fold before cutting.",
	}
	if kind == models.MechanismParallel {
		for _, el := range elements {
			out = append(out, fmt.Sprintf("Element #%d: cut both sides (%s mm long), fold the top edge up and the bottom edge down.",
				el.ID, formatFloat(2*el.Depth)))
		}
	} else {
		out = append(out, fmt.Sprintf("Cut the %s parts from %s stock.", strings.ToLower(kind.DisplayName()), strings.ToUpper(mat.ElementStock)))
	}
	out = append(out,
		fmt.Sprintf("Attach moving parts with %s.", strings.ToLower(join)),
		"Close the card slowly and check that nothing protrudes past the edges.",
	)
	return out
}

// Text renders the guide as plain text.
func (g Guide) Text() string {
	var b strings.Builder

	title := g.ProjectName
	if title == "" {
		title = "Pop-up card"
	}
	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(&b, "Mechanism:     %s\n", g.MechanismName)
	fmt.Fprintf(&b, "Card:          %s x %s mm\n", formatFloat(g.Card.Width), formatFloat(g.Card.Height))
	fmt.Fprintf(&b, "Base stock:    %s\n", strings.ToUpper(g.Material.BaseStock))
	fmt.Fprintf(&b, "Element stock: %s\n", strings.ToUpper(g.Material.ElementStock))
	fmt.Fprintf(&b, "Join:          %s\n", g.Material.Join)
	fmt.Fprintf(&b, "Paper layers:  %d\n\n", g.PaperLayers)

	b.WriteString("Stats\n")
	fmt.Fprintf(&b, "  area            %.0f mm²\n", g.Stats.Area)
	fmt.Fprintf(&b, "  pop depth       %.1f mm\n", g.Stats.PopDepth)
	fmt.Fprintf(&b, "  elements        %d\n", g.Stats.Elements)
	fmt.Fprintf(&b, "  cut length      %.1f mm\n", g.Stats.CutLength)
	fmt.Fprintf(&b, "  fold length     %.1f mm\n\n", g.Stats.FoldLength)

	b.WriteString("Elements\n")
	for _, el := range g.Elements {
		fmt.Fprintf(&b, "  #%d  offset %s  %s\n", el.ID, formatFloat(el.X), pattern.Dimension(el))
	}
	b.WriteString("\n")

	if g.Hint != "" {
		fmt.Fprintf(&b, "Hint: %s\n", g.Hint)
	}
	fmt.Fprintf(&b, "Material: %s\n\nSteps\n", g.Recommendation)
	for i, s := range g.Steps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
	}
	return b.String()
}
