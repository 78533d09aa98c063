package foldstate

import (
	"encoding/json"
	"fmt"

	"popup-designer/internal/designer/models"
)

// ============================================================
// Snapshot codec
// ============================================================

// Snapshot captures the state in the persisted record layout.
func (s *State) Snapshot() models.Snapshot {
	a := float64(s.articulation)
	m := s.material
	snap := models.Snapshot{
		Mechanism:    string(s.mechanism),
		CardWidth:    s.card.Width,
		CardHeight:   s.card.Height,
		Elements:     make([]models.SnapshotElement, 0, len(s.elements)),
		Articulation: &a,
		ProjectName:  s.projectName,
		Material:     &m,
	}
	for _, el := range s.elements {
		id := el.ID
		snap.Elements = append(snap.Elements, models.SnapshotElement{ID: &id, X: el.X, Width: el.Width, Depth: el.Depth})
	}
	size := models.PaperSizeFor(s.card)
	for _, p := range s.papers {
		snap.PaperLayers = append(snap.PaperLayers, models.SnapshotPaper{Color: p.Color, Size: size})
	}
	return snap
}

// FromSnapshot rebuilds a state. Missing or unknown values fall back to the
// option defaults, numbers are clamped, and elements without a usable id get
// a fresh one. Invalid material entries are dropped.
func FromSnapshot(opts Options, snap models.Snapshot) *State {
	s := &State{
		opts:         opts,
		articulation: opts.Articulation.Clamp(),
		mechanism:    opts.Mechanism,
		material:     DefaultMaterial(),
		projectName:  snap.ProjectName,
	}
	if k, err := models.ParseMechanism(snap.Mechanism); err == nil {
		s.mechanism = k
	}
	if s.mechanism == "" {
		s.mechanism = models.MechanismParallel
	}

	card := opts.Card
	if snap.CardWidth > 0 {
		card.Width = snap.CardWidth
	}
	if snap.CardHeight > 0 {
		card.Height = snap.CardHeight
	}
	s.card = clampCard(card, opts.Limits)

	if snap.Articulation != nil {
		s.articulation = models.Articulation(*snap.Articulation).Clamp()
	}

	s.restoreElements(snap.Elements)
	if len(s.elements) == 0 {
		s.AddElement(opts.Element)
	}

	if snap.Material != nil {
		m := *snap.Material
		for _, part := range []models.Material{
			{BaseStock: m.BaseStock, ElementStock: m.ElementStock, Complexity: m.Complexity},
			{Join: m.Join},
			{Color: m.Color},
		} {
			_, _ = s.SetMaterial(part)
		}
	}

	for _, p := range snap.PaperLayers {
		s.AddPaperLayer(p.Color)
	}
	if len(s.papers) == 0 {
		s.AddPaperLayer("")
	}
	return s
}

func (s *State) restoreElements(in []models.SnapshotElement) {
	seen := make(map[int]bool, len(in))
	ids := make([]int, len(in))
	for i, e := range in {
		if e.ID != nil && *e.ID > 0 && !seen[*e.ID] {
			ids[i] = *e.ID
			seen[*e.ID] = true
			s.highestID = max(s.highestID, *e.ID)
		}
	}
	for i, e := range in {
		if ids[i] == 0 {
			s.highestID++
			ids[i] = s.highestID
		}
		s.elements = append(s.elements, models.Element{
			ID:    ids[i],
			X:     s.opts.Limits.X.Clamp(e.X),
			Width: s.opts.Limits.Width.Clamp(e.Width),
			Depth: s.opts.Limits.Depth.Clamp(e.Depth),
		})
	}
}

// Serialize renders the snapshot as the JSON text the shell stores.
func (s *State) Serialize() (string, error) {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(data), nil
}

// Deserialize is the inverse of Serialize.
func Deserialize(opts Options, text string) (*State, error) {
	var snap models.Snapshot
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return FromSnapshot(opts, snap), nil
}
