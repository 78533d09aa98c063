package foldstate

import (
	"fmt"

	"popup-designer/internal/designer/models"
)

// ============================================================
// Limits & options
// ============================================================

// Limits bounds every numeric input the model accepts.
type Limits struct {
	CardWidth  models.Bounds
	CardHeight models.Bounds
	X          models.Bounds
	Width      models.Bounds
	Depth      models.Bounds
}

func DefaultLimits() Limits {
	return Limits{
		CardWidth:  models.Bounds{Min: 60, Max: 420},
		CardHeight: models.Bounds{Min: 60, Max: 420},
		X:          models.Bounds{Min: -100, Max: 100},
		Width:      models.Bounds{Min: 10, Max: 90},
		Depth:      models.Bounds{Min: 10, Max: 70},
	}
}

func (l Limits) field(f models.Field) models.Bounds {
	switch f {
	case models.FieldX:
		return l.X
	case models.FieldWidth:
		return l.Width
	}
	return l.Depth
}

type Options struct {
	Limits       Limits
	Policy       ParsePolicy
	Card         models.Card
	Element      models.Element
	Mechanism    models.MechanismKind
	Articulation models.Articulation
}

func DefaultOptions() Options {
	return Options{
		Limits:       DefaultLimits(),
		Policy:       PolicyZero,
		Card:         models.Card{Width: 200, Height: 140},
		Element:      models.Element{X: 0, Width: 35, Depth: 30},
		Mechanism:    models.MechanismParallel,
		Articulation: models.Upright,
	}
}

// ============================================================
// State
// ============================================================

// State is the single source of truth for one card design. It is not safe
// for concurrent use; callers serialize access.
type State struct {
	opts         Options
	card         models.Card
	articulation models.Articulation
	mechanism    models.MechanismKind
	elements     []models.Element
	highestID    int
	papers       []models.PaperLayer
	material     models.Material
	projectName  string
}

// New returns a design holding one default element and one paper layer.
func New(opts Options) *State {
	s := &State{
		opts:         opts,
		card:         clampCard(opts.Card, opts.Limits),
		articulation: opts.Articulation.Clamp(),
		mechanism:    opts.Mechanism,
		material:     DefaultMaterial(),
	}
	if s.mechanism == "" {
		s.mechanism = models.MechanismParallel
	}
	s.AddElement(opts.Element)
	s.AddPaperLayer("")
	return s
}

func (s *State) Options() Options                  { return s.opts }
func (s *State) Card() models.Card                 { return s.card }
func (s *State) Articulation() models.Articulation { return s.articulation }
func (s *State) Mechanism() models.MechanismKind   { return s.mechanism }
func (s *State) Material() models.Material         { return s.material }
func (s *State) ProjectName() string               { return s.projectName }
func (s *State) SetProjectName(name string)        { s.projectName = name }
func (s *State) ElementCount() int                 { return len(s.elements) }

// Elements returns a copy of the element collection in insertion order.
func (s *State) Elements() []models.Element {
	out := make([]models.Element, len(s.elements))
	copy(out, s.elements)
	return out
}

func (s *State) Element(id int) (models.Element, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Element{}, fmt.Errorf("element %d: %w", id, models.ErrNotFound)
	}
	return s.elements[i], nil
}

// SetArticulation saturates value into [0,1] and returns what was stored.
func (s *State) SetArticulation(value float64) models.Articulation {
	s.articulation = models.Articulation(value).Clamp()
	return s.articulation
}

// SetMechanism only checks enum membership.
func (s *State) SetMechanism(kind models.MechanismKind) error {
	k, err := models.ParseMechanism(string(kind))
	if err != nil {
		return err
	}
	s.mechanism = k
	return nil
}

// SetCardSize clamps both dimensions to the card limits.
func (s *State) SetCardSize(width, height float64) models.Card {
	s.card = clampCard(models.Card{Width: width, Height: height}, s.opts.Limits)
	return s.card
}

// AddElement appends an element built from defaults and returns its id.
func (s *State) AddElement(defaults models.Element) int {
	id := s.nextID()
	el := models.Element{
		ID:    id,
		X:     s.opts.Limits.X.Clamp(defaults.X),
		Width: s.opts.Limits.Width.Clamp(defaults.Width),
		Depth: s.opts.Limits.Depth.Clamp(defaults.Depth),
	}
	s.elements = append(s.elements, el)
	return id
}

// UpdateElement parses raw according to the configured policy and stores
// it in field. It returns the stored value.
func (s *State) UpdateElement(id int, field models.Field, raw string) (float64, error) {
	i, f, err := s.elementField(id, field)
	if err != nil {
		return 0, err
	}

	v, err := s.opts.Policy.Apply(string(f), raw, s.opts.Limits.field(f))
	if err != nil {
		return 0, err
	}
	s.elements[i] = s.elements[i].Set(f, v)
	return v, nil
}

// SetElement stores an already numeric value, clamped.
func (s *State) SetElement(id int, field models.Field, value float64) (float64, error) {
	i, f, err := s.elementField(id, field)
	if err != nil {
		return 0, err
	}
	v := s.opts.Limits.field(f).Clamp(value)
	s.elements[i] = s.elements[i].Set(f, v)
	return v, nil
}

// RemoveElement deletes id and returns the element that should become the
// current selection (the first remaining one).
func (s *State) RemoveElement(id int) (int, error) {
	i := s.indexOf(id)
	if i < 0 {
		return 0, fmt.Errorf("element %d: %w", id, models.ErrNotFound)
	}
	if len(s.elements) <= 1 {
		return 0, fmt.Errorf("remove element %d: %w", id, models.ErrLastElement)
	}
	s.elements = append(s.elements[:i:i], s.elements[i+1:]...)
	return s.elements[0].ID, nil
}

// ============================================================
// Helpers
// ============================================================

func (s *State) indexOf(id int) int {
	for i, el := range s.elements {
		if el.ID == id {
			return i
		}
	}
	return -1
}

// elementField resolves the index of id and the canonical spelling of field.
func (s *State) elementField(id int, field models.Field) (int, models.Field, error) {
	i := s.indexOf(id)
	if i < 0 {
		return 0, "", fmt.Errorf("element %d: %w", id, models.ErrNotFound)
	}
	f, err := models.ParseField(string(field))
	if err != nil {
		return 0, "", err
	}
	return i, f, nil
}

// nextID never hands out an id twice, even after the highest was removed.
func (s *State) nextID() int {
	top := s.highestID
	for _, el := range s.elements {
		if el.ID > top {
			top = el.ID
		}
	}
	s.highestID = top + 1
	return s.highestID
}

func clampCard(c models.Card, l Limits) models.Card {
	return models.Card{
		Width:  l.CardWidth.Clamp(c.Width),
		Height: l.CardHeight.Clamp(c.Height),
	}
}
