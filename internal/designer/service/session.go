package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"popup-designer/internal/designer/foldstate"
	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/motion"
)

// ============================================================
// Design sessions
// ============================================================

// Session is one open design: the fold state plus the interaction state
// around it. Access goes through Manager.With, which serializes callers.
type Session struct {
	ID        string
	State     *foldstate.State
	Selected  int
	Animator  *motion.Animator
	Drag      motion.Drag
	View      motion.View
	Motion    float64
	CreatedAt time.Time

	mu sync.Mutex
}

// Select makes element id the selected one.
func (s *Session) Select(id int) error {
	if _, err := s.State.Element(id); err != nil {
		return err
	}
	s.Selected = id
	return nil
}

// AddElement appends an element with the configured defaults and selects it.
func (s *Session) AddElement() int {
	id := s.State.AddElement(s.State.Options().Element)
	s.Selected = id
	return id
}

// RemoveElement deletes id and moves the selection to the first remaining
// element when the selected one was removed.
func (s *Session) RemoveElement(id int) error {
	first, err := s.State.RemoveElement(id)
	if err != nil {
		return err
	}
	if s.Selected == id {
		s.Selected = first
	}
	return nil
}

// SetArticulation sets the opening directly and cancels any animation.
func (s *Session) SetArticulation(v float64) models.Articulation {
	s.Animator.Stop()
	return s.State.SetArticulation(v)
}

// AnimateTo eases the opening toward v over the following ticks.
func (s *Session) AnimateTo(v float64) models.Articulation {
	s.Animator.AnimateTo(models.Articulation(v))
	return s.Animator.Target()
}

func (s *Session) Toggle() models.Articulation {
	return s.Animator.Toggle(s.State.Articulation())
}

// Tick advances the animation by frames and the decorative clock by dt
// seconds.
func (s *Session) Tick(frames int, dt float64) models.Articulation {
	for i := 0; i < frames && s.Animator.Active(); i++ {
		next := s.Animator.Tick(s.State.Articulation())
		s.State.SetArticulation(float64(next))
	}
	if dt > 0 {
		s.Motion += dt
	}
	return s.State.Articulation()
}

type DragPhase string

const (
	DragBegin DragPhase = "begin"
	DragMove  DragPhase = "move"
	DragEnd   DragPhase = "end"
)

// Pointer feeds one pointer event into the drag gesture.
func (s *Session) Pointer(phase DragPhase, x, y, viewport float64) (motion.Update, error) {
	switch phase {
	case DragBegin:
		s.Animator.Stop()
		s.Drag.Begin(x, y, s.State.Articulation())
		return motion.Update{Gesture: motion.GestureNone}, nil
	case DragMove:
		up := s.Drag.Move(x, y, viewport)
		switch up.Gesture {
		case motion.GestureOpen:
			s.State.SetArticulation(float64(up.Articulation))
		case motion.GestureOrbit:
			s.View.Orbit(up.OrbitX, up.OrbitY)
		}
		return up, nil
	case DragEnd:
		s.Drag.End()
		return motion.Update{Gesture: motion.GestureNone}, nil
	}
	return motion.Update{}, &models.ValidationError{Field: "phase", Raw: string(phase), Reason: "expected begin, move or end"}
}

// ============================================================
// Session Manager
// ============================================================

type Manager struct {
	mu       sync.Mutex
	opts     foldstate.Options
	sessions map[string]*Session
}

func NewManager(opts foldstate.Options) *Manager {
	return &Manager{
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Options() foldstate.Options { return m.opts }

// Create opens a session, restored from snap when given.
func (m *Manager) Create(snap *models.Snapshot) *Session {
	var st *foldstate.State
	if snap != nil {
		st = foldstate.FromSnapshot(m.opts, *snap)
	} else {
		st = foldstate.New(m.opts)
	}

	sess := &Session{
		ID:        uuid.NewString(),
		State:     st,
		Animator:  motion.NewAnimator(motion.DefaultRate),
		View:      motion.NewView(),
		CreatedAt: time.Now(),
	}
	if els := st.Elements(); len(els) > 0 {
		sess.Selected = els[0].ID
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("design %s: %w", id, models.ErrNotFound)
	}
	return sess, nil
}

// With runs fn while holding the session lock.
func (m *Manager) With(id string, fn func(*Session) error) error {
	sess, err := m.get(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// Replace swaps the fold state of a session, e.g. after loading it from
// storage. Interaction state is reset.
func (m *Manager) Replace(id string, snap models.Snapshot) error {
	return m.With(id, func(s *Session) error {
		s.State = foldstate.FromSnapshot(m.opts, snap)
		s.Animator.Stop()
		s.Drag.End()
		s.Selected = 0
		if els := s.State.Elements(); len(els) > 0 {
			s.Selected = els[0].ID
		}
		return nil
	})
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("design %s: %w", id, models.ErrNotFound)
	}
	delete(m.sessions, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
