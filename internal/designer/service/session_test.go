package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popup-designer/internal/designer/foldstate"
	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/motion"
)

func TestCreateSelectsFirstElement(t *testing.T) {
	m := NewManager(foldstate.DefaultOptions())
	sess := m.Create(nil)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 1, sess.Selected)
	assert.Equal(t, 1, m.Len())
}

func TestCreateFromSnapshot(t *testing.T) {
	m := NewManager(foldstate.DefaultOptions())
	id := 4
	sess := m.Create(&models.Snapshot{
		Mechanism:  "spinner",
		CardWidth:  180,
		CardHeight: 120,
		Elements:   []models.SnapshotElement{{ID: &id, X: 5, Width: 20, Depth: 15}},
	})

	assert.Equal(t, models.MechanismSpinner, sess.State.Mechanism())
	assert.Equal(t, 4, sess.Selected)
}

func TestUnknownSession(t *testing.T) {
	m := NewManager(foldstate.DefaultOptions())
	err := m.With("missing", func(*Session) error { return nil })
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, m.Delete("missing"), models.ErrNotFound)
}

func TestSelectionFollowsRemoval(t *testing.T) {
	m := NewManager(foldstate.DefaultOptions())
	sess := m.Create(nil)

	require.NoError(t, m.With(sess.ID, func(s *Session) error {
		assert.Equal(t, 2, s.AddElement())
		assert.Equal(t, 2, s.Selected)

		require.NoError(t, s.RemoveElement(2))
		assert.Equal(t, 1, s.Selected)

		assert.ErrorIs(t, s.RemoveElement(1), models.ErrLastElement)
		assert.ErrorIs(t, s.Select(9), models.ErrNotFound)
		return nil
	}))
}

func TestRemovingUnselectedKeepsSelection(t *testing.T) {
	m := NewManager(foldstate.DefaultOptions())
	sess := m.Create(nil)
	sess.AddElement()
	sess.AddElement()
	require.NoError(t, sess.Select(3))

	require.NoError(t, sess.RemoveElement(2))
	assert.Equal(t, 3, sess.Selected)
}

func TestToggleAndTick(t *testing.T) {
	sess := NewManager(foldstate.DefaultOptions()).Create(nil)

	assert.Equal(t, models.FlatOpen, sess.Toggle())
	a := sess.Tick(1, 0)
	assert.InDelta(t, 0.55, float64(a), 1e-12)

	a = sess.Tick(500, 0.5)
	assert.Equal(t, models.FlatOpen, a)
	assert.False(t, sess.Animator.Active())
	assert.Equal(t, 0.5, sess.Motion)
}

func TestSetArticulationCancelsAnimation(t *testing.T) {
	sess := NewManager(foldstate.DefaultOptions()).Create(nil)
	sess.Toggle()

	assert.Equal(t, models.Articulation(0.2), sess.SetArticulation(0.2))
	assert.False(t, sess.Animator.Active())
	assert.Equal(t, models.Articulation(0.2), sess.Tick(10, 0))
}

func TestAnimateToEasesTowardTarget(t *testing.T) {
	sess := NewManager(foldstate.DefaultOptions()).Create(nil)
	sess.SetArticulation(0)

	assert.Equal(t, models.Articulation(1), sess.AnimateTo(3))
	assert.True(t, sess.Animator.Active())
	mid := sess.Tick(5, 0)
	assert.Greater(t, float64(mid), 0.0)
	assert.Less(t, float64(mid), 1.0)
	assert.Equal(t, models.Articulation(1), sess.Tick(500, 0))
	assert.False(t, sess.Animator.Active())
}

func TestPointerOpensCard(t *testing.T) {
	sess := NewManager(foldstate.DefaultOptions()).Create(nil)

	_, err := sess.Pointer(DragBegin, 100, 100, 0)
	require.NoError(t, err)
	up, err := sess.Pointer(DragMove, 150, 100, 400)
	require.NoError(t, err)

	assert.Equal(t, motion.GestureOpen, up.Gesture)
	assert.InDelta(t, 0.625, float64(sess.State.Articulation()), 1e-12)

	_, err = sess.Pointer(DragEnd, 0, 0, 0)
	require.NoError(t, err)
	assert.False(t, sess.Drag.Active())
}

func TestPointerOrbits(t *testing.T) {
	sess := NewManager(foldstate.DefaultOptions()).Create(nil)

	_, _ = sess.Pointer(DragBegin, 100, 100, 0)
	up, err := sess.Pointer(DragMove, 100, 140, 400)
	require.NoError(t, err)

	assert.Equal(t, motion.GestureOrbit, up.Gesture)
	assert.InDelta(t, 0.4, sess.View.RotX, 1e-12)
	assert.Equal(t, models.Upright, sess.State.Articulation())
}

func TestPointerRejectsUnknownPhase(t *testing.T) {
	sess := NewManager(foldstate.DefaultOptions()).Create(nil)
	_, err := sess.Pointer("hover", 0, 0, 0)

	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestReplaceResetsSelection(t *testing.T) {
	m := NewManager(foldstate.DefaultOptions())
	sess := m.Create(nil)
	sess.AddElement()

	id := 7
	require.NoError(t, m.Replace(sess.ID, models.Snapshot{
		Mechanism: "vfold",
		Elements:  []models.SnapshotElement{{ID: &id, Width: 30, Depth: 30}},
	}))
	assert.Equal(t, 7, sess.Selected)
	assert.Equal(t, models.MechanismVFold, sess.State.Mechanism())
}

func TestConcurrentEdits(t *testing.T) {
	m := NewManager(foldstate.DefaultOptions())
	sess := m.Create(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.With(sess.ID, func(s *Session) error {
				s.AddElement()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 21, sess.State.ElementCount())
}

func TestDelete(t *testing.T) {
	m := NewManager(foldstate.DefaultOptions())
	sess := m.Create(nil)

	require.NoError(t, m.Delete(sess.ID))
	assert.Equal(t, 0, m.Len())
}
