// Package motion holds the time and pointer driven parts of the designer:
// easing the articulation toward a target, classifying drags, and the
// orbit/zoom view. None of it renders anything.
package motion

import (
	"math"

	"popup-designer/internal/designer/models"
)

const (
	DefaultRate = 0.1
	// SnapAngle is the remaining opening angle, in radians, below which the
	// animation jumps to its target.
	SnapAngle = 0.01
	// OpenThreshold is the share of π above which a toggle closes the card.
	OpenThreshold = 0.99
)

// Step moves current one frame toward target: a += (target-a)·rate.
// It reports true once the target is reached.
func Step(current, target models.Articulation, rate float64) (models.Articulation, bool) {
	diff := float64(target - current)
	if math.Abs(diff)*math.Pi <= SnapAngle {
		return target, true
	}
	return (current + models.Articulation(diff*rate)).Clamp(), false
}

type Animator struct {
	rate   float64
	target models.Articulation
	active bool
}

func NewAnimator(rate float64) *Animator {
	if rate <= 0 || rate > 1 {
		rate = DefaultRate
	}
	return &Animator{rate: rate}
}

// Toggle opens a card that is not fully open and closes one that is.
func (a *Animator) Toggle(current models.Articulation) models.Articulation {
	if current.Angle() >= math.Pi*OpenThreshold {
		a.target = models.Closed
	} else {
		a.target = models.FlatOpen
	}
	a.active = true
	return a.target
}

func (a *Animator) AnimateTo(target models.Articulation) {
	a.target = target.Clamp()
	a.active = true
}

// Stop cancels the running animation, e.g. when the user grabs the card.
func (a *Animator) Stop() { a.active = false }

func (a *Animator) Active() bool                { return a.active }
func (a *Animator) Target() models.Articulation { return a.target }

// Tick advances one frame. When idle it returns current unchanged.
func (a *Animator) Tick(current models.Articulation) models.Articulation {
	if !a.active {
		return current
	}
	next, done := Step(current, a.target, a.rate)
	if done {
		a.active = false
	}
	return next
}
