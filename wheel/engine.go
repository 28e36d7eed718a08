// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wheel

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned by Draw for an empty wheel or a count
// outside [1, len(participants)]. It is always wrapped with the detail.
var ErrInvalidRequest = errors.New("invalid draw request")

// Participant is one entry on the wheel.
type Participant struct {
	ID   string
	Name string
}

// SpinRange bounds the number of full turns added to a spin.
// Min is inclusive, Max exclusive. A range with Max <= Min always yields Min.
type SpinRange struct {
	Min int
	Max int
}

// Extra-turn ranges used unless overridden by options.
var (
	DefaultSingleSpins = SpinRange{Min: 5, Max: 8}
	DefaultMultiSpins  = SpinRange{Min: 3, Max: 5}
)

// Spin is one revealed winner together with the rotation the wheel must
// reach to land on it.
type Spin struct {
	Index          int // position in the original participant slice
	ParticipantID  string
	Name           string
	TargetRotation float64 // absolute, degrees
}

// Result is the ordered outcome of a single Draw call.
type Result struct {
	Spins           []Spin
	SlicesTotal     int
	DegreesPerSlice float64
	StartRotation   float64
}

// FinalRotation is the rotation after the last spin, or the start rotation
// for an empty result.
func (r Result) FinalRotation() float64 {
	if len(r.Spins) == 0 {
		return r.StartRotation
	}
	return r.Spins[len(r.Spins)-1].TargetRotation
}

// Engine picks winners without replacement and computes the wheel rotation
// for each pick. It keeps no state between calls.
type Engine struct {
	rng    RNG
	single SpinRange
	multi  SpinRange
}

// Option configures an Engine.
type Option func(*Engine)

// WithSingleSpins sets the extra-turn range used when one winner is drawn.
func WithSingleSpins(r SpinRange) Option {
	return func(e *Engine) { e.single = r }
}

// WithMultiSpins sets the extra-turn range used when several winners are drawn.
func WithMultiSpins(r SpinRange) Option {
	return func(e *Engine) { e.multi = r }
}

// NewEngine returns an Engine drawing from rng with the default spin ranges.
func NewEngine(rng RNG, opts ...Option) *Engine {
	e := &Engine{
		rng:    rng,
		single: DefaultSingleSpins,
		multi:  DefaultMultiSpins,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Draw selects k distinct winners from participants, in reveal order.
//
// Each pick is uniform over the participants still in the pool, so the
// result is a uniformly random ordered k-subset. Slice width is fixed by the
// full participant count for the whole request, and every target rotation
// is strictly greater than the one before it.
func (e *Engine) Draw(participants []Participant, k int, currentRotation float64) (Result, error) {
	n := len(participants)
	if n == 0 {
		return Result{}, fmt.Errorf("%w: no participants", ErrInvalidRequest)
	}
	if k < 1 || k > n {
		return Result{}, fmt.Errorf("%w: winner count %d outside [1, %d]", ErrInvalidRequest, k, n)
	}

	spinRange := e.multi
	if k == 1 {
		spinRange = e.single
	}

	degreesPerSlice := 360 / float64(n)

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	result := Result{
		Spins:           make([]Spin, 0, k),
		SlicesTotal:     n,
		DegreesPerSlice: degreesPerSlice,
		StartRotation:   currentRotation,
	}

	rotation := currentRotation
	for range k {
		j := e.rng.IntN(len(remaining))
		idx := remaining[j]
		remaining = append(remaining[:j], remaining[j+1:]...)

		extra := e.extraSpins(spinRange)
		rotation = rotation + 360*float64(extra) + (360 - float64(idx)*degreesPerSlice) - degreesPerSlice/2

		result.Spins = append(result.Spins, Spin{
			Index:          idx,
			ParticipantID:  participants[idx].ID,
			Name:           participants[idx].Name,
			TargetRotation: rotation,
		})
	}

	return result, nil
}

// extraSpins returns a whole number of turns so a spin starting from a
// multiple of 360 stops on the center of the winning slice.
func (e *Engine) extraSpins(r SpinRange) int {
	lo := max(r.Min, 0)
	if r.Max <= lo+1 {
		return lo
	}
	span := r.Max - lo
	n := lo + int(e.rng.Float64()*float64(span))
	// Float64 is [0,1) but guard against a stub returning 1.
	return min(n, r.Max-1)
}
