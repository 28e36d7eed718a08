// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reveal

import (
	"context"
	"errors"
	"time"

	"github.com/danielhkuo/quickly-spin/models"
)

const (
	DefaultSpinDuration = 4 * time.Second
	DefaultPause        = 1500 * time.Millisecond
)

// Event types sent to spectators
const (
	EventSpinStarted       = "spin_started"
	EventWinnerRevealed    = "winner_revealed"
	EventSequenceCompleted = "sequence_completed"
	EventRevealCancelled   = "reveal_cancelled"
)

// ErrSuperseded is returned by Play when a newer reveal took over.
var ErrSuperseded = errors.New("reveal superseded")

// Event is one step of a reveal as seen by spectators.
type Event struct {
	Type       string             `json:"type"`
	RaffleID   string             `json:"raffle_id"`
	DrawID     string             `json:"draw_id,omitempty"`
	Generation uint64             `json:"generation"`
	Step       int                `json:"step,omitempty"`
	Total      int                `json:"total,omitempty"`
	Rotation   float64            `json:"rotation"`
	DurationMS int64              `json:"duration_ms,omitempty"`
	Winner     *models.DrawWinner `json:"winner,omitempty"`
}

// Sequence is a draw ready to be revealed one winner at a time.
type Sequence struct {
	RaffleID   string
	DrawID     string
	Generation uint64
	Winners    []models.DrawWinner
}

// Sequencer paces a reveal: spin, land, pause, next.
type Sequencer struct {
	SpinDuration time.Duration
	Pause        time.Duration
}

// Play emits the events for seq in order. It returns ErrSuperseded as soon
// as seq.Generation is no longer current in gen, or the context error if ctx
// ends first. Once a sequence is stale it never emits again.
func (s Sequencer) Play(ctx context.Context, gen *Generation, seq Sequence, emit func(Event)) error {
	total := len(seq.Winners)
	rotation := 0.0

	send := func(ev Event) error {
		ev.RaffleID = seq.RaffleID
		ev.DrawID = seq.DrawID
		ev.Generation = seq.Generation
		if !gen.Do(seq.Generation, func() { emit(ev) }) {
			return ErrSuperseded
		}
		return nil
	}

	for i := range seq.Winners {
		winner := seq.Winners[i]
		rotation = winner.TargetRotation

		err := send(Event{
			Type:       EventSpinStarted,
			Step:       i + 1,
			Total:      total,
			Rotation:   rotation,
			DurationMS: s.SpinDuration.Milliseconds(),
		})
		if err != nil {
			return err
		}
		if err := s.wait(ctx, gen, seq.Generation, s.SpinDuration); err != nil {
			return err
		}

		err = send(Event{
			Type:     EventWinnerRevealed,
			Step:     i + 1,
			Total:    total,
			Rotation: rotation,
			Winner:   &winner,
		})
		if err != nil {
			return err
		}

		if i < total-1 {
			if err := s.wait(ctx, gen, seq.Generation, s.Pause); err != nil {
				return err
			}
		}
	}

	return send(Event{
		Type:     EventSequenceCompleted,
		Total:    total,
		Rotation: rotation,
	})
}

func (s Sequencer) wait(ctx context.Context, gen *Generation, token uint64, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-gen.Done(token):
		return ErrSuperseded
	case <-ctx.Done():
		return ctx.Err()
	}
}
