// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/danielhkuo/quickly-spin/models"
	"github.com/danielhkuo/quickly-spin/reveal"
)

// Director runs at most one reveal per raffle and broadcasts its events on
// the raffle's hub channel.
type Director struct {
	hub       *Hub
	sequencer reveal.Sequencer

	mu     sync.Mutex
	feeds  *cache.Cache
	closed bool
	wg     sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// feed is one raffle's reveal state. Events are queued under the generation
// lock and written to the hub by a single drainer, so a slow spectator never
// holds up a bump.
type feed struct {
	gen reveal.Generation

	mu       sync.Mutex
	pending  []any
	draining bool
}

// NewDirector creates a Director. Raffles with no reveal activity for ttl
// are forgotten; ttl <= 0 keeps them forever. A raffle is never forgotten
// while its reveal is playing.
func NewDirector(hub *Hub, sequencer reveal.Sequencer, ttl time.Duration) *Director {
	expiration, cleanup := cache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, ttl/2
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Director{
		hub:       hub,
		sequencer: sequencer,
		feeds:     cache.New(expiration, cleanup),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// feed returns the raffle's feed and stores it with the given expiration.
// Callers must hold d.mu.
func (d *Director) feed(raffleID string, expiration time.Duration) *feed {
	f := &feed{}
	if v, found := d.feeds.Get(raffleID); found {
		f = v.(*feed)
	}
	d.feeds.Set(raffleID, f, expiration)
	return f
}

// settle puts the raffle back on the idle TTL once the reveal for token is
// over, unless a newer reveal has taken over.
func (d *Director) settle(raffleID string, f *feed, token uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, found := d.feeds.Get(raffleID)
	if !found || v.(*feed) != f || !f.gen.IsCurrent(token) {
		return
	}
	d.feeds.Set(raffleID, f, cache.DefaultExpiration)
}

// enqueue adds v to the feed and starts a drainer if none is running.
func (d *Director) enqueue(raffleID string, f *feed, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending = append(f.pending, v)
	if f.draining {
		return
	}
	f.draining = true
	d.wg.Add(1)
	go d.drain(raffleID, f)
}

func (d *Director) drain(raffleID string, f *feed) {
	defer d.wg.Done()

	for {
		f.mu.Lock()
		batch := f.pending
		f.pending = nil
		if len(batch) == 0 {
			f.draining = false
			f.mu.Unlock()
			return
		}
		f.mu.Unlock()

		for _, v := range batch {
			d.hub.Broadcast(raffleID, v)
		}
	}
}

// Start replaces any running reveal for the raffle with one for winners and
// returns its generation token.
func (d *Director) Start(raffleID, drawID string, winners []models.DrawWinner) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	f := d.feed(raffleID, cache.NoExpiration)
	token := f.gen.Next()
	if d.closed {
		return token
	}

	seq := reveal.Sequence{
		RaffleID:   raffleID,
		DrawID:     drawID,
		Generation: token,
		Winners:    winners,
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		err := d.sequencer.Play(d.ctx, &f.gen, seq, func(ev reveal.Event) {
			d.enqueue(raffleID, f, ev)
		})
		d.settle(raffleID, f, token)

		switch {
		case err == nil:
			slog.Info("reveal completed", "raffle_id", raffleID, "draw_id", drawID, "winners", len(winners))
		case errors.Is(err, reveal.ErrSuperseded):
			slog.Info("reveal superseded", "raffle_id", raffleID, "draw_id", drawID, "generation", token)
		case errors.Is(err, context.Canceled):
			slog.Debug("reveal stopped", "raffle_id", raffleID, "draw_id", drawID)
		default:
			slog.Error("reveal failed", "raffle_id", raffleID, "draw_id", drawID, "error", err)
		}
	}()

	return token
}

// Cancel stops any running reveal for the raffle and tells spectators the
// wheel now rests at rotation.
func (d *Director) Cancel(raffleID string, rotation float64) uint64 {
	d.mu.Lock()
	f := d.feed(raffleID, cache.DefaultExpiration)
	d.mu.Unlock()

	return f.gen.Bump(func(token uint64) {
		d.enqueue(raffleID, f, reveal.Event{
			Type:       reveal.EventRevealCancelled,
			RaffleID:   raffleID,
			Generation: token,
			Rotation:   rotation,
		})
	})
}

// Forget drops the raffle's state, stopping any running reveal.
func (d *Director) Forget(raffleID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if v, found := d.feeds.Get(raffleID); found {
		v.(*feed).gen.Next()
	}
	d.feeds.Delete(raffleID)
}

// Close stops every running reveal and waits for them to return. Start
// after Close records the generation but plays nothing.
func (d *Director) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}

// Wait blocks until every running reveal has returned and its events have
// been written.
func (d *Director) Wait() {
	d.wg.Wait()
}
