// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reveal

import "sync"

// Generation hands out reveal tokens. Only the most recent token is current;
// calling Next makes every earlier token stale. The zero value is ready to use.
type Generation struct {
	mu     sync.Mutex
	n      uint64
	bumped chan struct{}
}

// Next starts a new generation and returns its token.
func (g *Generation) Next() uint64 {
	return g.Bump(nil)
}

// Bump starts a new generation and, before any holder of the new token can
// run through Do, calls fn with it. fn may be nil.
func (g *Generation) Bump(fn func(token uint64)) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	if g.bumped != nil {
		close(g.bumped)
	}
	g.bumped = make(chan struct{})
	if fn != nil {
		fn(g.n)
	}
	return g.n
}

// Current returns the latest token, 0 if Next was never called.
func (g *Generation) Current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// IsCurrent reports whether token is still the latest.
func (g *Generation) IsCurrent(token uint64) bool {
	return g.Current() == token
}

// Done returns a channel that is closed once token is stale.
func (g *Generation) Done(token uint64) <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.n != token || g.bumped == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return g.bumped
}

// Do runs fn while holding the generation lock, only if token is current.
// A concurrent Next waits for fn, so nothing a stale holder does through Do
// can land after the bump. fn must not block.
func (g *Generation) Do(token uint64, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.n != token {
		return false
	}
	fn()
	return true
}
