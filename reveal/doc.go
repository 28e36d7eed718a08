// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reveal paces the reveal of a draw for spectators.

The wheel engine computes every winner at once. Reveal plays them back one
at a time:

	spin_started → (SpinDuration) → winner_revealed → (Pause) → ... → sequence_completed

# Generations

Each raffle has a Generation. Starting a reveal takes a token with Next,
which makes every older token stale. A sequence holding a stale token stops
at its next step and never emits again, so a new draw or a reset cleanly
replaces a reveal that is still running:

	token := gen.Next()
	err := reveal.Sequencer{SpinDuration: 4 * time.Second, Pause: 1500 * time.Millisecond}.
		Play(ctx, gen, reveal.Sequence{RaffleID: id, Generation: token, Winners: winners}, emit)
	if errors.Is(err, reveal.ErrSuperseded) { ... }

Events are emitted while holding the generation lock, so an emit that is in
progress finishes before Next returns.
*/
package reveal
