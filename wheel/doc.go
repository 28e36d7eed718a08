// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package wheel selects raffle winners and computes where the wheel stops.

# Drawing Winners

An Engine samples winners uniformly without replacement:

	engine := wheel.NewEngine(wheel.NewRNG())
	result, err := engine.Draw(participants, 3, currentRotation)

Every pick is uniform over the participants still in the pool, so the
ordered winners are a uniformly random prefix of a permutation. Each Spin
carries the index of the winner in the original slice and the absolute
rotation (degrees) the wheel must reach to stop on that winner:

	target = current + 360*extra + (360 - index*degreesPerSlice) - degreesPerSlice/2

Slice width is fixed by the full participant count for the whole request.
Rotation only moves forward: every target is greater than the rotation
before it. Extra turns are whole numbers drawn from a SpinRange, [5,8) for a
single winner and [3,5) otherwise.

Invalid input (no participants, or a count outside [1, len]) returns an
error wrapping ErrInvalidRequest and no partial result:

	if errors.Is(err, wheel.ErrInvalidRequest) { ... }

The engine holds no state between calls. Pacing the reveal of the spins is
the caller's job (see package reveal).

# Random Sources

Draw consumes an RNG. NewRNG uses the auto-seeded math/rand/v2 functions;
NewSeededRNG gives a reproducible source. Both are safe for concurrent use.
Tests can pass any type with IntN and Float64 to script exact picks.

# Geometry

Layout returns the equal segments for n participants and SliceAt returns the
segment under the pointer for a given rotation.
*/
package wheel
