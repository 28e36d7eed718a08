// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wheel

import "math"

// Segment describes one equal slice of the wheel in wheel coordinates.
// Angles are degrees measured from the pointer position (screen angle 0)
// in the direction the wheel is drawn.
type Segment struct {
	Index       int     `json:"index"`
	StartAngle  float64 `json:"start_angle"`
	EndAngle    float64 `json:"end_angle"`
	CenterAngle float64 `json:"center_angle"`
	LargeArc    bool    `json:"large_arc"`
}

// Layout splits the wheel into n equal segments.
func Layout(n int) []Segment {
	if n <= 0 {
		return nil
	}

	degreesPerSlice := 360 / float64(n)
	segments := make([]Segment, n)
	for i := range segments {
		start := float64(i) * degreesPerSlice
		segments[i] = Segment{
			Index:       i,
			StartAngle:  start,
			EndAngle:    start + degreesPerSlice,
			CenterAngle: start + degreesPerSlice/2,
			LargeArc:    degreesPerSlice > 180,
		}
	}
	return segments
}

// SliceAt returns the index of the slice under the pointer when a wheel of
// n slices is rotated by rotation degrees, or -1 if n <= 0.
func SliceAt(rotation float64, n int) int {
	if n <= 0 {
		return -1
	}

	angle := math.Mod(-rotation, 360)
	if angle < 0 {
		angle += 360
	}

	idx := int(angle / (360 / float64(n)))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
