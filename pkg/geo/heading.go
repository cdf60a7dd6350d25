// pkg/geo/heading.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import gomath "math"

// NormalizeHeading wraps a heading/bearing into [0,360).
func NormalizeHeading(h float32) float32 {
	h = float32(gomath.Mod(float64(h), 360))
	if h < 0 {
		h += 360
	}
	return h
}

// OppositeHeading returns h+180, normalized.
func OppositeHeading(h float32) float32 { return NormalizeHeading(h + 180) }

// HeadingDifference returns the unsigned angular difference between two
// headings, always in [0,180].
func HeadingDifference(a, b float32) float32 {
	d := Abs(NormalizeHeading(a) - NormalizeHeading(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// RelativeHeading returns the signed difference to - from, in (-180,180],
// positive meaning "to" is clockwise of "from". This is the rel_hdg used
// throughout the HSI/CDI deflection math.
func RelativeHeading(from, to float32) float32 {
	d := NormalizeHeading(to) - NormalizeHeading(from)
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}
