// pkg/geo/core.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package geo collects the small geographic and numeric primitives used
// throughout the radio simulation: lat/lon points, ECEF conversion, a
// gnomonic projection for localizer runway alignment, and generic scalar
// helpers. It plays the role that an external geo-primitives library
// (ECEF/ortho projection) would in a host flight simulator; we implement
// a self-contained version of it here since no such collaborator is
// wired into this module.
package geo

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

const (
	Pi      = gomath.Pi
	TwoPi   = 2 * gomath.Pi
	PiOver2 = gomath.Pi / 2

	// WGS84 ellipsoid parameters, used by the ECEF conversion.
	wgs84A  = 6378137.0
	wgs84F  = 1.0 / 298.257223563
	wgs84E2 = wgs84F * (2 - wgs84F)

	// EarthRadiusM is the mean earth radius used for great-circle
	// distance/bearing approximations (the spatial query window and
	// terrain-probe polyline sampling don't need ellipsoidal precision).
	EarthRadiusM = 6371000.0
	NMToMeters   = 1852.0
	MetersToNM   = 1.0 / NMToMeters
	FeetToMeters = 0.3048
)

func Degrees(r float32) float32 { return r * (180 / Pi) }
func Radians(d float32) float32 { return d * (Pi / 180) }

func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Lerp(t, a, b float32) float32 { return a + t*(b-a) }

// Wavg is a convenience alias for the crossfade weighted average the
// distortion pipeline uses between overlapped chunk halves.
func Wavg(a, b, t float32) float32 { return Lerp(t, a, b) }

func Abs[T constraints.Integer | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[T constraints.Integer | constraints.Float](x T) T { return x * x }

// LerpPiecewise evaluates a piecewise-linear curve given as sorted
// (x,y) control points, clamping at the ends. This is the shape used
// throughout the service-volume and directivity curves in §4.G.
func LerpPiecewise(x float32, pts [][2]float32) float32 {
	if len(pts) == 0 {
		return 0
	}
	if x <= pts[0][0] {
		return pts[0][1]
	}
	last := pts[len(pts)-1]
	if x >= last[0] {
		return last[1]
	}
	for i := 0; i+1 < len(pts); i++ {
		x0, y0 := pts[i][0], pts[i][1]
		x1, y1 := pts[i+1][0], pts[i+1][1]
		if x >= x0 && x <= x1 {
			if x1 == x0 {
				return y0
			}
			t := (x - x0) / (x1 - x0)
			return Lerp(t, y0, y1)
		}
	}
	return last[1]
}
