// internal/propagation/curves.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package propagation

import "github.com/skiselkov/libradio/pkg/geo"

// Service-volume/directivity shaping curves: distance and relative-
// bearing control points for the attenuation lookup tables, piecewise
// linear between each pair.

const nm = geo.NMToMeters

var adfDistCurve = [][2]float32{{0 * nm, -50}, {20 * nm, -50}, {120 * nm, 0}, {130 * nm, 0}}
var vorDistCurve = [][2]float32{{0 * nm, -20}, {20 * nm, -20}, {100 * nm, 0}, {120 * nm, 0}}
var dmeDistCurve = [][2]float32{{0 * nm, 0}, {20 * nm, 0}, {100 * nm, 20}, {120 * nm, 20}}
var ilsDmeDistCurve = [][2]float32{{0 * nm, -9}, {20 * nm, -9}, {100 * nm, 11}, {120 * nm, 11}}
var locDistCurve = [][2]float32{{0 * nm, -30}, {10 * nm, -30}, {40 * nm, -20}, {50 * nm, -20}}
var gsDistCurve = [][2]float32{{0 * nm, -25}, {10 * nm, -25}, {40 * nm, -15}, {50 * nm, -15}}

var locRbrgCurve = [][2]float32{
	{0, 0}, {30, -5}, {60, -10}, {90, -20}, {120, -20}, {160, -10}, {180, -3},
}
var locRbrgNoBcCurve = [][2]float32{{0, 0}, {30, -5}, {60, -15}, {90, -30}}
var gsRbrgCurve = [][2]float32{{0, 0}, {20, -5}, {60, -10}, {90, -40}}

var vorAngleCurve = [][2]float32{
	{-5, -50}, {-2.5, -20}, {0, -10}, {10, -3}, {20, 0},
	{30, 0}, {40, -3}, {50, -10}, {60, -20}, {90, -60},
}
var adfAngleCurve = [][2]float32{
	{-5, -40}, {-2.5, -15}, {0, -5}, {10, -1}, {20, 0},
	{30, 0}, {40, -3}, {50, -5}, {60, -20}, {90, -40},
}

func curve(pts [][2]float32, x float32) float32 { return geo.LerpPiecewise(x, pts) }
