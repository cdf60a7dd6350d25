// internal/receiver/deflection.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package receiver

import (
	"hash/fnv"
	"math"

	"github.com/skiselkov/libradio/internal/navaid"
	"github.com/skiselkov/libradio/pkg/geo"
)

const (
	maxBearingErrorDeg = 4.0
	dmeBaseErrorM      = 1000.0 // ~ light-travel over the 3.5us DME pulse width
	dmeSigmaFloor      = 1e-3

	locDdmPerSectorDeg = 0.155
	locDdmAtEdgeDeg    = 0.155 / 8
	hdefDotScale       = 0.0775
	gsDotsPerDeg       = 1 / 3.5714
)

// normalSigma shrinks toward a minimum floor as signal quality rises,
// matching spec §4.H "σ shrinks with SNR toward a minimum floor".
func normalSigma(signalDb float32) float32 {
	q := SignalQuality(signalDb)
	const floor = 0.05
	return floor + (1-floor)*(1-q)
}

// coneOfConfusion approximates the VOR overhead cone-of-confusion
// correction added to bearing as the slant angle from the antenna
// approaches vertical (spec §4.H "a cone-of-confusion term for VOR").
func coneOfConfusion(slantAngleDeg float32) float32 {
	if slantAngleDeg < 50 {
		return 0
	}
	t := geo.Clamp((slantAngleDeg-50)/40, 0, 1)
	return t * t * 20
}

// Bearing implements spec §4.H "Bearing (VOR/ADF)": true bearing to the
// winner plus a calibrated error term, plus the VOR cone-of-confusion
// correction.
func Bearing(rnd rndSource, pos geo.Point2LL, rn *RadioNavaid) float32 {
	brgTrue := geo.BearingTrue(pos, rn.Navaid.Pos)
	err := maxBearingErrorDeg * rnd.NormalFloat32(normalSigma(rn.SignalDb))
	if rn.Navaid.Type == navaid.VOR {
		err += coneOfConfusion(rn.SlantAngle)
	}
	return geo.NormalizeHeading(brgTrue + err)
}

// ADFRelativeBearing converts a true bearing to body-relative using
// aircraft heading, adding a randomized error proportional to the log
// of the off-side signal projection (spec §4.H).
func ADFRelativeBearing(rnd rndSource, brgTrue, hdg, pitch, roll float32, offSideSignalDb float32) float32 {
	rel := geo.RelativeHeading(hdg, brgTrue)
	offSide := float32(1)
	if offSideSignalDb < 0 {
		offSide = float32(math.Log10(1 + float64(-offSideSignalDb)))
	}
	rel += rnd.NormalFloat32(0.2) * offSide
	_ = pitch
	_ = roll
	return geo.NormalizeHeading(rel)
}

// Radial implements spec §4.H "Radial": bearing reversed, corrected by
// magnetic variation.
func Radial(brgTrue float32, magvar float32) float32 {
	return geo.NormalizeHeading(geo.OppositeHeading(brgTrue) + magvar)
}

// DME computes 3D slant range with calibrated random error and the
// navaid's declared bias (spec §4.H "DME").
func DME(rnd rndSource, pos geo.Point2LL, rn *RadioNavaid) float32 {
	slant := geo.SlantRangeM(pos, rn.Navaid.Pos)
	sigma := dmeBaseErrorM * float32(math.Max(float64(dmeSigmaFloor), float64(1-SignalQuality(rn.SignalDb))))
	return slant + rnd.NormalFloat32(sigma) + rn.Navaid.DME.RangeBias
}

// HdefVOR implements spec §4.H "Horizontal deflection (VOR)".
func HdefVOR(radial, obs float32) (hdef float32, toFrom bool) {
	rel := geo.RelativeHeading(obs, radial)
	if geo.Abs(rel) <= 90 {
		return geo.Clamp(geo.RelativeHeading(radial, obs)/2, -5, 5), true
	}
	return geo.Clamp(geo.RelativeHeading(geo.OppositeHeading(obs), radial)/2, -5, 5), false
}

// idSeed derives a small deterministic phase from a station id, used to
// give each LOC a repeatable, distinguishable centerline distortion
// (spec §4.H "deterministic sinusoidal distortion seeded from the LOC
// id").
func idSeed(id string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return float64(h.Sum32()%1000) / 1000 * geo.TwoPi
}

// HdefLOC implements spec §4.H "Horizontal deflection (LOC) and
// loc_ddm". brgFromLOC is the true bearing from the LOC antenna to the
// aircraft.
func HdefLOC(rnd rndSource, brgFromLOC float32, loc *navaid.Navaid, signalDb float32) (hdef, ddm float32) {
	angdev := geo.RelativeHeading(loc.LOC.Brg, brgFromLOC)
	reverseSensing := false
	if geo.Abs(angdev) > 90 {
		angdev = 180 - angdev
		reverseSensing = true
	}
	_ = reverseSensing

	sectorWidthDeg := float32(math.Atan(106.9/float64(loc.LOC.RefDatumDist))) * (180 / geo.Pi)
	innerSlope := locDdmPerSectorDeg / sectorWidthDeg

	var d float32
	absDev := geo.Abs(angdev)
	if absDev <= sectorWidthDeg {
		d = angdev * innerSlope
	} else {
		beyond := geo.Clamp((absDev-sectorWidthDeg)/8, 0, 1)
		slope := geo.Lerp(beyond, innerSlope, locDdmAtEdgeDeg)
		sign := float32(1)
		if angdev < 0 {
			sign = -1
		}
		d = sign * (sectorWidthDeg*innerSlope + (absDev-sectorWidthDeg)*slope)
	}

	dist := geo.Clamp(absDev/45, 0, 1) * 0.25
	d += dist * float32(math.Sin(idSeed(loc.ID)+float64(absDev)*0.3))

	d += innerSlope * rnd.NormalFloat32(normalSigma(signalDb))

	return d / hdefDotScale, d
}

// VdefGS implements spec §4.H "Vertical deflection and gp_ddm" in
// simplified form: slant angle from the GS antenna folded into the GS
// lobe structure (modulo 2*gs_angle), converted to dots.
func VdefGS(rnd rndSource, pos geo.Point2LL, gs *navaid.Navaid, effectiveElevM float32, signalDb float32) (vdefDeg, gpDdm, dots float32) {
	gndDist := geo.DistanceM(pos, gs.Pos)
	if gndDist < 1 {
		gndDist = 1
	}
	slantAngle := float32(math.Atan(float64(pos.Elev-effectiveElevM)/float64(gndDist))) * (180 / geo.Pi)

	lobe := gs.GS.Angle * 2
	folded := float32(math.Mod(float64(slantAngle), float64(lobe)))
	if folded < 0 {
		folded += lobe
	}
	vdefDeg = folded - gs.GS.Angle

	vdefDeg += rnd.NormalFloat32(normalSigma(signalDb)) * 0.1

	gpDdm = -vdefDeg / ((0.12 * gs.GS.Angle) / 0.0875)
	dots = vdefDeg * gsDotsPerDeg
	return vdefDeg, gpDdm, dots
}

// rndSource is the minimal interface deflection math needs from
// pkg/rand.Rand, letting tests substitute a deterministic stub.
type rndSource interface {
	NormalFloat32(sigma float32) float32
}
