// internal/itm/itm.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package itm wraps the Longley-Rice point-to-point-MDH routine behind
// the interface spec §4.B and §6 describe. The numerical model itself
// (irregular-terrain diffraction/troposcatter loss) is an external
// collaborator per spec §1 ("we specify its interface, not its
// internals") — Routine below is satisfied by that collaborator; this
// package owns only the calling convention, environment constants, and
// the cheap two-point reject variant.
package itm

// Polarization selects antenna polarization for the path-loss model.
type Polarization int

const (
	Horizontal Polarization = iota // VOR/LOC/GS
	Vertical                       // DME/NDB
)

// Climate is the ITU/CCIR radio climate zone; this module always uses
// ContinentalTemperate per spec §4.B.
type Climate int

const ContinentalTemperate Climate = 5

// Accuracy selects a confidence fraction in (0,1); spec §4.B always
// passes the maximum for all three accuracy knobs.
const MaxAccuracy = 0.95

// Propmode classifies the dominant propagation path (spec Glossary).
type Propmode int

const (
	PropmodeLOS Propmode = iota
	PropmodeSingleHorizonDiffraction
	PropmodeSingleHorizonTroposcatter
	PropmodeDoubleHorizonDiffraction
	PropmodeDoubleHorizonTroposcatter
)

// ResultCode distinguishes success from the model's various
// out-of-range / default-substitution outcomes (spec §6).
type ResultCode int

const (
	ResultOK ResultCode = iota
	ResultSingleParamOutOfRange
	ResultMultipleParamsOutOfRange
	ResultDefaultSubstitution
)

// Environment constants used to synthesize dielectric/conductivity
// inputs from the terrain water fraction (spec §4.G.b), matching the
// original's ITM_DIELEC_*/ITM_CONDUCT_* ground/water presets.
const (
	DielectricGroundAvg   = 15.0
	DielectricWaterFresh  = 80.0
	ConductivityGroundAvg = 0.005
	ConductivityWaterFresh = 0.01
	ConductivityWaterSalt  = 5.0
	SurfaceRefractivityAvg = 301.0
)

// Result is the output of a point-to-point-MDH call.
type Result struct {
	DbLoss   float64 // positive, dB
	Propmode Propmode
	DeltaH   float64
	Code     ResultCode
}

// Routine is the external Longley-Rice collaborator contract (spec §6
// "ITM service contract"). elevM is the terrain profile sampled at
// uniform spacing along the path; distM is the total path length.
type Routine interface {
	PointToPointMDH(elevM []float32, distM float64, ht1M, ht2M float64,
		dielectric, conductivity, surfaceRefractivity float64,
		freqMHz float64, climate Climate, pol Polarization,
		timeAccur, locAccur, confAccur float64) Result
}

// Adapter binds a Routine with the fixed environment/accuracy choices
// spec §4.B and §4.G make for every call in this module.
type Adapter struct {
	Routine Routine
}

// PointToPointMDH clamps freqMHz to the model's minimum (20 MHz, spec
// §4.B) and forwards to the underlying Routine with the fixed
// continental-temperate climate and max-accuracy confidence inputs.
func (a Adapter) PointToPointMDH(elevM []float32, distM, ht1M, ht2M,
	dielectric, conductivity, surfaceRefractivity, freqMHz float64, pol Polarization) Result {
	if freqMHz < 20 {
		freqMHz = 20
	}
	return a.Routine.PointToPointMDH(elevM, distM, ht1M, ht2M,
		dielectric, conductivity, surfaceRefractivity, freqMHz,
		ContinentalTemperate, pol, MaxAccuracy, MaxAccuracy, MaxAccuracy)
}

// QuickReject is the "2-point flat" cheap variant of spec §4.B: a
// zero-relief, zero-water two-point call used purely as a best-case
// lower bound on path loss, to reject candidates whose best case
// already falls below the noise floor before paying for a full terrain
// probe and a full ITM call (supplemental feature, see SPEC_FULL.md).
func (a Adapter) QuickReject(distM, ht1M, ht2M, freqMHz float64, pol Polarization, noiseFloorDb float64) (reject bool, bestCaseDb float64) {
	flat := make([]float32, 2)
	res := a.PointToPointMDH(flat, distM, ht1M, ht2M,
		DielectricGroundAvg, ConductivityGroundAvg, SurfaceRefractivityAvg, freqMHz, pol)
	bestCaseDb = 92 - res.DbLoss
	return bestCaseDb < noiseFloorDb, bestCaseDb
}
