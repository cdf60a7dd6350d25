// internal/receiver/floop.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package receiver

import (
	gomath "math"

	"github.com/skiselkov/libradio/internal/navaid"
	"github.com/skiselkov/libradio/pkg/geo"
)

// Loop holds the per-radio lock-delay and filter state the fast floop
// tick needs across calls, kept separate from Radio itself so Radio
// stays a plain data record the worker and the public API can also
// touch directly.
type Loop struct {
	brgLock, dmeLock, defLock, adfLock *LockDelay

	hdefFilt, vdefFilt, locDdmFilt, gpDdmFilt *IIRFilter
	brgFilt, dmeFilt, signalFilt              *IIRFilter
	vdefRatePrev                              float32
}

func NewLoop() *Loop {
	return &Loop{
		brgLock: NewLockDelay(LockDelayVLOC.Seconds()),
		dmeLock: NewLockDelay(LockDelayDME.Seconds()),
		defLock: NewLockDelay(LockDelayVLOC.Seconds()),
		adfLock: NewLockDelay(LockDelayADF.Seconds()),

		hdefFilt:   &IIRFilter{},
		vdefFilt:   &IIRFilter{},
		locDdmFilt: &IIRFilter{},
		gpDdmFilt:  &IIRFilter{},
		brgFilt:    &IIRFilter{},
		dmeFilt:    &IIRFilter{},
		signalFilt: &IIRFilter{},
	}
}

const (
	baseFilterRate = 4.0 // Hz, per spec §4.H "Filtering"

	identDelayMin = 5.0
	identDelayMax = 10.0
)

// Pose is the minimal aircraft state the receiver tick needs.
type Pose struct {
	Pos            geo.Point2LL
	MagVar         float32
	Hdg, Pitch, Roll float32
	NowT           float64
}

// Tick runs one floop pass for the radio: detects frequency changes,
// selects a winner per candidate set, and updates every filtered output
// (spec §4.H). Must be called with r.Mu held by the caller.
func (l *Loop) Tick(r *Radio, newFreq int64, pose Pose, dt float32) {
	if newFreq != r.Freq {
		r.Freq = newFreq
		r.FreqChgT = pose.NowT
		r.IdentDelay = identDelayMin + r.Rnd.Float64()*(identDelayMax-identDelayMin)
	}

	switch r.Type {
	case TypeVLOC:
		l.tickVLOC(r, pose, dt)
	case TypeADF:
		l.tickADF(r, pose, dt)
	case TypeDME:
		l.tickDME(r, pose, dt)
	}
}

func (l *Loop) tickVLOC(r *Radio, pose Pose, dt float32) {
	winnerVL, _ := Select(r.VORLOC)
	settled := l.brgLock.Update(winnerVL, pose.NowT)

	if winnerVL == nil || !settled {
		r.Brg = float32(gomath.NaN())
		r.SignalDb = float32(gomath.NaN())
	} else {
		var brg float32
		if r.BrgOverride != nil {
			brg = *r.BrgOverride
		} else {
			brg = Bearing(r.Rnd, pose.Pos, winnerVL)
		}
		r.Brg = l.brgFilt.Step(brg, baseFilterRate, winnerVL.SignalDb, dt)
		r.SignalDb = l.signalFilt.Step(winnerVL.SignalDb, baseFilterRate, winnerVL.SignalDb, dt)

		if winnerVL.Navaid.Type == navaid.VOR {
			radial := Radial(BearingFromWinner(pose.Pos, winnerVL), winnerVL.Navaid.VOR.MagVar)
			r.HdefPilot, r.TofromPilot = HdefVOR(radial, r.OBS)
			r.HdefCopilot, r.TofromCopilot = r.HdefPilot, r.TofromPilot
		} else if winnerVL.Navaid.Type == navaid.LOC {
			brgFromLOC := geo.BearingTrue(winnerVL.Navaid.EffectivePos(), pose.Pos)
			hdef, ddm := HdefLOC(r.Rnd, brgFromLOC, winnerVL.Navaid, winnerVL.SignalDb)
			r.HdefPilot = l.hdefFilt.Step(hdef, baseFilterRate, winnerVL.SignalDb, dt)
			r.HdefCopilot = r.HdefPilot
			r.LocDDM = l.locDdmFilt.Step(ddm, baseFilterRate, winnerVL.SignalDb, dt)
			r.LocFcrs = winnerVL.Navaid.LOC.Brg
		}
	}

	winnerGS, _ := Select(r.GS)
	settledDef := l.defLock.Update(winnerGS, pose.NowT)
	if winnerGS == nil || !settledDef {
		r.Vdef = float32(gomath.NaN())
		r.VdefRate = 0
	} else {
		effectiveElev := winnerGS.EffectiveElevM
		if effectiveElev == 0 {
			effectiveElev = winnerGS.Navaid.Pos.Elev
		}
		vdef, gpDdm, _ := VdefGS(r.Rnd, pose.Pos, winnerGS.Navaid, effectiveElev, winnerGS.SignalDb)
		newVdef := l.vdefFilt.Step(vdef, baseFilterRate, winnerGS.SignalDb, dt)
		if dt > 0 {
			r.VdefRate = (newVdef - r.Vdef) / dt
		}
		r.Vdef = newVdef
		r.GPDDM = l.gpDdmFilt.Step(gpDdm, baseFilterRate, winnerGS.SignalDb, dt)
		r.GS_ = winnerGS.Navaid.GS.Angle
	}
}

func (l *Loop) tickADF(r *Radio, pose Pose, dt float32) {
	winner, _ := Select(r.NDB)
	settled := l.adfLock.Update(winner, pose.NowT)
	if winner == nil || !settled {
		r.Brg = float32(gomath.NaN())
		r.SignalDb = float32(gomath.NaN())
		return
	}
	r.SignalDb = l.signalFilt.Step(winner.SignalDb, baseFilterRate, winner.SignalDb, dt)

	if r.ADFMode == ADFModeAntenna {
		r.Brg = 90
		return
	}
	brgTrue := BearingFromWinner(pose.Pos, winner)
	rel := ADFRelativeBearing(r.Rnd, brgTrue, pose.Hdg, pose.Pitch, pose.Roll, winner.SignalDb)
	r.Brg = l.brgFilt.Step(rel, baseFilterRate, winner.SignalDb, dt)
}

func (l *Loop) tickDME(r *Radio, pose Pose, dt float32) {
	winner, _ := Select(r.DME)
	settled := l.dmeLock.Update(winner, pose.NowT)
	if winner == nil || !settled {
		r.DME_ = float32(gomath.NaN())
		r.SignalDb = float32(gomath.NaN())
		return
	}
	dist := DME(r.Rnd, pose.Pos, winner)
	r.DME_ = l.dmeFilt.Step(dist, baseFilterRate, winner.SignalDb, dt)
	r.SignalDb = l.signalFilt.Step(winner.SignalDb, baseFilterRate, winner.SignalDb, dt)
}

// BearingFromWinner is the true bearing from the aircraft to a winning
// candidate's navaid, a small helper shared by the VOR/ADF/radial paths.
func BearingFromWinner(pos geo.Point2LL, rn *RadioNavaid) float32 {
	return geo.BearingTrue(pos, rn.Navaid.Pos)
}

// HaveBearing reports whether the radio currently has a valid (non-NaN)
// bearing, matching the original's navrad_have_bearing.
func (r *Radio) HaveBearing() bool {
	return !gomath.IsNaN(float64(r.Brg))
}

// IsLOC reports whether the VLOC radio is currently tuned to a
// localizer-band frequency (spec's navrad_is_loc).
func (r *Radio) IsLOC() bool {
	return navaid.LOC.ValidFreq(r.Freq)
}
