// internal/propagation/shaping.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package propagation

import (
	"math"

	"github.com/skiselkov/libradio/internal/navaid"
	"github.com/skiselkov/libradio/internal/receiver"
	"github.com/skiselkov/libradio/pkg/geo"
)

const omniFilterRateHz = 1.0 / 0.25 // 250 ms time constant, spec §4.G

// FilterOmni advances signal_db_omni toward signal_db_tgt with a fixed
// 250 ms time constant, independent of the signal-level-scaled rate the
// receiver's other smoothed outputs use (spec §4.G "the floop
// continuously filters signal_db_omni toward signal_db_tgt with a 250ms
// time constant").
func FilterOmni(rn *receiver.RadioNavaid, dt float32) {
	alpha := geo.Clamp(omniFilterRateHz*dt, 0, 1)
	rn.SignalDbOmni += (rn.SignalDbTgt - rn.SignalDbOmni) * alpha
}

// Shape derives signal_db from signal_db_omni by adding the
// service-volume and directivity corrections of spec §4.G's final
// paragraph. db is consulted for the paired-LOC/opposing-LOC
// supplemental lookups; pos is the aircraft position (needed to
// recompute slant angle/ground distance for the VOR cone-of-confusion
// term).
func Shape(db *navaid.DB, rn *receiver.RadioNavaid, pos geo.Point2LL) {
	n := rn.Navaid
	db_ := rn.SignalDbOmni

	switch n.Type {
	case navaid.VOR:
		rn.SlantAngle = slantAngleDeg(pos, n.Pos)
		if rn.Propmode == int(losPropmode) {
			db_ += curve(vorAngleCurve, rn.SlantAngle)
		}
		db_ += curve(vorDistCurve, geo.DistanceM(pos, n.Pos))

	case navaid.NDB:
		rn.SlantAngle = slantAngleDeg(pos, n.Pos)
		if rn.Propmode == int(losPropmode) {
			db_ += curve(adfAngleCurve, rn.SlantAngle)
		}
		db_ += curve(adfDistCurve, geo.DistanceM(pos, n.Pos))

	case navaid.DME:
		dist := geo.DistanceM(pos, n.Pos)
		if loc := db.PairedLOC(n); loc != nil {
			locPos := loc.EffectivePos()
			db_ += curve(ilsDmeDistCurve, dist)
			rbrg := geo.RelativeHeading(loc.LOC.Brg, geo.BearingTrue(locPos, pos))
			if db.HasOpposingLOC(loc) {
				db_ += curve(locRbrgNoBcCurve, geo.Abs(rbrg))
			} else {
				db_ += curve(locRbrgCurve, geo.Abs(rbrg))
			}
		} else {
			db_ += curve(dmeDistCurve, dist)
		}

	case navaid.LOC:
		locPos := n.EffectivePos()
		dist := geo.DistanceM(pos, locPos)
		rbrg := geo.Abs(geo.RelativeHeading(n.LOC.Brg, geo.BearingTrue(locPos, pos)))
		db_ += curve(locDistCurve, dist)
		if db.HasOpposingLOC(n) {
			db_ += curve(locRbrgNoBcCurve, rbrg)
		} else {
			db_ += curve(locRbrgCurve, rbrg)
		}

	case navaid.GS:
		dist := geo.DistanceM(pos, n.Pos)
		rbrg := geo.Abs(geo.RelativeHeading(n.GS.Brg, geo.BearingTrue(n.Pos, pos)))
		db_ += curve(gsDistCurve, dist)
		db_ += curve(gsRbrgCurve, rbrg)
	}

	rn.SignalDb = db_
}

const losPropmode = 0 // same value as itm.PropmodeLOS, kept as a local untyped constant.

func slantAngleDeg(from, to geo.Point2LL) float32 {
	dist := geo.DistanceM(from, to)
	if dist < 1 {
		dist = 1
	}
	return float32(math.Atan(float64(from.Elev-to.Elev)/float64(dist))) * (180 / geo.Pi)
}
