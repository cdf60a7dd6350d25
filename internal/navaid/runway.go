// internal/navaid/runway.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navaid

import "github.com/skiselkov/libradio/pkg/geo"

// RunwayEnd is the airport-database service contract's per-threshold
// data (spec §6 "Airport database service contract").
type RunwayEnd struct {
	Thr geo.Point2LL
	Hdg float32 // true heading, degrees
}

// Runway exposes both ends of a physical strip; ends[0]/ends[1] are the
// two opposing thresholds.
type Runway struct {
	Ends [2]RunwayEnd
}

// AirportDB is the external collaborator contract of spec §6; this
// module only consumes it, it is not implemented here.
type AirportDB interface {
	Lookup(icao string) (airport interface{}, ok bool)
	FindRunway(airport interface{}, rwyID string) (rwy Runway, endIdx int, ok bool)
}

// AlignLocalizer performs the lazy, once-per-LOC runway alignment of
// spec §4.E: on first query touching a LOC, look up its runway; if
// found and the declared front-course agrees with the runway true
// heading to within 1 degree, recompute the corrected antenna position
// as the foot of perpendicular from the antenna onto the
// threshold-to-threshold line (on a gnomonic projection centered at the
// threshold), and adopt the runway's true heading and the LOC-to-
// threshold distance as the new reference-datum distance.
func AlignLocalizer(n *Navaid, adb AirportDB) {
	if n.Type != LOC || n.LOC.aligned {
		return
	}
	n.LOC.aligned = true

	airport, ok := adb.Lookup(n.ICAO)
	if !ok {
		return
	}
	rwy, endIdx, ok := adb.FindRunway(airport, n.LOC.Runway)
	if !ok {
		return
	}
	thr := rwy.Ends[endIdx]
	farEnd := rwy.Ends[1-endIdx]

	if geo.HeadingDifference(n.LOC.Brg, thr.Hdg) > 1 {
		return
	}

	// Foot of perpendicular from the antenna onto the threshold line,
	// computed in a local planar (east,north) frame centered on thr.
	ax, ay := geo.GnomonicProject(thr.Thr, n.Pos)
	bx, by := geo.GnomonicProject(thr.Thr, farEnd.Thr)

	lineLenSq := bx*bx + by*by
	var footX, footY float32
	if lineLenSq > 0 {
		t := (ax*bx + ay*by) / lineLenSq
		footX, footY = t*bx, t*by
	}

	n.LOC.CorrPos = geo.GnomonicUnproject(thr.Thr, footX, footY)
	n.LOC.Brg = thr.Hdg
	n.LOC.corrected = true

	dist := geo.DistanceM(n.LOC.CorrPos, thr.Thr)
	if dist < MinRefDatumDist {
		dist = MinRefDatumDist
	}
	n.LOC.RefDatumDist = dist
}

// EffectivePos returns the runway-alignment-corrected antenna position
// for a LOC that AlignLocalizer successfully corrected, or the
// database-declared position otherwise.
func (n *Navaid) EffectivePos() geo.Point2LL {
	if n.Type == LOC && n.LOC.corrected {
		return n.LOC.CorrPos
	}
	return n.Pos
}
