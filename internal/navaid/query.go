// internal/navaid/query.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navaid

import (
	gomath "math"
	"sort"

	"github.com/skiselkov/libradio/pkg/geo"
)

// Query is the bounded spatial/frequency filter of spec §4.F: a
// lat/lon half-window around center, narrowed by id/freq/type.
type Query struct {
	Center   geo.Point2LL
	RadiusM  float32
	ID       string // "" = no filter
	FreqHz   int64  // 0 = no filter
	HasFreq  bool
	Type     Type // 0 = no filter (all types)
	HasType  bool
}

// Query binary-searches the latitude-ordered index for the entries
// inside the latitude window around Center, skips those outside the
// longitude window, then filters the rest by id/freq/type and by true
// great-circle distance (a lat/lon bounding box in place of the
// original's lat-OR-lon "plus" shaped window: see DESIGN.md).
func (db *DB) Query(q Query) []*Navaid {
	db.mu.RLock()
	defer db.mu.RUnlock()

	latSpacing := (q.RadiusM / (geo.EarthRadiusM * geo.TwoPi)) * 360
	lonSpacing := (q.RadiusM / (float32(gomath.Cos(float64(geo.Radians(q.Center.Lat)))) * geo.EarthRadiusM * geo.TwoPi)) * 360

	minLat, maxLat := q.Center.Lat-latSpacing, q.Center.Lat+latSpacing
	minLon, maxLon := q.Center.Lon-lonSpacing, q.Center.Lon+lonSpacing

	lo := sort.Search(len(db.byLat), func(i int) bool { return db.byLat[i].Pos.Lat >= minLat })
	hi := sort.Search(len(db.byLat), func(i int) bool { return db.byLat[i].Pos.Lat > maxLat })

	seen := make(map[*Navaid]bool, hi-lo)
	var out []*Navaid
	for _, nav := range db.byLat[lo:hi] {
		if nav.Pos.Lon < minLon || nav.Pos.Lon > maxLon {
			continue
		}
		if !q.matches(nav) {
			continue
		}
		if geo.DistanceM(q.Center, nav.Pos) > q.RadiusM {
			continue
		}
		if !seen[nav] {
			seen[nav] = true
			out = append(out, nav)
		}
	}
	return out
}

func (q Query) matches(n *Navaid) bool {
	if q.ID != "" && q.ID != n.ID {
		return false
	}
	if q.HasFreq && q.FreqHz != n.FreqHz {
		return false
	}
	if q.HasType && n.Type&q.Type == 0 {
		return false
	}
	return true
}

// GetElev returns the cached terrain elevation for nav, populating it
// via probe on first access (spec §4.E "a per-navaid xp_elev cache
// field is lazily populated").
func (db *DB) GetElev(nav *Navaid, probe func(geo.Point2LL) float32) float32 {
	if m, ok := nav.cachedElev(); ok {
		return m
	}
	m := probe(nav.Pos)
	nav.setCachedElev(m)
	return m
}
