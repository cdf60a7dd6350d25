// internal/terrain/terrain.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package terrain adapts the external terrain-elevation service (spec
// §4.A, §6 "Terrain-probe service contract") into the polyline profile
// shape the propagation worker (§4.G) and the ITM adapter (§4.B) need:
// evenly spaced samples between two points, each carrying an elevation
// and a water fraction.
package terrain

import (
	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/stat"

	"github.com/skiselkov/libradio/pkg/geo"
)

const (
	MaxPoints = 600
	SpacingM  = 250
	MinDistM  = 1000
	MaxDistM  = 1_000_000
)

// Probe is the external collaborator contract: given an ordered
// sequence of points, it returns elevation (m MSL) and water fraction
// [0,1] for each.
type Probe interface {
	Sample(pts []geo.Point2LL, filterLinear bool) (elevM, water []float32)
}

// Profile is a sampled great-circle polyline between two points.
type Profile struct {
	Points []geo.Point2LL
	ElevM  []float32
	Water  []float32
	DistM  float32
}

// Sample builds the polyline between a and b (spacing 250 m, clamped to
// [2,600] points per spec §4.G.a) and queries probe for it. Points are
// interpolated with spherical (great-circle) interpolation via
// golang/geo's s2 package rather than the planar lerp in pkg/geo, since
// propagation legs can run out to 300 NM where the flat approximation
// visibly bows off the true great circle.
func Sample(probe Probe, a, b geo.Point2LL, filterLinear bool) Profile {
	dist := geo.Clamp(geo.DistanceM(a, b), MinDistM, MaxDistM)
	n := int(geo.Clamp(dist/SpacingM, 2, MaxPoints))

	pa := s2.PointFromLatLng(s2.LatLngFromDegrees(float64(a.Lat), float64(a.Lon)))
	pb := s2.PointFromLatLng(s2.LatLngFromDegrees(float64(b.Lat), float64(b.Lon)))

	pts := make([]geo.Point2LL, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		p := s2.Interpolate(t, pa, pb)
		ll := s2.LatLngFromPoint(p)
		pts[i] = geo.Point2LL{
			Lat: float32(ll.Lat.Degrees()),
			Lon: float32(ll.Lng.Degrees()),
			// Placeholder: the linearly interpolated aircraft/navaid
			// altitude, replaced by the probe's elevation below.
			Elev: geo.Lerp(float32(t), a.Elev, b.Elev),
		}
	}

	elev, water := probe.Sample(pts, filterLinear)
	for i := range pts {
		pts[i].Elev = elev[i]
	}

	return Profile{Points: pts, ElevM: elev, Water: water, DistM: dist}
}

// WaterFraction averages the profile's per-point water fraction,
// clamped to [0,1] (spec §4.G.b).
func (p Profile) WaterFraction() float32 {
	if len(p.Water) == 0 {
		return 0
	}
	water64 := make([]float64, len(p.Water))
	for i, w := range p.Water {
		water64[i] = float64(w)
	}
	return geo.Clamp(float32(stat.Mean(water64, nil)), 0, 1)
}
