// pkg/geo/latlong.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import gomath "math"

// Point2LL is a geographic position: Lat/Lon in degrees, Elev in meters
// MSL. It intentionally stores lon before lat internally (matching the
// [x,y] = [lon,lat] convention used by the bearing/offset math below) but
// exposes named accessors so callers never need to remember the order.
type Point2LL struct {
	Lon, Lat float32
	Elev     float32 // meters MSL
}

func NewPoint2LL(lat, lon, elevM float32) Point2LL {
	return Point2LL{Lon: lon, Lat: lat, Elev: elevM}
}

func (p Point2LL) Latitude() float32  { return p.Lat }
func (p Point2LL) Longitude() float32 { return p.Lon }

func (p Point2LL) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180 &&
		!gomath.IsNaN(float64(p.Elev)) && !gomath.IsInf(float64(p.Elev), 0)
}

// NMPerLongitude returns the number of nautical miles spanned by one
// degree of longitude at the given latitude.
func NMPerLongitude(lat float32) float32 {
	return 60 * float32(gomath.Cos(float64(Radians(lat))))
}

// ECEF converts to earth-centered, earth-fixed Cartesian coordinates
// (meters), using the WGS84 ellipsoid. DME slant range and the ITM
// antenna geometry are both computed from ECEF differences.
func (p Point2LL) ECEF() [3]float64 {
	lat := float64(Radians(p.Lat))
	lon := float64(Radures(p.Lon))
	h := float64(p.Elev)

	sinLat, cosLat := gomath.Sincos(lat)
	sinLon, cosLon := gomath.Sincos(lon)

	n := wgs84A / gomath.Sqrt(1-wgs84E2*sinLat*sinLat)

	x := (n + h) * cosLat * cosLon
	y := (n + h) * cosLat * sinLon
	z := (n*(1-wgs84E2) + h) * sinLat
	return [3]float64{x, y, z}
}

// Radures is exactly Radians but operating in float64 to avoid losing
// precision; ECEF and the great-circle and gnomonic functions in this
// file use it for their degrees->radians conversions.
func Radures(d float32) float64 { return float64(d) * (gomath.Pi / 180) }

// DistanceM returns the great-circle surface distance between two points
// in meters (haversine formula).
func DistanceM(a, b Point2LL) float32 {
	lat1, lon1 := Radures(a.Lat), Radures(a.Lon)
	lat2, lon2 := Radures(b.Lat), Radures(b.Lon)
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	sa := gomath.Sin(dLat/2)*gomath.Sin(dLat/2) +
		gomath.Cos(lat1)*gomath.Cos(lat2)*gomath.Sin(dLon/2)*gomath.Sin(dLon/2)
	c := 2 * gomath.Atan2(gomath.Sqrt(sa), gomath.Sqrt(1-sa))
	return float32(EarthRadiusM * c)
}

func DistanceNM(a, b Point2LL) float32 { return DistanceM(a, b) * MetersToNM }

// SlantRangeM returns the 3D straight-line (ECEF) distance between two
// points, which is what a DME pulse-pair measurement actually reflects.
func SlantRangeM(a, b Point2LL) float32 {
	ea, eb := a.ECEF(), b.ECEF()
	dx, dy, dz := ea[0]-eb[0], ea[1]-eb[1], ea[2]-eb[2]
	return float32(gomath.Sqrt(dx*dx + dy*dy + dz*dz))
}

// BearingTrue returns the initial great-circle bearing from a to b, in
// degrees true, normalized to [0,360).
func BearingTrue(a, b Point2LL) float32 {
	lat1, lon1 := Radures(a.Lat), Radures(a.Lon)
	lat2, lon2 := Radures(b.Lat), Radures(b.Lon)
	dLon := lon2 - lon1
	y := gomath.Sin(dLon) * gomath.Cos(lat2)
	x := gomath.Cos(lat1)*gomath.Sin(lat2) - gomath.Sin(lat1)*gomath.Cos(lat2)*gomath.Cos(dLon)
	brg := Degrees(float32(gomath.Atan2(y, x)))
	return NormalizeHeading(brg)
}

// Offset returns the point reached by travelling distM meters from p
// along true heading hdg.
func Offset(p Point2LL, hdg, distM float32) Point2LL {
	lat1, lon1 := Radures(p.Lat), Radures(p.Lon)
	brg := float64(Radians(hdg))
	d := float64(distM) / EarthRadiusM

	lat2 := gomath.Asin(gomath.Sin(lat1)*gomath.Cos(d) + gomath.Cos(lat1)*gomath.Sin(d)*gomath.Cos(brg))
	lon2 := lon1 + gomath.Atan2(gomath.Sin(brg)*gomath.Sin(d)*gomath.Cos(lat1),
		gomath.Cos(d)-gomath.Sin(lat1)*gomath.Sin(lat2))

	return Point2LL{
		Lat: Degrees(float32(lat2)),
		Lon: Degrees(float32(lon2)),
	}
}

// Midpoint returns the interpolated position t of the way from a to b
// (t in [0,1]) by linear interpolation of lat/lon/elevation, which drifts
// off the great circle over long legs. Terrain probe sampling does not
// use it; internal/terrain interpolates along the great circle with s2.
func Midpoint(a, b Point2LL, t float32) Point2LL {
	return Point2LL{
		Lat:  Lerp(t, a.Lat, b.Lat),
		Lon:  Lerp(t, a.Lon, b.Lon),
		Elev: Lerp(t, a.Elev, b.Elev),
	}
}

// GnomonicProject projects p onto a plane tangent to the sphere at
// origin, returning local (east, north) meters. Used by the localizer
// runway-alignment computation to find the foot of perpendicular from the
// antenna onto the runway centerline with ordinary planar geometry.
func GnomonicProject(origin, p Point2LL) (east, north float32) {
	lat0, lon0 := Radures(origin.Lat), Radures(origin.Lon)
	lat, lon := Radures(p.Lat), Radures(p.Lon)

	cosC := gomath.Sin(lat0)*gomath.Sin(lat) + gomath.Cos(lat0)*gomath.Cos(lat)*gomath.Cos(lon-lon0)
	if cosC == 0 {
		cosC = 1e-9
	}
	x := gomath.Cos(lat) * gomath.Sin(lon-lon0) / cosC
	y := (gomath.Cos(lat0)*gomath.Sin(lat) - gomath.Sin(lat0)*gomath.Cos(lat)*gomath.Cos(lon-lon0)) / cosC
	return float32(x * EarthRadiusM), float32(y * EarthRadiusM)
}

// GnomonicUnproject is the inverse of GnomonicProject for small offsets;
// it's only used to turn the computed foot-of-perpendicular back into a
// lat/lon for storage as the corrected LOC position.
func GnomonicUnproject(origin Point2LL, east, north float32) Point2LL {
	rho := gomath.Hypot(float64(east), float64(north))
	if rho < 1e-6 {
		return origin
	}
	c := gomath.Atan(rho / EarthRadiusM)
	lat0, lon0 := Radures(origin.Lat), Radures(origin.Lon)
	sinC, cosC := gomath.Sincos(c)

	lat := gomath.Asin(cosC*gomath.Sin(lat0) + float64(north)*sinC*gomath.Cos(lat0)/rho)
	lon := lon0 + gomath.Atan2(float64(east)*sinC, rho*gomath.Cos(lat0)*cosC-float64(north)*gomath.Sin(lat0)*sinC)

	return Point2LL{Lat: Degrees(float32(lat)), Lon: Degrees(float32(lon))}
}
