/*------------------------------------------------------------------------------
* geo.go : geographic points, great-circle geometry, Coriolis
*
*          Geographic-point/spherical-azimuth geometry the vortex evaluator
*          needs, layered on paulmach/orb's spherical primitives for the
*          haversine distance and forward-azimuth core, rescaled by a local
*          ellipsoidal Earth radius rather than a fixed spherical one.
*-----------------------------------------------------------------------------*/

package gahm

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Point is (longitude, latitude) in degrees.
type Point struct {
	X, Y float64 // longitude, latitude (degrees)
}

func (p Point) orb() orb.Point { return orb.Point{p.X, p.Y} }

// Lerp linearly interpolates two Points componentwise
// (StormPosition.interpolate); longitude is not wrapped at the antimeridian.
func Lerp(a, b Point, w float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*w,
		Y: a.Y + (b.Y-a.Y)*w,
	}
}

// EarthRadiusAt returns the geodetic ellipsoidal Earth radius at latitude
// latDeg.
func EarthRadiusAt(latDeg float64) float64 {
	phi := latDeg * D2R
	a, b := EarthRadiusEq, EarthRadiusPo
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
	num := math.Pow(a*a*cosPhi, 2) + math.Pow(b*b*sinPhi, 2)
	den := math.Pow(a*cosPhi, 2) + math.Pow(b*sinPhi, 2)
	return math.Sqrt(num / den)
}

// Coriolis returns f = 2*Omega*sin(lat) at latitude latDeg.
func Coriolis(latDeg float64) float64 {
	return 2.0 * EarthOmega * math.Sin(latDeg*D2R)
}

// GreatCircleDistance returns the haversine great-circle distance in meters
// between two Points, using the ellipsoidal radius evaluated at the mean
// latitude of the pair. orb/geo.DistanceHaversine uses a fixed
// sphere radius internally; we rescale its unit-sphere central angle by
// our own locally-evaluated radius so the specified ellipsoidal formula is
// the one that actually determines the returned distance.
func GreatCircleDistance(a, b Point) float64 {
	const orbSphereRadius = 6378137.0 // orb.EarthRadius, the radius orb/geo assumes (m)
	unitDistance := geo.DistanceHaversine(a.orb(), b.orb()) / orbSphereRadius
	r := EarthRadiusAt((a.Y + b.Y) / 2.0)
	return unitDistance * r
}

// ForwardAzimuth returns the initial bearing in radians, normalized to
// [0, 2*Pi), from point `from` towards point `to`.
func ForwardAzimuth(from, to Point) float64 {
	bearingDeg := geo.Bearing(from.orb(), to.orb()) // orb returns [-180, 180], 0 = north
	rad := bearingDeg * D2R
	if rad < 0 {
		rad += 2 * Pi
	}
	return rad
}

// NormalizeAngle wraps a radian angle into [0, 2*Pi).
func NormalizeAngle(a float64) float64 {
	const twoPi = 2 * Pi
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

// LerpAngle interpolates two angles (radians) through their sine/cosine
// components, never linearly on the raw angle.
func LerpAngle(a, b float64, w float64) float64 {
	x := (1-w)*math.Cos(a) + w*math.Cos(b)
	y := (1-w)*math.Sin(a) + w*math.Sin(b)
	return NormalizeAngle(math.Atan2(y, x))
}
