// Package point provides the geometric primitives every k-center engine
// clusters over: raw (lat, lon) points under one of two metrics, and
// append-only trajectories compared under Hausdorff distance.
package point

import (
	"math"

	"github.com/paulmach/orb"
)

// Geo is a raw (latitude, longitude) point, backed by orb.Point so the
// trajectory engine can build orb.LineString values directly out of the
// same storage.
type Geo struct {
	orb.Point // [0]=longitude, [1]=latitude, per orb's (X, Y) convention
}

// NewGeo builds a Geo point from a latitude/longitude pair in degrees.
func NewGeo(lat, lon float64) Geo {
	return Geo{orb.Point{lon, lat}}
}

// Lat returns the latitude in degrees.
func (g Geo) Lat() float64 { return g.Point[1] }

// Lon returns the longitude in degrees.
func (g Geo) Lon() float64 { return g.Point[0] }

// Timestamped pairs a Geo point with the half-open validity window
// [InDate, ExpDate) it is live for, for the sliding-window engine (C7).
type Timestamped struct {
	Point  Geo
	InDate uint32
	ExpDate uint32
}

// Metric selects which of the two distance functions below an engine uses.
// Both are grounded on the original point.c rather than invented: plain
// Euclidean distance does not behave sensibly across the antimeridian, so
// the reference implementation wraps longitude; great-circle distance is
// the angular distance on the unit sphere (not a meters-scaled haversine),
// valid only once coordinates are translated to radians.
type Metric int

const (
	// Euclidean is the toroidal-longitude Euclidean distance of the
	// original's euclidean_distance: the longitude term takes the shorter
	// of the direct and wrap-around differences.
	Euclidean Metric = iota
	// GreatCircle is the unit-sphere angular distance of the original's
	// great_circle_distance, via the spherical law of cosines.
	GreatCircle
)

// Distance computes the distance between a and b under m.
func (m Metric) Distance(a, b Geo) float64 {
	switch m {
	case GreatCircle:
		return greatCircleDistance(a, b)
	default:
		return euclideanDistance(a, b)
	}
}

func euclideanDistance(a, b Geo) float64 {
	dLat := a.Lat() - b.Lat()
	dLon := math.Abs(a.Lon() - b.Lon())
	if wrapped := 360 - dLon; wrapped < dLon {
		dLon = wrapped
	}
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// greatCircleDistance reproduces the original's great_circle_distance: it
// assumes both points have already been translated to radians, so points
// built from NewGeo (degrees) are translated internally here.
func greatCircleDistance(a, b Geo) float64 {
	aLat, aLon := toRadians(a)
	bLat, bLon := toRadians(b)

	cosAngle := math.Sin(aLat)*math.Sin(bLat) +
		math.Cos(aLat)*math.Cos(bLat)*math.Cos(aLon-bLon)
	// Guard against acos domain errors from floating-point overshoot at
	// coincident or antipodal points.
	if cosAngle > 1 {
		cosAngle = 1
	} else if cosAngle < -1 {
		cosAngle = -1
	}
	return math.Acos(cosAngle)
}

func toRadians(p Geo) (lat, lon float64) {
	return p.Lat() * math.Pi / 180, p.Lon() * math.Pi / 180
}
