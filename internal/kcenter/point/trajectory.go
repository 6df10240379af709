package point

import (
	"github.com/paulmach/orb"
)

// Trajectory is a fixed-capacity sequence of Geo points whose full content
// is known up front (parsed from a trajectory file), but whose *visible*
// prefix only grows as queries reveal one more fix at a time, mirroring the
// original's current/max_length split: points is populated entirely by
// Load, while current (here, Reveal) advances independently at query time.
type Trajectory struct {
	line    orb.LineString
	visible int
}

// NewTrajectory allocates a trajectory with room for maxLength points, none
// visible yet.
func NewTrajectory(maxLength int) *Trajectory {
	return &Trajectory{line: make(orb.LineString, 0, maxLength)}
}

// Len returns the number of points currently revealed.
func (t *Trajectory) Len() int { return t.visible }

// Cap returns the trajectory's fixed capacity (its fully loaded length).
func (t *Trajectory) Cap() int { return cap(t.line) }

// Load appends a point to the trajectory's backing storage ahead of any
// query revealing it, matching the file parser populating every declared
// point before queries ever reference the trajectory. It panics past the
// declared capacity.
func (t *Trajectory) Load(p Geo) {
	if len(t.line) >= cap(t.line) {
		panic("kcenter/point: trajectory loaded beyond declared capacity")
	}
	t.line = append(t.line, p.Point)
}

// Reveal advances the visible prefix by one point and returns its length
// before the advance, matching add_point_trajectory's "return the previous
// size" contract. It panics if every loaded point has already been
// revealed.
func (t *Trajectory) Reveal() int {
	if t.visible >= len(t.line) {
		panic("kcenter/point: trajectory revealed beyond its loaded points")
	}
	prev := t.visible
	t.visible++
	return prev
}

// At returns the i'th revealed point of the trajectory.
func (t *Trajectory) At(i int) Geo {
	return Geo{t.line[i]}
}

// Points returns the currently revealed prefix, read-only by convention.
func (t *Trajectory) Points() orb.LineString {
	return t.line[:t.visible]
}

// Hausdorff computes the symmetric Hausdorff distance between a and b's
// revealed prefixes using the toroidal-longitude Euclidean metric on the raw
// (lat, lon) pairs as the point-to-point distance, with early-abandon
// pruning: once a point's running minimum drops below the current directed
// maximum, it cannot raise that maximum further and the inner scan moves on.
func Hausdorff(a, b *Trajectory) float64 {
	d1 := directedHausdorff(a.Points(), b.Points())
	d2 := directedHausdorff(b.Points(), a.Points())
	if d1 > d2 {
		return d1
	}
	return d2
}

func directedHausdorff(from, to orb.LineString) float64 {
	if len(from) == 0 || len(to) == 0 {
		return 0
	}
	var maxMin float64
	for _, p := range from {
		min := Euclidean.Distance(Geo{p}, Geo{to[0]})
		for _, q := range to[1:] {
			if min <= maxMin {
				// this point cannot raise maxMin any further
				break
			}
			if d := Euclidean.Distance(Geo{p}, Geo{q}); d < min {
				min = d
			}
		}
		if min > maxMin {
			maxMin = min
		}
	}
	return maxMin
}
