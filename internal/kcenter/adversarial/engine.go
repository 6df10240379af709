// Package adversarial implements the per-level engine for the fully
// adversarial regime (C5): greedy Gonzalez-style center assignment with a
// center-eviction restart when a query deletes a point that is itself a
// center. Grounded function-for-function on the original's
// algo_fully_adv.c.
package adversarial

import (
	"github.com/streamkcenter/kcenter/internal/kcenter/indexset"
	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/pkg/kcenterrand"
)

// Level is one radius guess's worth of greedy k-center state: up to k
// centers, one set per center plus an overflow set (index k) for points no
// current center covers.
type Level struct {
	k       int
	radius  float64
	nb      int
	centers []int
	trueRad []float64
	clusters *indexset.Collection
	points  []point.Geo
	metric  point.Metric
}

// NewLevel allocates a level for k centers at the given radius guess, over a
// shared, append-only backing point array. clusterSizeHint sizes each
// cluster's initial capacity (a hint only, per the original's cluster_size
// parameter to initialise_set_collection).
func NewLevel(k int, radius float64, points []point.Geo, metric point.Metric, clusterSizeHint int) *Level {
	return &Level{
		k:        k,
		radius:   radius,
		centers:  make([]int, k+1),
		trueRad:  make([]float64, k),
		clusters: indexset.NewCollection(k+1, clusterSizeHint, cap(points)),
		points:   points,
		metric:   metric,
	}
}

// NbCenters returns the number of centers currently chosen (level.nb).
func (l *Level) NbCenters() int { return l.nb }

// Radius returns this level's radius guess.
func (l *Level) Radius() float64 { return l.radius }

// Has reports whether element currently belongs to some cluster of this
// level, the context query.Provider.NextSet resolves ADD/REMOVE against.
func (l *Level) Has(element int) bool { return l.clusters.Has(element) }

// Feasible reports whether every point is within radius of some center:
// the overflow cluster (index k) is empty.
func (l *Level) Feasible() bool { return l.clusters.Card(l.k) == 0 }

// TrueRadius returns the largest radius recorded across the current
// centers. A center's entry grows to the distance of each point that joins
// its cluster and is not lowered when points are deleted, so the value is an
// upper bound on the current distance from any point to its center.
func (l *Level) TrueRadius() float64 {
	var maxRad float64
	for i := 0; i < l.nb; i++ {
		if l.trueRad[i] > maxRad {
			maxRad = l.trueRad[i]
		}
	}
	return maxRad
}

// Add runs the greedy Gonzalez assignment step for a newly inserted point:
// join the first center within radius, growing its true radius, or become a
// new center (or fall into the overflow cluster once k centers are taken).
func (l *Level) Add(index int) {
	for i := 0; i < l.nb; i++ {
		d := l.metric.Distance(l.points[index], l.points[l.centers[i]])
		if l.radius >= d {
			l.clusters.Add(i, index)
			if d > l.trueRad[i] {
				l.trueRad[i] = d
			}
			return
		}
	}
	l.clusters.Add(l.nb, index)
	if l.nb < l.k {
		l.centers[l.nb] = index
		l.trueRad[l.nb] = 0
		l.nb++
	}
}

// Delete removes a point. If it was itself a center, every cluster from
// that center's index onward is evicted and every evicted point is shuffled
// and greedily reinserted, matching the original's restart-on-eviction
// semantics (the shuffle is what keeps the restart's approximation
// guarantee valid; a fixed re-insertion order would bias against points
// near the end of the array).
func (l *Level) Delete(index int, rng *kcenterrand.Source) {
	clusterIdx := l.clusters.SetIndexOf(index)
	l.clusters.Remove(index)
	if clusterIdx >= l.k || index != l.centers[clusterIdx] {
		return
	}
	l.nb = clusterIdx
	evicted := l.clusters.RemoveAllAfter(clusterIdx)
	rng.Shuffle(len(evicted), func(i, j int) { evicted[i], evicted[j] = evicted[j], evicted[i] })
	for _, e := range evicted {
		l.Add(e)
	}
}
