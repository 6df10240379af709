// Package trajectory implements the per-level engine for the trajectory
// regime (C8): centers are themselves trajectories that keep growing as new
// GPS fixes arrive for them, so every later fix triggers an update pass
// instead of a plain insert. Grounded function-for-function on the
// original's algo_trajectories.c.
package trajectory

import (
	"github.com/streamkcenter/kcenter/internal/kcenter/indexset"
	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/pkg/kcenterrand"
)

// Level is one radius guess's worth of greedy k-center state over growing
// trajectories.
type Level struct {
	k        int
	radius   float64
	nb       int
	centers  []int
	trueRad  []float64
	clusters *indexset.Collection
	trajectories []*point.Trajectory
}

// NewLevel allocates a level for k centers at the given radius guess over a
// shared, append-only slice of trajectories.
func NewLevel(k int, radius float64, trajectories []*point.Trajectory) *Level {
	return &Level{
		k:        k,
		radius:   radius,
		centers:  make([]int, k+1),
		trueRad:  make([]float64, k),
		clusters: indexset.NewCollection(k+1, len(trajectories), cap(trajectories)),
		trajectories: trajectories,
	}
}

func (l *Level) distance(a, b int) float64 {
	return point.Hausdorff(l.trajectories[a], l.trajectories[b])
}

// NbCenters returns the number of centers currently chosen.
func (l *Level) NbCenters() int { return l.nb }

// Radius returns this level's radius guess.
func (l *Level) Radius() float64 { return l.radius }

// Feasible reports whether every trajectory is within radius of some
// center: the overflow cluster (index k) is empty.
func (l *Level) Feasible() bool { return l.clusters.Card(l.k) == 0 }

// TrueRadius returns the maximum true distance from any trajectory to its
// center, across all current centers.
func (l *Level) TrueRadius() float64 {
	var maxRad float64
	for i := 0; i < l.nb; i++ {
		if l.trueRad[i] > maxRad {
			maxRad = l.trueRad[i]
		}
	}
	return maxRad
}

// isCenter reports whether element is itself a center, and which cluster it
// heads if so.
func (l *Level) isCenter(element int) (clusterIndex int, ok bool) {
	clusterIndex = l.clusters.SetIndexOf(element)
	return clusterIndex, clusterIndex < l.k && l.centers[clusterIndex] == element
}

// Add runs the greedy Gonzalez assignment for a trajectory's first fix:
// join the first center within radius, or become a new center (or overflow
// once k centers are taken). Identical in shape to the fully-adversarial
// engine's Add, but compares under Hausdorff distance over whatever prefix
// of each trajectory has arrived so far.
func (l *Level) Add(element int) {
	for i := 0; i < l.nb; i++ {
		d := l.distance(element, l.centers[i])
		if l.radius >= d {
			l.clusters.Add(i, element)
			if d > l.trueRad[i] {
				l.trueRad[i] = d
			}
			return
		}
	}
	l.clusters.Add(l.nb, element)
	if l.nb < l.k {
		l.centers[l.nb] = element
		l.trueRad[l.nb] = 0
		l.nb++
	}
}

// Update re-evaluates element's membership after one of its later fixes
// arrived. The new fix can move element's Hausdorff distance to another
// trajectory either way: a prior assignment can stop fitting, and a
// trajectory that did not fit before can come within radius.
func (l *Level) Update(element int, rng *kcenterrand.Source) {
	clusterIndex, centered := l.isCenter(element)
	if centered {
		l.updateCenter(element, clusterIndex, rng)
	} else {
		l.updateNonCenter(element, clusterIndex)
	}
}

func (l *Level) updateNonCenter(element, clusterIndex int) {
	if clusterIndex == l.k {
		l.clusters.Remove(element)
		l.Add(element)
		return
	}
	if l.distance(element, l.centers[clusterIndex]) > l.radius {
		l.clusters.Remove(element)
		l.Add(element)
	}
}

// checkLegitCenter reports whether center is still farther than radius from
// every other current center, i.e. it may keep acting as a center.
func (l *Level) checkLegitCenter(center, clusterIndex int) bool {
	for i := 0; i < l.nb; i++ {
		if i == clusterIndex {
			continue
		}
		if l.radius >= l.distance(center, l.centers[i]) {
			return false
		}
	}
	return true
}

func (l *Level) updateCenter(center, clusterIndex int, rng *kcenterrand.Source) {
	if l.checkLegitCenter(center, clusterIndex) {
		l.iterateReverseCenter(center, clusterIndex)
		l.iterateReverseCenterTrash(center, clusterIndex)
		return
	}
	l.updateCenterRestart(center, clusterIndex, rng)
}

// iterateReverseCenter re-checks every non-center member of center's own
// cluster: its distance to center may have grown, so members that no
// longer fit are evicted and greedily reassigned.
func (l *Level) iterateReverseCenter(center, clusterIndex int) {
	members := append([]int(nil), l.clusters.Elements(clusterIndex)...)
	for _, element := range members {
		if element == center {
			continue
		}
		if !l.clusters.Has(element) || l.clusters.SetIndexOf(element) != clusterIndex {
			continue
		}
		if l.distance(center, element) > l.radius {
			l.clusters.Remove(element)
			l.Add(element)
		}
	}
}

// iterateReverseCenterTrash sweeps the overflow cluster for trajectories
// that now fit within center's radius, having grown closer as both
// trajectories accumulated fixes.
func (l *Level) iterateReverseCenterTrash(center, clusterIndex int) {
	overflow := append([]int(nil), l.clusters.Elements(l.k)...)
	for _, element := range overflow {
		if !l.clusters.Has(element) || l.clusters.SetIndexOf(element) != l.k {
			continue
		}
		d := l.distance(center, element)
		if d <= l.radius {
			l.clusters.Remove(element)
			l.clusters.Add(clusterIndex, element)
			if d > l.trueRad[clusterIndex] {
				l.trueRad[clusterIndex] = d
			}
		}
	}
}

// updateCenterRestart evicts every cluster from clusterIndex onward,
// including center's own, shuffles the collected trajectories, and greedily
// reinserts all of them followed by center itself — the same
// restart-on-eviction scheme the fully-adversarial engine uses on deletion.
func (l *Level) updateCenterRestart(center, clusterIndex int, rng *kcenterrand.Source) {
	l.clusters.Remove(center)
	l.nb = clusterIndex
	evicted := l.clusters.RemoveAllAfter(clusterIndex)
	rng.Shuffle(len(evicted), func(i, j int) { evicted[i], evicted[j] = evicted[j], evicted[i] })
	for _, e := range evicted {
		l.Add(e)
	}
	l.Add(center)
}
