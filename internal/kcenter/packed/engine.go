// Package packed implements the packed fully-adversarial engine (C6): a
// group of radius guesses sharing one lookup forest, where a point that
// becomes a center at one sub-level cascades upward and becomes a center
// candidate at the next (coarser) sub-level too, halving its effective
// radius once it is already marked a center elsewhere in the forest.
// Grounded function-for-function on the original's algo_packed.c.
package packed

import (
	"github.com/streamkcenter/kcenter/internal/kcenter/forest"
	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/pkg/kcenterrand"
)

// Level is one group's worth of packed lookup-forest state: nbLevel radius
// guesses doubling from a group base radius, sharing a single forest.
type Level struct {
	k       int
	nbLevel int
	radius  []float64
	f       *forest.Forest
	points  []point.Geo
	metric  point.Metric
}

// NewLevel allocates a group of nbLevel doubling radius guesses starting at
// baseRadius, over a shared, append-only backing point array.
func NewLevel(k, nbLevel int, baseRadius float64, points []point.Geo, metric point.Metric) *Level {
	radius := make([]float64, nbLevel)
	for i := range radius {
		radius[i] = baseRadius
		baseRadius *= 2
	}
	return &Level{
		k:       k,
		nbLevel: nbLevel,
		radius:  radius,
		f:       forest.New(k, nbLevel, cap(points)),
		points:  points,
		metric:  metric,
	}
}

// trueAdd attempts to place element at the given sub-level, scanning its
// existing centers in slot order. It returns true when no existing center
// took it in, meaning element itself became a (possibly halved-radius)
// center candidate that must now cascade up to the next sub-level.
func (l *Level) trueAdd(element, levelIndex int) bool {
	radius := l.radius[levelIndex]
	if l.f.IsMarkedElement(element) {
		radius /= 2
	}
	i := 0
	for ; i < l.k; i++ {
		center, ok := l.f.CenterAt(levelIndex, i)
		if !ok {
			break
		}
		if radius >= l.metric.Distance(l.points[element], l.points[center]) {
			l.f.Connect(element, levelIndex, i)
			return false
		}
	}
	l.f.Connect(element, levelIndex, i)
	return true
}

func (l *Level) add(element int) {
	i := 0
	for ; i < l.nbLevel && l.trueAdd(element, i); i++ {
	}
	if i == l.nbLevel && !l.f.IsMarkedElement(element) {
		l.f.AddHighestLeftovers(element)
	} else {
		l.f.ComputeClusters(element)
	}
}

// Add inserts element into the group: a fresh leaf is created, then the
// cascading placement pass runs across every sub-level.
func (l *Level) Add(element int) {
	l.f.CreateLeaf(element)
	l.add(element)
}

// Delete removes element. If it was a marked center, every element evicted
// from its subtree as a side effect is shuffled and greedily reinserted.
func (l *Level) Delete(element int, rng *kcenterrand.Source) {
	wasMarked, evicted := l.f.Remove(element)
	if !wasMarked {
		return
	}
	rng.Shuffle(len(evicted), func(i, j int) { evicted[i], evicted[j] = evicted[j], evicted[i] })
	for _, e := range evicted {
		l.add(e)
	}
}

// SmallestValidLevel returns the highest sub-level whose leftovers bucket is
// non-empty, the group's smallest feasible sub-level, or -1 when some
// element was placed at no sub-level or the group holds no element.
func (l *Level) SmallestValidLevel() int { return l.f.GetSmallestValidLevel() }

// NbClusters returns the number of populated cluster slots at the given
// sub-level.
func (l *Level) NbClusters(levelIndex int) int { return l.f.GetNbClusters(levelIndex) }

// Radius returns the radius guess of the given sub-level.
func (l *Level) Radius(levelIndex int) float64 { return l.radius[levelIndex] }

// Has reports whether element currently has a leaf in the group's forest,
// the context query.Provider.NextLookup resolves ADD/REMOVE against.
func (l *Level) Has(element int) bool { return l.f.HasElement(element) }
