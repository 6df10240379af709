// Package sliding implements the per-level engine for the sliding-window
// regime (C7): points expire out of the window as later points arrive, and
// cluster membership is tracked lazily through an attraction/orphan scheme
// instead of being recomputed from scratch on every query. Grounded
// function-for-function on the original's algo_sliding.c.
package sliding

import "github.com/streamkcenter/kcenter/internal/kcenter/point"

const noOrphan = -1

// Level is one radius guess's worth of sliding-window state. Points that
// arrive within radius of an existing "attraction" point are folded into it
// (elements[p] points at the attraction); points that arrive outside every
// attraction's radius become new attractions of their own, up to k+1 of
// them. Once an attraction expires out of the window, whichever point it
// was most recently representing becomes an orphan that compute_centers
// must re-home on the next pass.
type Level struct {
	k      int
	radius float64

	elements []int // elements[p] = the attraction point p currently defers to
	attr     []int // circular buffer of up to k+1 attraction point ids
	firstAttr int
	attrNb    int
	repr      []int // repr[i] = most recent element currently deferring to attr[i]

	orphans []int // sparse: expired attraction's last representative, pending re-homing
	parents []int // orphans[i]'s original attraction point

	centers   []int // up to k+1 centers, recomputed by ComputeCenters
	clusterNb int
	spPoints  []int // slot -> chosen center, indexed [0,k+1) for attr slots and [k+1,2k+3) for orphan slots

	firstPoint int
	lastPoint  int

	points []point.Timestamped
	metric point.Metric
}

// NewLevel allocates a level for k clusters at the given radius guess over a
// shared, append-only backing point array.
func NewLevel(k int, radius float64, points []point.Timestamped, metric point.Metric) *Level {
	l := &Level{
		k:        k,
		radius:   radius,
		elements: make([]int, len(points)),
		attr:     make([]int, k+1),
		repr:     make([]int, k+1),
		orphans:  make([]int, k+2),
		parents:  make([]int, k+2),
		centers:  make([]int, k+1),
		spPoints: make([]int, 2*k+3),
		points:   points,
		metric:   metric,
	}
	for i := range l.orphans {
		l.orphans[i] = noOrphan
		l.parents[i] = noOrphan
	}
	return l
}

func (l *Level) distance(a, b int) float64 {
	return l.metric.Distance(l.points[a].Point, l.points[b].Point)
}

func (l *Level) removeExpiredOrphans(firstPoint int) {
	for i := range l.orphans {
		if l.orphans[i] != noOrphan && l.orphans[i] < firstPoint {
			l.orphans[i] = noOrphan
			l.parents[i] = noOrphan
		}
	}
}

func (l *Level) createOrphanSimple(parent, orphan int) {
	if parent == orphan {
		return
	}
	for i := range l.orphans {
		if l.orphans[i] == noOrphan {
			l.orphans[i] = orphan
			l.parents[i] = parent
			return
		}
	}
	panic("sliding: orphan table full, should never happen")
}

func (l *Level) createOrphanComplex(parent, orphan int) {
	if parent == orphan {
		return
	}
	for i := range l.orphans {
		if l.orphans[i] == noOrphan {
			l.orphans[i] = orphan
			l.parents[i] = parent
			return
		}
	}
	l.removeExpiredOrphans(l.attr[l.firstAttr])
	for i := range l.orphans {
		if l.orphans[i] == noOrphan {
			l.orphans[i] = orphan
			l.parents[i] = parent
			return
		}
	}
	panic("sliding: orphan table full after eviction, should never happen")
}

func (l *Level) removeExpiredAttraction() {
	for l.attrNb > 0 && l.attr[l.firstAttr] < l.firstPoint {
		orphan := l.repr[l.firstAttr]
		parent := l.attr[l.firstAttr]
		l.attr[l.firstAttr] = noOrphan
		l.repr[l.firstAttr] = noOrphan
		l.firstAttr = (l.firstAttr + 1) % (l.k + 1)
		l.attrNb--
		if orphan >= l.firstPoint {
			l.createOrphanSimple(parent, orphan)
		}
	}
}

func (l *Level) removeExpiredPoints(expDate int) {
	l.removeExpiredOrphans(expDate)
	l.removeExpiredAttraction()
}

func (l *Level) addCluster(element int) {
	if l.attrNb > l.k {
		orphan := l.repr[l.firstAttr]
		parent := l.attr[l.firstAttr]
		l.firstAttr = (l.firstAttr + 1) % (l.k + 1)
		l.attrNb--
		l.createOrphanComplex(parent, orphan)
	}
	if l.attrNb > l.k-1 {
		l.removeExpiredOrphans(l.attr[l.firstAttr])
	}
	l.elements[element] = element
	slot := (l.firstAttr + l.attrNb) % (l.k + 1)
	l.attr[slot] = element
	l.repr[slot] = element
	l.attrNb++
}

func (l *Level) computeCentersFor(element, slot int) (overflowed bool) {
	for i := 0; i < l.clusterNb; i++ {
		if l.radius >= l.distance(element, l.centers[i]) {
			l.spPoints[slot] = l.centers[i]
			return false
		}
	}
	if l.clusterNb == l.k {
		return true
	}
	l.centers[l.clusterNb] = element
	l.clusterNb++
	l.spPoints[slot] = element
	return false
}

// ComputeCenters recomputes the level's live center set from the current
// attraction/orphan state, from scratch on every call. When more than k
// attractions are live it returns at once with no center computed, and
// Feasible reports false through the attraction count.
func (l *Level) ComputeCenters() {
	l.clusterNb = 0
	if l.attrNb > l.k {
		return
	}
	index := l.firstAttr
	for i := 0; i < l.attrNb; i++ {
		l.centers[l.clusterNb] = l.attr[index]
		l.clusterNb++
		l.spPoints[index] = l.attr[index]
		index = (index + 1) % (l.k + 1)
	}
	for i := range l.orphans {
		if l.orphans[i] == noOrphan {
			continue
		}
		if l.computeCentersFor(l.orphans[i], i+l.k+1) {
			l.centers[l.clusterNb] = l.orphans[i]
			l.clusterNb = l.k + 1
			return
		}
	}
}

// Add slides the window forward to include element, expiring any points
// whose expiration date has passed, then folds element into the nearest
// attraction within radius or starts a new attraction for it.
func (l *Level) Add(element int) {
	l.lastPoint = element + 1
	for l.firstPoint <= element && l.points[element].InDate >= l.points[l.firstPoint].ExpDate {
		l.firstPoint++
	}
	l.removeExpiredPoints(l.firstPoint)

	var flag bool
	var dMin float64
	var iMin int
	index := l.firstAttr
	for i := 0; i < l.attrNb; i++ {
		tmp := l.distance(element, l.attr[index])
		if l.radius >= tmp {
			if !flag || dMin > tmp {
				flag = true
				dMin = tmp
				iMin = index
			}
		}
		index = (index + 1) % (l.k + 1)
	}
	if !flag {
		l.addCluster(element)
	} else {
		l.elements[element] = l.attr[iMin]
		l.repr[iMin] = element
	}
}

// FindCluster returns element's current cluster index into Centers, by
// walking its attraction parent and, if that parent itself expired into an
// orphan, the orphan's resolved representative center.
func (l *Level) FindCluster(element int) int {
	parent := l.elements[element]
	for i := 0; i < l.clusterNb; i++ {
		if parent == l.centers[i] {
			return i
		}
	}
	for i := range l.orphans {
		if l.orphans[i] != noOrphan && l.parents[i] == parent {
			center := l.spPoints[l.k+1+i]
			for j := 0; j < l.clusterNb; j++ {
				if center == l.centers[j] {
					return j
				}
			}
			panic("sliding: orphan resolved to an unknown center")
		}
	}
	panic("sliding: element has no resolvable cluster")
}

// Feasible reports whether the level currently holds at most k clusters,
// the condition sliding_get_index_smallest checks on both the raw
// attraction count and the most recently computed cluster count.
func (l *Level) Feasible() bool {
	return l.attrNb < l.k+1 && l.clusterNb < l.k+1
}

// Centers returns the level's currently computed centers.
func (l *Level) Centers() []int { return l.centers[:l.clusterNb] }

// Radius returns this level's radius guess.
func (l *Level) Radius() float64 { return l.radius }

// NbAttractions returns the level's current raw attraction count
// (attr_nb), the quantity sliding_get_index_smallest checks first.
func (l *Level) NbAttractions() int { return l.attrNb }

// NbClusters returns the level's currently computed cluster count.
func (l *Level) NbClusters() int { return l.clusterNb }

// Window reports the current [firstPoint, lastPoint) window bounds.
func (l *Level) Window() (first, last int) { return l.firstPoint, l.lastPoint }

// TrueRadius returns the maximum true distance from any live point in the
// window to its resolved center.
func (l *Level) TrueRadius() float64 {
	var maxRad float64
	for i := l.firstPoint; i < l.lastPoint; i++ {
		c := l.centers[l.FindCluster(i)]
		if d := l.distance(i, c); d > maxRad {
			maxRad = d
		}
	}
	return maxRad
}
