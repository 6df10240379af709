// Package ladder wires the four per-regime engines into the radius ladder
// (C9): an ordered array of radius guesses is built once per run, every
// query is dispatched to every guess, and the smallest-index feasible guess
// is selected and logged. Grounded on the original's
// {algo_fully_adv,algo_sliding,algo_packed,algo_trajectories}.c driver loops
// (*_k_center_run, *_write_log, *_get_index_smallest).
package ladder

import (
	"fmt"
	"math"
	"os"

	"github.com/streamkcenter/kcenter/internal/kcenter/adversarial"
	"github.com/streamkcenter/kcenter/internal/kcenter/packed"
	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/internal/kcenter/query"
	"github.com/streamkcenter/kcenter/internal/kcenter/sliding"
	"github.com/streamkcenter/kcenter/internal/kcenter/trajectory"
	"github.com/streamkcenter/kcenter/pkg/kcentererrors"
	"github.com/streamkcenter/kcenter/pkg/kcenterio"
	"github.com/streamkcenter/kcenter/pkg/kcenterrand"
)

// NbInstances returns the radius ladder's length: one degenerate
// zero-radius level plus enough geometrically spaced guesses to cover
// [d_min, d_max] at ratio (1+eps).
func NbInstances(eps, dMin, dMax float64) int {
	return 1 + int(math.Ceil(math.Log(dMax/dMin)/math.Log(1+eps)))
}

// RadiusLadder returns the ladder's radius guesses: r[0] = 0, then
// r[1] = dMin, growing by a factor of (1+eps) at each subsequent level.
func RadiusLadder(eps, dMin, dMax float64) []float64 {
	n := NbInstances(eps, dMin, dMax)
	r := make([]float64, n)
	d := dMin
	for i := 1; i < n; i++ {
		r[i] = d
		d *= 1 + eps
	}
	return r
}

// AdversarialLadder runs the fully-adversarial engine (C5) across every
// radius guess, consuming queries and logging the smallest feasible guess
// after each one.
type AdversarialLadder struct {
	levels   []*adversarial.Level
	rng      *kcenterrand.Source
	log      *kcenterio.LogWriter
	nbPoints int
}

// NewAdversarialLadder builds a ladder of k-center levels over points,
// under metric, with cluster-size hints for the underlying set collections.
func NewAdversarialLadder(k int, eps, dMin, dMax float64, points []point.Geo, metric point.Metric, clusterSizeHint int, rng *kcenterrand.Source, log *kcenterio.LogWriter) *AdversarialLadder {
	radii := RadiusLadder(eps, dMin, dMax)
	levels := make([]*adversarial.Level, len(radii))
	for i, r := range radii {
		levels[i] = adversarial.NewLevel(k, r, points, metric, clusterSizeHint)
	}
	return &AdversarialLadder{levels: levels, rng: rng, log: log}
}

func (d *AdversarialLadder) getIndexSmallest() int {
	for i, l := range d.levels {
		if l.Feasible() {
			return i
		}
	}
	return len(d.levels)
}

// Run drains queries, dispatching each to every level and logging the
// resulting selection, until the provider is exhausted or an I/O error
// occurs. ALL_LEVELS_INFEASIBLE is reported but does not stop the run.
func (d *AdversarialLadder) Run(queries *query.Provider) error {
	for {
		q, ok, err := queries.NextSet(d.levels[0])
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := d.Apply(q); err != nil && !kcentererrors.IsAllLevelsInfeasible(err) {
			return err
		}
	}
	if d.log != nil {
		return d.log.Flush()
	}
	return nil
}

// Apply dispatches one query to every level and logs the selection.
func (d *AdversarialLadder) Apply(q query.Query) error {
	idx := int(q.DataIndex)
	switch q.Type {
	case query.Add:
		d.nbPoints++
		for _, l := range d.levels {
			l.Add(idx)
		}
	case query.Remove:
		d.nbPoints--
		for _, l := range d.levels {
			l.Delete(idx, d.rng)
		}
	}
	return d.writeLog(q)
}

func (d *AdversarialLadder) writeLog(q query.Query) error {
	selected := d.getIndexSmallest()
	if selected == len(d.levels) {
		fmt.Fprintf(os.Stderr, "no feasible radius found after query on point %d\n", q.DataIndex)
		return kcentererrors.New(kcentererrors.CodeAllLevelsInfeasible, "no feasible ladder level")
	}
	if d.log == nil {
		return nil
	}
	op := byte('a')
	if q.Type == query.Remove {
		op = 'd'
	}
	l := d.levels[selected]
	return d.log.Write(op, q.DataIndex, uint32(d.nbPoints), selected, l.Radius(), l.TrueRadius(), l.NbCenters())
}

// TrajectoryLadder runs the trajectory engine (C8) across every radius
// guess. Unlike the point-based regimes, every query either starts a new
// trajectory (its first fix) or grows an existing one (every later fix),
// decided by whether the trajectory already held any points before this
// query arrived.
type TrajectoryLadder struct {
	levels       []*trajectory.Level
	trajectories []*point.Trajectory
	rng          *kcenterrand.Source
	log          *kcenterio.LogWriter
	nbPoints     int
}

// NewTrajectoryLadder builds a ladder of trajectory k-center levels.
func NewTrajectoryLadder(k int, eps, dMin, dMax float64, trajectories []*point.Trajectory, rng *kcenterrand.Source, log *kcenterio.LogWriter) *TrajectoryLadder {
	radii := RadiusLadder(eps, dMin, dMax)
	levels := make([]*trajectory.Level, len(radii))
	for i, r := range radii {
		levels[i] = trajectory.NewLevel(k, r, trajectories)
	}
	return &TrajectoryLadder{levels: levels, trajectories: trajectories, rng: rng, log: log}
}

func (d *TrajectoryLadder) getIndexSmallest() int {
	for i, l := range d.levels {
		if l.Feasible() {
			return i
		}
	}
	return len(d.levels)
}

// Run drains queries, feeding one fix to the named trajectory per query.
func (d *TrajectoryLadder) Run(queries *query.Provider) error {
	for {
		q, ok, err := queries.NextTrajectory()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := d.Apply(q); err != nil && !kcentererrors.IsAllLevelsInfeasible(err) {
			return err
		}
	}
	if d.log != nil {
		return d.log.Flush()
	}
	return nil
}

// Apply feeds one fix to trajectory q.DataIndex: a first fix is a plain
// insert (ADD), any later fix re-evaluates membership (UPDATE).
func (d *TrajectoryLadder) Apply(q query.Query) error {
	idx := int(q.DataIndex)
	isFirstFix := d.trajectories[idx].Len() == 0
	d.trajectories[idx].Reveal()
	if isFirstFix {
		d.nbPoints++
		for _, l := range d.levels {
			l.Add(idx)
		}
		return d.writeLog(q, 'a')
	}
	for _, l := range d.levels {
		l.Update(idx, d.rng)
	}
	return d.writeLog(q, 'u')
}

func (d *TrajectoryLadder) writeLog(q query.Query, op byte) error {
	selected := d.getIndexSmallest()
	if selected == len(d.levels) {
		fmt.Fprintf(os.Stderr, "no feasible radius found after query on trajectory %d\n", q.DataIndex)
		return kcentererrors.New(kcentererrors.CodeAllLevelsInfeasible, "no feasible ladder level")
	}
	if d.log == nil {
		return nil
	}
	l := d.levels[selected]
	return d.log.Write(op, q.DataIndex, uint32(d.nbPoints), selected, l.Radius(), l.TrueRadius(), l.NbCenters())
}

// SlidingLadder runs the sliding-window engine (C7) across every radius
// guess. There is no query file here: points arrive strictly in order and
// expiry is driven entirely by each point's own validity window, matching
// sliding_k_center_run's plain index loop.
type SlidingLadder struct {
	levels []*sliding.Level
	log    *kcenterio.LogWriter
}

// NewSlidingLadder builds a ladder of sliding-window k-center levels.
func NewSlidingLadder(k int, eps, dMin, dMax float64, points []point.Timestamped, metric point.Metric, log *kcenterio.LogWriter) *SlidingLadder {
	radii := RadiusLadder(eps, dMin, dMax)
	levels := make([]*sliding.Level, len(radii))
	for i, r := range radii {
		levels[i] = sliding.NewLevel(k, r, points, metric)
	}
	return &SlidingLadder{levels: levels, log: log}
}

func (d *SlidingLadder) getIndexSmallest() int {
	for i, l := range d.levels {
		if l.Feasible() {
			return i
		}
	}
	return len(d.levels)
}

// Run streams every point into every level in order, logging the selection
// after each.
func (d *SlidingLadder) Run(nbPoints int) error {
	for i := 0; i < nbPoints; i++ {
		for _, l := range d.levels {
			l.Add(i)
		}
		for _, l := range d.levels {
			l.ComputeCenters()
		}
		if err := d.writeLog(i); err != nil && !kcentererrors.IsAllLevelsInfeasible(err) {
			return err
		}
	}
	if d.log != nil {
		return d.log.Flush()
	}
	return nil
}

func (d *SlidingLadder) writeLog(element int) error {
	selected := d.getIndexSmallest()
	if selected == len(d.levels) {
		fmt.Fprintf(os.Stderr, "no feasible radius found after inserting %d\n", element)
		return kcentererrors.New(kcentererrors.CodeAllLevelsInfeasible, "no feasible ladder level")
	}
	if d.log == nil {
		return nil
	}
	l := d.levels[selected]
	_, last := l.Window()
	first, _ := l.Window()
	return d.log.Write('a', uint32(last-1), uint32(last-first), selected, l.Radius(), l.TrueRadius(), l.NbClusters())
}

// PackedLadder runs the packed engine (C6) across groups of radius guesses
// sharing a lookup forest, selecting the globally smallest feasible
// (group, sub-level) pair.
type PackedLadder struct {
	groups   []*packed.Level
	rng      *kcenterrand.Source
	log      *kcenterio.LogWriter
	nbPoints int
}

// NewPackedLadder builds nbGroups packed groups, each covering
// levelPerGroup (+1 for the first `leftover` groups) consecutive ladder
// sub-levels, matching packed_initialise_levels_array's group-splitting
// arithmetic.
func NewPackedLadder(k int, eps, dMin, dMax float64, points []point.Geo, metric point.Metric, rng *kcenterrand.Source, log *kcenterio.LogWriter) *PackedLadder {
	nbLevelTotal := NbInstances(eps, dMin, dMax)
	nbGroups := int(math.Max(1, math.Floor(math.Log(2)/math.Log(1+eps))))
	levelPerGroup := nbLevelTotal / nbGroups
	leftover := nbLevelTotal % nbGroups

	groups := make([]*packed.Level, nbGroups)
	base := dMin
	for i := 0; i < nbGroups; i++ {
		n := levelPerGroup
		if i < leftover {
			n++
		}
		groups[i] = packed.NewLevel(k, n, base, points, metric)
		base *= 1 + eps
	}
	return &PackedLadder{groups: groups, rng: rng, log: log}
}

func (d *PackedLadder) getIndexSmallest() (groupIndex, subLevel int) {
	groupIndex = len(d.groups)
	subLevel = math.MaxInt
	for i, g := range d.groups {
		tmp := g.SmallestValidLevel()
		if tmp >= 0 && tmp < subLevel {
			groupIndex = i
			subLevel = tmp
		}
	}
	return groupIndex, subLevel
}

// Run drains queries, dispatching each to every group.
func (d *PackedLadder) Run(queries *query.Provider) error {
	ctx := packedContext{d.groups[0]}
	for {
		q, ok, err := queries.NextLookup(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := d.Apply(q); err != nil && !kcentererrors.IsAllLevelsInfeasible(err) {
			return err
		}
	}
	if d.log != nil {
		return d.log.Flush()
	}
	return nil
}

// Apply dispatches one query to every group.
func (d *PackedLadder) Apply(q query.Query) error {
	idx := int(q.DataIndex)
	switch q.Type {
	case query.Add:
		d.nbPoints++
		for _, g := range d.groups {
			g.Add(idx)
		}
	case query.Remove:
		d.nbPoints--
		for _, g := range d.groups {
			g.Delete(idx, d.rng)
		}
	}
	return d.writeLog(q)
}

func (d *PackedLadder) writeLog(q query.Query) error {
	groupIndex, subLevel := d.getIndexSmallest()
	if groupIndex == len(d.groups) {
		fmt.Fprintf(os.Stderr, "no feasible radius found after query on point %d\n", q.DataIndex)
		return kcentererrors.New(kcentererrors.CodeAllLevelsInfeasible, "no feasible ladder level")
	}
	if d.log == nil {
		return nil
	}
	op := byte('a')
	if q.Type == query.Remove {
		op = 'd'
	}
	g := d.groups[groupIndex]
	level := subLevel*len(d.groups) + groupIndex
	return d.log.Write(op, q.DataIndex, uint32(d.nbPoints), level, g.Radius(subLevel), 0, g.NbClusters(subLevel))
}

type packedContext struct {
	g *packed.Level
}

func (c packedContext) Has(element int) bool { return c.g.Has(element) }
