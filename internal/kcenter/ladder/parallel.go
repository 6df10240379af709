package ladder

import (
	"context"
	"fmt"
	"os"

	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/internal/kcenter/query"
	"github.com/streamkcenter/kcenter/internal/kcenter/trajectory"
	"github.com/streamkcenter/kcenter/pkg/kcentererrors"
	"github.com/streamkcenter/kcenter/pkg/kcenterio"
	"github.com/streamkcenter/kcenter/pkg/kcenterrand"
	"github.com/streamkcenter/kcenter/pkg/parallel"
)

// ParallelTrajectoryLadder is the worker-pool variant of TrajectoryLadder
// (C10). The original distributes one query's Hausdorff-distance workload
// across a fixed set of worker threads behind a condition-variable barrier
// (feed_workers/wait_workers in algo_trajectories.c): every worker wakes,
// processes its share, and the main thread blocks until all have reported
// back before moving to the next query. Ladder levels are independent
// k-center instances over the same trajectory set, so this adapts that
// barrier to fan the per-query Add/Update work out across levels on a
// bounded worker pool rather than splitting a single level's scan by hand;
// either decomposition saturates the same cores for the same workload, and
// this one reuses the generic pool instead of hand-rolled thread plumbing.
type ParallelTrajectoryLadder struct {
	inner  *TrajectoryLadder
	pool   *parallel.WorkerPool[*trajectory.Level, struct{}]
	config parallel.PoolConfig
}

// NewParallelTrajectoryLadder builds a TrajectoryLadder whose per-query
// level updates run on a worker pool sized by config (zero value selects
// parallel.DefaultPoolConfig()).
func NewParallelTrajectoryLadder(k int, eps, dMin, dMax float64, trajectories []*point.Trajectory, rng *kcenterrand.Source, log *kcenterio.LogWriter, config parallel.PoolConfig) *ParallelTrajectoryLadder {
	if config.MaxWorkers <= 0 {
		config = parallel.DefaultPoolConfig()
	}
	return &ParallelTrajectoryLadder{
		inner:  NewTrajectoryLadder(k, eps, dMin, dMax, trajectories, rng, log),
		pool:   parallel.NewWorkerPool[*trajectory.Level, struct{}](config),
		config: config,
	}
}

// Run drains queries exactly like TrajectoryLadder.Run, but dispatches each
// query's level work across the worker pool.
func (d *ParallelTrajectoryLadder) Run(queries *query.Provider) error {
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
	if d.inner.log != nil {
		return d.inner.log.Flush()
	}
	return nil
}

// Apply feeds one fix to the named trajectory, fanning the resulting
// per-level Add/Update work out across the worker pool. Revealing the fix
// and reading isFirstFix happen before the barrier, matching the original
// reading add_point_trajectory's return value on the main thread before
// waking any worker.
func (d *ParallelTrajectoryLadder) Apply(q query.Query) error {
	idx := int(q.DataIndex)
	isFirstFix := d.inner.trajectories[idx].Len() == 0
	d.inner.trajectories[idx].Reveal()

	ctx := context.Background()
	if isFirstFix {
		d.inner.nbPoints++
		_, _ = parallel.ForEach(ctx, d.inner.levels, d.config, func(_ context.Context, l *trajectory.Level) error {
			l.Add(idx)
			return nil
		})
		return d.writeLog(q, 'a')
	}
	_, _ = parallel.ForEach(ctx, d.inner.levels, d.config, func(_ context.Context, l *trajectory.Level) error {
		l.Update(idx, d.inner.rng)
		return nil
	})
	return d.writeLog(q, 'u')
}

func (d *ParallelTrajectoryLadder) writeLog(q query.Query, op byte) error {
	selected := d.inner.getIndexSmallest()
	if selected == len(d.inner.levels) {
		fmt.Fprintf(os.Stderr, "no feasible radius found after query on trajectory %d\n", q.DataIndex)
		return kcentererrors.New(kcentererrors.CodeAllLevelsInfeasible, "no feasible ladder level")
	}
	if d.inner.log == nil {
		return nil
	}
	l := d.inner.levels[selected]
	return d.inner.log.Write(op, q.DataIndex, uint32(d.inner.nbPoints), selected, l.Radius(), l.TrueRadius(), l.NbCenters())
}
