package ladder

import (
	"bytes"
	"testing"

	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/internal/kcenter/query"
	"github.com/streamkcenter/kcenter/pkg/kcenterio"
	"github.com/streamkcenter/kcenter/pkg/kcenterrand"
	"github.com/streamkcenter/kcenter/pkg/parallel"
)

func TestParallelTrajectoryLadder_RunHandlesAddThenUpdate(t *testing.T) {
	trajs := make([]*point.Trajectory, 2)
	for i := range trajs {
		trajs[i] = point.NewTrajectory(4)
		for j := 0; j < 4; j++ {
			trajs[i].Load(point.NewGeo(0, float64(i)*10+float64(j)))
		}
	}
	var buf bytes.Buffer
	log := kcenterio.NewLogWriter(&buf, false)
	rng := kcenterrand.NewSourceSeeded(1)
	config := parallel.DefaultPoolConfig().WithWorkers(4)
	d := NewParallelTrajectoryLadder(2, 0.5, 1000, 5000000, trajs, rng, log, config)

	qp := query.NewProvider(bytes.NewReader(encodeIndices(0, 1, 0)))
	if err := d.Run(qp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected at least one log record to be written")
	}
}

func TestParallelTrajectoryLadder_MatchesSequentialSelection(t *testing.T) {
	newTrajs := func() []*point.Trajectory {
		trajs := make([]*point.Trajectory, 3)
		for i := range trajs {
			trajs[i] = point.NewTrajectory(3)
			for j := 0; j < 3; j++ {
				trajs[i].Load(point.NewGeo(0, float64(i)*1000+float64(j)))
			}
		}
		return trajs
	}

	seqLog := kcenterio.NewLogWriter(&bytes.Buffer{}, false)
	seq := NewTrajectoryLadder(2, 0.5, 100, 2000000, newTrajs(), kcenterrand.NewSourceSeeded(7), seqLog)

	parLog := kcenterio.NewLogWriter(&bytes.Buffer{}, false)
	config := parallel.DefaultPoolConfig().WithWorkers(4)
	par := NewParallelTrajectoryLadder(2, 0.5, 100, 2000000, newTrajs(), kcenterrand.NewSourceSeeded(7), parLog, config)

	indices := []uint32{0, 1, 2, 0, 1}
	for _, idx := range indices {
		q := query.Query{Type: query.Add, DataIndex: idx}
		if err := seq.Apply(q); err != nil {
			t.Fatalf("sequential apply: %v", err)
		}
		if err := par.Apply(q); err != nil {
			t.Fatalf("parallel apply: %v", err)
		}
		if got, want := par.inner.getIndexSmallest(), seq.getIndexSmallest(); got != want {
			t.Fatalf("parallel ladder selected level %d, sequential selected %d", got, want)
		}
	}
}
