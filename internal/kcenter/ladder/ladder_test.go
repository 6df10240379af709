package ladder

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/internal/kcenter/query"
	"github.com/streamkcenter/kcenter/pkg/kcenterio"
	"github.com/streamkcenter/kcenter/pkg/kcenterrand"
)

func encodeIndices(indices ...uint32) []byte {
	buf := make([]byte, 4*len(indices))
	for i, v := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

func linePoints(n int) []point.Geo {
	pts := make([]point.Geo, n)
	for i := 0; i < n; i++ {
		pts[i] = point.NewGeo(0, float64(i))
	}
	return pts
}

func TestNbInstances_CoversRangeAtGivenRatio(t *testing.T) {
	n := NbInstances(0.1, 1, 10)
	if n < 2 {
		t.Fatalf("expected a ladder of at least 2 levels, got %d", n)
	}
}

func TestRadiusLadder_FirstLevelIsZero(t *testing.T) {
	r := RadiusLadder(0.1, 1, 10)
	if r[0] != 0 {
		t.Fatalf("expected level 0 to be the degenerate zero-radius level, got %v", r[0])
	}
	if r[1] != 1 {
		t.Fatalf("expected level 1 to equal d_min, got %v", r[1])
	}
}

func TestAdversarialLadder_RunProducesLogRecords(t *testing.T) {
	pts := linePoints(4)
	var buf bytes.Buffer
	log := kcenterio.NewLogWriter(&buf, false)
	rng := kcenterrand.NewSourceSeeded(1)
	d := NewAdversarialLadder(2, 0.5, 0.5, 8, pts, point.Euclidean, 4, rng, log)

	qp := query.NewProvider(bytes.NewReader(encodeIndices(0, 1, 2, 3)))
	if err := d.Run(qp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected at least one log record to be written")
	}
}

func TestPackedLadder_RunProducesLogRecords(t *testing.T) {
	pts := linePoints(4)
	var buf bytes.Buffer
	log := kcenterio.NewLogWriter(&buf, false)
	rng := kcenterrand.NewSourceSeeded(1)
	d := NewPackedLadder(2, 0.5, 0.5, 8, pts, point.Euclidean, rng, log)

	qp := query.NewProvider(bytes.NewReader(encodeIndices(0, 1, 2, 3)))
	if err := d.Run(qp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected at least one log record to be written")
	}
}

func TestSlidingLadder_RunProducesLogRecords(t *testing.T) {
	pts := make([]point.Timestamped, 4)
	for i := range pts {
		pts[i] = point.Timestamped{Point: point.NewGeo(0, float64(i)), InDate: uint32(i), ExpDate: uint32(i) + 100}
	}
	var buf bytes.Buffer
	log := kcenterio.NewLogWriter(&buf, false)
	d := NewSlidingLadder(2, 0.5, 0.5, 8, pts, point.Euclidean, log)

	if err := d.Run(len(pts)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected at least one log record to be written")
	}
}

func TestTrajectoryLadder_RunHandlesAddThenUpdate(t *testing.T) {
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
	d := NewTrajectoryLadder(2, 0.5, 1000, 5000000, trajs, rng, log)

	qp := query.NewProvider(bytes.NewReader(encodeIndices(0, 1, 0)))
	if err := d.Run(qp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected at least one log record to be written")
	}
}
