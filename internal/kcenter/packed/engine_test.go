package packed

import (
	"testing"

	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/pkg/kcenterrand"
)

func linePoints(n int) []point.Geo {
	pts := make([]point.Geo, n)
	for i := 0; i < n; i++ {
		pts[i] = point.NewGeo(0, float64(i))
	}
	return pts
}

func TestLevel_AddPlacesWithinFinestRadius(t *testing.T) {
	pts := linePoints(4)
	l := NewLevel(2, 3, 1, pts, point.Euclidean)

	l.Add(0)
	l.Add(1)

	if l.SmallestValidLevel() < 0 {
		t.Fatalf("expected a feasible sub-level after adding two nearby points")
	}
}

func TestLevel_RadiusDoublesPerSubLevel(t *testing.T) {
	l := NewLevel(2, 3, 1, linePoints(2), point.Euclidean)
	if l.Radius(0) != 1 || l.Radius(1) != 2 || l.Radius(2) != 4 {
		t.Fatalf("expected doubling radii [1 2 4], got [%v %v %v]", l.Radius(0), l.Radius(1), l.Radius(2))
	}
}

func TestLevel_DeleteCenterReinsertsEvicted(t *testing.T) {
	pts := linePoints(4)
	l := NewLevel(2, 3, 1, pts, point.Euclidean)
	rng := kcenterrand.NewSourceSeeded(3)

	for i := 0; i < 4; i++ {
		l.Add(i)
	}
	l.Delete(0, rng)

	if l.NbClusters(0) == 0 {
		t.Fatalf("expected reinserted elements to repopulate level 0")
	}
}
