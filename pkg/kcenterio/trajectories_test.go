package kcenterio

import (
	"strings"
	"testing"
)

func TestReadTrajectories_ParsesHeaderAndPoints(t *testing.T) {
	input := "2 3\n0 2 1.0,2.0 3.0,4.0\n1 1 5.0,6.0\n"
	trajs, err := ReadTrajectories(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trajs) != 2 {
		t.Fatalf("expected 2 trajectories, got %d", len(trajs))
	}
	if trajs[0].Cap() != 2 || trajs[0].Len() != 0 {
		t.Fatalf("expected first trajectory to have loaded 2 points, 0 revealed, got cap=%d len=%d", trajs[0].Cap(), trajs[0].Len())
	}
	if trajs[1].Cap() != 1 || trajs[1].Len() != 0 {
		t.Fatalf("expected second trajectory to have loaded 1 point, 0 revealed, got cap=%d len=%d", trajs[1].Cap(), trajs[1].Len())
	}
}

func TestReadTrajectories_RejectsLengthMismatch(t *testing.T) {
	input := "1 2\n0 2 1.0,2.0\n"
	if _, err := ReadTrajectories(strings.NewReader(input)); err == nil {
		t.Fatalf("expected an error when declared length does not match point count")
	}
}

func TestReadTrajectories_RejectsEmptyFile(t *testing.T) {
	if _, err := ReadTrajectories(strings.NewReader("")); err == nil {
		t.Fatalf("expected an error for an empty file")
	}
}
