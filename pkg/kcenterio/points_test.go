package kcenterio

import (
	"strings"
	"testing"
)

func TestReadPoints_ParsesLonLatFromTrailingFields(t *testing.T) {
	pts, err := ReadPoints(strings.NewReader("1\t12.5\t45.25\n2\t-3.0\t10.0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].Lon() != 12.5 || pts[0].Lat() != 45.25 {
		t.Fatalf("unexpected first point: %+v", pts[0])
	}
}

func TestReadPoints_RejectsShortLine(t *testing.T) {
	if _, err := ReadPoints(strings.NewReader("1 2\n")); err == nil {
		t.Fatalf("expected an error for a line with too few fields")
	}
}

func TestReadPoints_SkipsBlankLines(t *testing.T) {
	pts, err := ReadPoints(strings.NewReader("\n1 2.0 3.0\n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 1 {
		t.Fatalf("expected 1 point, got %d", len(pts))
	}
}

func TestReadTimestampedPoints_DerivesExpDateFromWindow(t *testing.T) {
	pts, err := ReadTimestampedPoints(strings.NewReader("10 12.5 45.25\n20 -3.0 10.0\n"), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].InDate != 10 || pts[0].ExpDate != 110 {
		t.Fatalf("unexpected window for first point: %+v", pts[0])
	}
	if pts[1].InDate != 20 || pts[1].ExpDate != 120 {
		t.Fatalf("unexpected window for second point: %+v", pts[1])
	}
}

func TestReadTimestampedPoints_RejectsWrongFieldCount(t *testing.T) {
	if _, err := ReadTimestampedPoints(strings.NewReader("10 12.5\n"), 100); err == nil {
		t.Fatalf("expected an error for a line missing latitude")
	}
}
