package kcenterio

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/streamkcenter/kcenter/pkg/kcentertime"
)

func TestTimeLogWriter_WriteEncodesLittleEndianPair(t *testing.T) {
	var buf bytes.Buffer
	w := NewTimeLogWriter(&buf, kcentertime.NewRealClock())
	if err := w.Write(1, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Flush()

	if buf.Len() != 16 {
		t.Fatalf("expected a 16-byte record, got %d", buf.Len())
	}
	seconds := binary.LittleEndian.Uint64(buf.Bytes()[0:8])
	micros := binary.LittleEndian.Uint64(buf.Bytes()[8:16])
	if seconds != 1 || micros != 500 {
		t.Fatalf("expected (1, 500), got (%d, %d)", seconds, micros)
	}
}

func TestTimeLogWriter_TimeRecordsElapsedDuration(t *testing.T) {
	clock := kcentertime.NewMockClock(time.Unix(0, 0))
	var buf bytes.Buffer
	w := NewTimeLogWriter(&buf, clock)

	if err := w.Time(func() { clock.Advance(2500 * time.Microsecond) }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Flush()

	seconds := binary.LittleEndian.Uint64(buf.Bytes()[0:8])
	micros := binary.LittleEndian.Uint64(buf.Bytes()[8:16])
	if seconds != 0 || micros != 2500 {
		t.Fatalf("expected (0, 2500), got (%d, %d)", seconds, micros)
	}
}
