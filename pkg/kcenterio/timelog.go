package kcenterio

import (
	"bufio"
	"encoding/binary"
	"io"
	"time"

	"github.com/streamkcenter/kcenter/pkg/kcentertime"
)

// TimeLogWriter records one (seconds, microseconds) pair per Time or Write
// call, each value a little-endian 64-bit integer, the wire format of the original's
// store_time buffered struct-timeval dump.
type TimeLogWriter struct {
	w     *bufio.Writer
	clock kcentertime.Clock
}

// NewTimeLogWriter wraps w for buffered time-log writes.
func NewTimeLogWriter(w io.Writer, clock kcentertime.Clock) *TimeLogWriter {
	return &TimeLogWriter{w: bufio.NewWriterSize(w, 64*1024), clock: clock}
}

// Time runs fn and records its wall-clock duration as a
// (seconds, microseconds) pair, using the writer's clock.
func (t *TimeLogWriter) Time(fn func()) error {
	start := t.clock.Now()
	fn()
	d := t.clock.Since(start)
	return t.Write(int64(d/time.Second), int64((d%time.Second)/time.Microsecond))
}

// Write records one raw (seconds, microseconds) pair.
func (t *TimeLogWriter) Write(seconds, microseconds int64) error {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(seconds))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(microseconds))
	_, err := t.w.Write(buf[:])
	return err
}

// Flush forces any buffered records out to the underlying writer.
func (t *TimeLogWriter) Flush() error { return t.w.Flush() }
