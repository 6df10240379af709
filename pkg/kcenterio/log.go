// Package kcenterio implements the ladder driver's external file formats:
// whitespace-separated points files, trajectory files with a length header,
// ASCII short/long selection logs, and a binary time log of
// (seconds, microseconds) records.
// Grounded on the original's utils.c (log/time-log handling) and point.c
// (file parsing), adapted to the teacher's buffered-io style.
package kcenterio

import (
	"bufio"
	"fmt"
	"io"
)

// LogWriter writes one ASCII record per query to the selection log, in
// either short or long form depending on how it was constructed. Short
// form: "<op> <data_index> <nb_points> c<level> <radius> <cluster_count>".
// Long form additionally inserts <true_radius> before <cluster_count>.
type LogWriter struct {
	w    *bufio.Writer
	long bool
}

// NewLogWriter wraps w for buffered log writes. long selects the long
// record form (true radius included).
func NewLogWriter(w io.Writer, long bool) *LogWriter {
	return &LogWriter{w: bufio.NewWriterSize(w, 64*1024), long: long}
}

// Write emits one selection record. trueRadius is ignored in short form.
func (l *LogWriter) Write(op byte, dataIndex, nbPoints uint32, level int, radius, trueRadius float64, clusterCount int) error {
	var err error
	if l.long {
		_, err = fmt.Fprintf(l.w, "%c %d %d c%d %g %g %d\n", op, dataIndex, nbPoints, level, radius, trueRadius, clusterCount)
	} else {
		_, err = fmt.Fprintf(l.w, "%c %d %d c%d %g %d\n", op, dataIndex, nbPoints, level, radius, clusterCount)
	}
	return err
}

// Flush forces any buffered records out to the underlying writer.
func (l *LogWriter) Flush() error { return l.w.Flush() }
