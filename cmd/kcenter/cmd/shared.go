package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/streamkcenter/kcenter/internal/kcenter/archive"
	"github.com/streamkcenter/kcenter/internal/kcenter/recorder"
	"github.com/streamkcenter/kcenter/pkg/kcenterio"
	"github.com/streamkcenter/kcenter/pkg/kcenterrand"
	"github.com/streamkcenter/kcenter/pkg/kcentertime"
)

// BinName returns the binary name to show in usage examples.
func BinName() string {
	return filepath.Base(os.Args[0])
}

// runSetup bundles everything every regime subcommand needs before it can
// build its ladder: the selection log writer, an optional time log writer,
// and the shared RNG source (for the adversarial/packed/trajectory
// regimes' center-eviction restarts). Call Close when done.
type runSetup struct {
	log     *kcenterio.LogWriter
	timeLog *kcenterio.TimeLogWriter
	rng     *kcenterrand.Source

	logCloser     io.Closer
	timeLogCloser io.Closer

	recorder *recorder.Recorder
	archive  archive.Sink
}

func newRunSetup() (*runSetup, error) {
	rs := &runSetup{rng: kcenterrand.NewSource()}

	var logOut io.Writer = os.Stdout
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		rs.logCloser = f
		logOut = f
	}
	rs.log = kcenterio.NewLogWriter(logOut, longLog)

	if timeLogFile != "" {
		f, err := os.Create(timeLogFile)
		if err != nil {
			return nil, fmt.Errorf("opening time log file: %w", err)
		}
		rs.timeLogCloser = f
		rs.timeLog = kcenterio.NewTimeLogWriter(f, kcentertime.NewRealClock())
	}

	if cfg != nil && cfg.Analytics.Enabled {
		rec, err := recorder.Open(&cfg.Analytics)
		if err != nil {
			return nil, fmt.Errorf("opening analytics recorder: %w", err)
		}
		if err := rec.HealthCheck(context.Background()); err != nil {
			_ = rec.Close()
			return nil, fmt.Errorf("analytics recorder health check: %w", err)
		}
		rs.recorder = rec
	}

	if cfg != nil {
		sink, err := archive.New(&cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("opening archive sink: %w", err)
		}
		rs.archive = sink
	}

	return rs, nil
}

// Close flushes and closes every open artifact, archiving the selection log
// and time log (when the run produced either as a named file, rather than
// stdout) before releasing the analytics recorder.
func (rs *runSetup) Close() {
	if rs.logCloser != nil {
		_ = rs.logCloser.Close()
	}
	if rs.timeLogCloser != nil {
		_ = rs.timeLogCloser.Close()
	}
	rs.archiveArtifacts()
	if rs.recorder != nil {
		_ = rs.recorder.Close()
	}
}

func (rs *runSetup) archiveArtifacts() {
	if rs.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	runKey := time.Now().UTC().Format("20060102T150405")
	if logFile != "" {
		if data, err := os.ReadFile(logFile); err == nil {
			_ = archive.UploadCompressed(ctx, rs.archive, runKey+"/"+filepath.Base(logFile), data)
		}
	}
	if timeLogFile != "" {
		if data, err := os.ReadFile(timeLogFile); err == nil {
			_ = archive.UploadCompressed(ctx, rs.archive, runKey+"/"+filepath.Base(timeLogFile), data)
		}
	}
}

// runTimed runs fn, recording its wall-clock duration to the time log when
// one was requested. The original times every individual query; here the
// ladder engines own their query loop internally (Run), so the granularity
// this CLI can observe without widening the ladder package's API is one
// record per invocation rather than one per query.
func (rs *runSetup) runTimed(fn func() error) error {
	if rs.timeLog == nil {
		return fn()
	}
	var runErr error
	timeErr := rs.timeLog.Time(func() { runErr = fn() })
	if timeErr != nil {
		return timeErr
	}
	if runErr != nil {
		return runErr
	}
	return rs.timeLog.Flush()
}

// clusterSizeHint resolves the -c flag into the hint the adversarial levels'
// set collections are constructed with, defaulting to nbPoints when unset.
func clusterSizeHint(nbPoints int) int {
	if clusterSize > 0 {
		return int(clusterSize)
	}
	return nbPoints
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

// parseFloatArg parses a positional argument as a float64, naming it in any
// error for a useful usage message.
func parseFloatArg(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}

func parseUintArg(name, s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return uint32(v), nil
}
