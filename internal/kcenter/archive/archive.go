// Package archive provides an object-storage sink for a completed run's log
// and time-log files, adapted from the teacher's pkg/storage result-upload
// abstraction: the same Sink interface, narrowed to the upload/exists
// operations a one-shot archival step actually needs.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/streamkcenter/kcenter/pkg/compression"
	"github.com/streamkcenter/kcenter/pkg/kcenterconfig"
)

// Sink archives run artifacts (log files, time-log files) to durable
// storage after a ladder run completes.
type Sink interface {
	// Upload archives data from reader under key.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// UploadFile archives the local file at localPath under key.
	UploadFile(ctx context.Context, key string, localPath string) error

	// Exists reports whether an object already exists under key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns a locator for key, if the backend has one.
	URL(key string) string
}

// Type names a Sink backend.
type Type string

const (
	TypeLocal Type = "local"
	TypeCOS   Type = "cos"
)

// New builds a Sink from cfg. An empty type selects local disk archival; a
// type other than local or cos is rejected by Validate.
func New(cfg *kcenterconfig.ArchiveConfig) (Sink, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	switch Type(cfg.Type) {
	case TypeCOS:
		return newCOSSink(&cosConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return newLocalSink(cfg.LocalPath)
	}
}

// UploadCompressed zstd-compresses data and archives it under key+".zst",
// trading a little CPU for the bandwidth a run's log and time-log files
// don't need to spend twice: archived artifacts are written once and read
// rarely, so favoring compression ratio over speed matches LevelBest.
func UploadCompressed(ctx context.Context, sink Sink, key string, data []byte) error {
	c, err := compression.New(compression.TypeZstd, compression.LevelBest)
	if err != nil {
		return fmt.Errorf("failed to build archive compressor: %w", err)
	}
	compressed, err := c.Compress(data)
	if err != nil {
		return fmt.Errorf("failed to compress archive artifact: %w", err)
	}
	return sink.Upload(ctx, key+".zst", bytes.NewReader(compressed))
}

// Validate checks an archive configuration for the fields its chosen
// backend requires.
func Validate(cfg *kcenterconfig.ArchiveConfig) error {
	if cfg == nil {
		return fmt.Errorf("archive config is nil")
	}

	t := Type(cfg.Type)
	if t == "" {
		t = TypeLocal
	}
	if t != TypeCOS && t != TypeLocal {
		return fmt.Errorf("unsupported archive sink type: %s", cfg.Type)
	}
	if t == TypeCOS {
		if cfg.Bucket == "" {
			return fmt.Errorf("cos bucket is required")
		}
		if cfg.Region == "" {
			return fmt.Errorf("cos region is required")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return fmt.Errorf("cos credentials are required")
		}
	}
	if t == TypeLocal && cfg.LocalPath == "" {
		return fmt.Errorf("local archive path is required")
	}
	return nil
}
