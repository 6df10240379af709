package archive

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/streamkcenter/kcenter/pkg/kcenterconfig"
)

func TestNew_LocalSinkUploadsAndChecksExistence(t *testing.T) {
	dir := t.TempDir()
	sink, err := New(&kcenterconfig.ArchiveConfig{Type: "local", LocalPath: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if err := sink.Upload(ctx, "run-1/log.txt", bytes.NewBufferString("a 0 1 c0 1.000000 1\n")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	ok, err := sink.Exists(ctx, "run-1/log.txt")
	if err != nil || !ok {
		t.Fatalf("expected uploaded artifact to exist, got ok=%v err=%v", ok, err)
	}

	if _, err := os.Stat(filepath.Join(dir, "run-1/log.txt")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
}

func TestNew_DefaultsToLocalWhenTypeEmpty(t *testing.T) {
	dir := t.TempDir()
	sink, err := New(&kcenterconfig.ArchiveConfig{LocalPath: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sink.(*localSink); !ok {
		t.Fatalf("expected a local sink by default, got %T", sink)
	}
}

func TestValidate_RejectsMissingCOSFields(t *testing.T) {
	if err := Validate(&kcenterconfig.ArchiveConfig{Type: "cos"}); err == nil {
		t.Fatalf("expected an error for a cos config missing required fields")
	}
}

func TestValidate_RejectsNilConfig(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatalf("expected an error for a nil config")
	}
}

func TestUploadCompressed_ArchivesUnderZstSuffix(t *testing.T) {
	dir := t.TempDir()
	sink, err := New(&kcenterconfig.ArchiveConfig{Type: "local", LocalPath: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	payload := []byte("a 0 1 c0 1.000000 1\nu 1 2 c0 1.000000 2\n")
	if err := UploadCompressed(ctx, sink, "run-1/log.txt", payload); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	ok, err := sink.Exists(ctx, "run-1/log.txt.zst")
	if err != nil || !ok {
		t.Fatalf("expected compressed artifact to exist, got ok=%v err=%v", ok, err)
	}
}
