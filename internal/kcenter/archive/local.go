package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// localSink archives run artifacts to the local filesystem under a base
// directory, grounded on the teacher's LocalStorage.
type localSink struct {
	basePath string
}

func newLocalSink(basePath string) (*localSink, error) {
	if basePath == "" {
		basePath = "./archive"
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &localSink{basePath: basePath}, nil
}

func (s *localSink) Upload(ctx context.Context, key string, reader io.Reader) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	fullPath := s.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write archive file: %w", err)
	}
	return nil
}

func (s *localSink) UploadFile(ctx context.Context, key string, localPath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()
	return s.Upload(ctx, key, src)
}

func (s *localSink) Exists(ctx context.Context, key string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	_, err := os.Stat(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check archive file: %w", err)
	}
	return true, nil
}

func (s *localSink) URL(key string) string {
	return s.fullPath(key)
}

func (s *localSink) fullPath(key string) string {
	return filepath.Join(s.basePath, key)
}
