package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileSource reads content files from a directory.
type FileSource struct {
	fsys fs.FS
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{fsys: os.DirFS(dir)}
}

// NewFSSource creates a FileSource over an arbitrary filesystem.
func NewFSSource(fsys fs.FS) *FileSource {
	return &FileSource{fsys: fsys}
}

// Fetch reads a single content file.
func (s *FileSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateContentName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrContentNotFound, name)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
