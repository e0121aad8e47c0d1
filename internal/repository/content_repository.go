package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrContentNotFound is returned when a content file does not exist.
var ErrContentNotFound = errors.New("content file not found")

// ErrInvalidContentName is returned for names outside the content file pattern.
var ErrInvalidContentName = errors.New("invalid content file name")

var contentNamePattern = regexp.MustCompile(`^[a-z0-9\-]+\.json$`)

// ContentSource fetches raw content files such as "math.json" or
// "math-notes.json". Implementations are read-only.
type ContentSource interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// ValidateContentName rejects anything that is not a flat *.json file name.
func ValidateContentName(name string) error {
	if !contentNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidContentName, name)
	}
	return nil
}
