package service

import (
	"errors"
	"fmt"
)

// Domain Errors
var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownSubject = errors.New("unknown subject")
	ErrContentLoad    = errors.New("content load failed")
	ErrNoOpenNote     = errors.New("no note is open")
)

// ContentLoadError reports a network, storage or parse failure for one
// content file. It matches ErrContentLoad with errors.Is.
type ContentLoadError struct {
	Name string
	Err  error
}

func (e *ContentLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Name, e.Err)
}

func (e *ContentLoadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrContentLoad) match any ContentLoadError.
func (e *ContentLoadError) Is(target error) bool {
	return target == ErrContentLoad
}
