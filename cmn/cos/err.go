// Package cos provides small shared types and helpers used across the
// codec, message, and transport packages, grounded on aistore's cmn/cos.
package cos

import (
	"errors"
	"fmt"
	"sync"
)

// Errs aggregates up to maxErrs distinct errors, deduplicated by message,
// the way a container decode that keeps scanning entries after a soft
// failure accumulates diagnostics instead of aborting on the first one.
type Errs struct {
	errs []error
	mu   sync.Mutex
}

const maxErrs = 4

func (e *Errs) Add(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, added := range e.errs {
		if added.Error() == err.Error() {
			return
		}
	}
	if len(e.errs) < maxErrs {
		e.errs = append(e.errs, err)
	}
}

func (e *Errs) Cnt() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.errs)
}

func (e *Errs) JoinErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return nil
	}
	return errors.Join(e.errs...)
}

// ErrNotFound is returned when a lookup (field dictionary, set-def by
// setId, sub-protocol name) comes up empty.
type ErrNotFound struct{ what string }

func NewErrNotFound(format string, a ...any) *ErrNotFound {
	return &ErrNotFound{fmt.Sprintf(format, a...)}
}

func (e *ErrNotFound) Error() string { return e.what + " not found" }

func IsErrNotFound(err error) bool {
	var e *ErrNotFound
	return errors.As(err, &e)
}
