package errors

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	NotFound        = errors.New("not found")
	ValidationError = errors.New("validation error")
	StoreError      = errors.New("store error")
	DecodeError     = errors.New("decode error")
)

// Store tags err as a StoreError unless it is already classified.
// Context deadline expiry counts as a store failure.
func Store(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, NotFound) || errors.Is(err, StoreError) ||
		errors.Is(err, DecodeError) || errors.Is(err, ValidationError) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", StoreError, err)
}

func Decode(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", DecodeError, err)
}

func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ValidationError, fmt.Sprintf(format, args...))
}

// PartialBatchFailure reports a chunked fetch where at least one chunk failed.
// Succeeded and Failed hold chunk indexes in ascending order.
type PartialBatchFailure struct {
	Chunks    int
	Succeeded []int
	Failed    map[int]error
}

func (e *PartialBatchFailure) Error() string {
	idx := e.FailedChunks()
	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		parts = append(parts, fmt.Sprintf("chunk %d: %v", i, e.Failed[i]))
	}
	return fmt.Sprintf("partial batch failure: %d of %d chunks failed (%s)",
		len(e.Failed), e.Chunks, strings.Join(parts, "; "))
}

func (e *PartialBatchFailure) FailedChunks() []int {
	idx := make([]int, 0, len(e.Failed))
	for i := range e.Failed {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Unwrap exposes the chunk errors so errors.Is(err, StoreError) keeps working.
func (e *PartialBatchFailure) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, i := range e.FailedChunks() {
		errs = append(errs, e.Failed[i])
	}
	return errs
}
