package objcache

import (
	"errors"
	"fmt"
)

var (
	// ErrEncodeFailure marks a value that could not be turned into bytes.
	ErrEncodeFailure = errors.New("objcache: encode failed")
	// ErrDecodeFailure marks bytes that could not be turned into a value,
	// including corrupt or foreign file frames.
	ErrDecodeFailure = errors.New("objcache: decode failed")
	// ErrIOFailure marks a provider read, write, stat or delete failure.
	ErrIOFailure = errors.New("objcache: io failed")
	// ErrClosed is reported for File tier work requested after Close.
	ErrClosed = errors.New("objcache: cache closed")
	// ErrLocationFailure marks a key whose file location could not be
	// resolved because LocationFunc or KeyText panicked.
	ErrLocationFailure = errors.New("objcache: location failed")
)

// TierError is delivered in a result's Err slot when a tier fails.
// errors.Is matches both Kind and the underlying cause.
type TierError struct {
	Op         string   // "load", "save", "exists", "remove"
	Location   Location // tier that failed
	StorageKey string   // resolved file location, empty for Memory
	Kind       error    // one of the Err* kinds above
	Err        error
}

func (e *TierError) Error() string {
	switch {
	case e.StorageKey != "" && e.Err != nil:
		return fmt.Sprintf("%s %s %q: %v: %v", e.Location, e.Op, e.StorageKey, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v: %v", e.Location, e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Location, e.Op, e.Kind)
	}
}

func (e *TierError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func fileError(op, storageKey string, kind, err error) *TierError {
	return &TierError{Op: op, Location: File, StorageKey: storageKey, Kind: kind, Err: err}
}
