package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode matches every snapshot deserialization failure.
	ErrDecode = errors.New("decode snapshot")
	// ErrEncode matches every event serialization failure.
	ErrEncode = errors.New("encode events")
	// ErrSnapshotTooLarge matches snapshots refused for their size.
	ErrSnapshotTooLarge = errors.New("snapshot too large")
)

// DecodeError describes where a snapshot failed validation.
type DecodeError struct {
	Path   string // e.g. "enemies[2].position.x"; "$" for the document root
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid snapshot at %s: %s", e.Path, e.Reason)
}

// Is makes errors.Is(err, ErrDecode) succeed.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// EncodeError describes an event that could not be serialized.
type EncodeError struct {
	Index int
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("cannot encode event %d: %v", e.Index, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrEncode) succeed.
func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}
