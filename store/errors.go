package store

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNotFound: the requested key does not exist in the collection.
	ErrNotFound = errors.New("store: record not found")
	// ErrUnavailable: the store cannot be reached (offline, timeout).
	ErrUnavailable = errors.New("store: service unavailable")
	// ErrPermission: the store rejected the operation as unauthorized.
	ErrPermission = errors.New("store: permission denied")
)

// MalformedPayloadError marks a data-quality failure: the destination store
// rejects documents carrying a literal "undefined" value. Resubmitting the
// same payload would fail identically, so callers must not cache or retry it.
type MalformedPayloadError struct {
	Field string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("store: field %q holds a literal undefined value", e.Field)
}

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
func IsPermission(err error) bool  { return errors.Is(err, ErrPermission) }

func IsMalformed(err error) bool {
	var m *MalformedPayloadError
	return errors.As(err, &m)
}

// classify maps a Firestore client error onto the store taxonomy. Anything
// unrecognized passes through untouched so its message stays visible.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %v", ErrPermission, err)
	default:
		return err
	}
}
