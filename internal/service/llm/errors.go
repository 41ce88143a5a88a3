package llm

import (
	"context"
	"errors"
)

// ErrEmptyOutput is returned when the model answered with nothing usable.
// It is transient: a second attempt usually succeeds.
var ErrEmptyOutput = errors.New("provider returned empty output")

// fatalError marks a provider failure that retrying cannot fix
// (bad credentials, invalid request, unknown model).
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Fatal marks err as non-retryable
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err must not be retried. Context cancellation
// counts as fatal; everything unmarked is transient.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var fe *fatalError
	return errors.As(err, &fe)
}
