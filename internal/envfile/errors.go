package envfile

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned when no entry matches the requested key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidKey is returned when a key contains characters outside [A-Za-z0-9_.-]
	// or starts with a digit.
	ErrInvalidKey = errors.New("invalid key")
	// ErrInvalidComment is returned for comment text that spans lines.
	ErrInvalidComment = errors.New("comment must be a single line")
)

// ParseError reports a line that is neither blank, a comment nor an assignment.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// OperationError wraps a failed document operation. Err is one of the
// package sentinels.
type OperationError struct {
	Op  string
	Key string
	Err error
}

func (e *OperationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func opError(op, key string, err error) error {
	return &OperationError{Op: op, Key: key, Err: err}
}
