package catalog

import (
	"errors"
	"fmt"

	"github.com/mwantia/imagekeeper/pkg/db/store"
	"github.com/mwantia/imagekeeper/pkg/thumbnail"
)

// Failure kinds. Every error returned by the catalog is an *Error whose Kind
// is one of these, so callers can use errors.Is(err, catalog.ErrNotFound).
var (
	ErrValidation = errors.New("validation failure")
	ErrNotFound   = errors.New("not found")
	ErrIO         = errors.New("io failure")
	ErrThumbnail  = thumbnail.ErrThumbnail
	ErrStorage    = errors.New("storage failure")
)

// Error describes a failed catalog operation.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func invalid(op, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrValidation, Err: fmt.Errorf(format, args...)}
}

func notFound(op, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrNotFound, Err: fmt.Errorf(format, args...)}
}

// fromStore classifies a repository error.
func fromStore(op string, err error) error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return err
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return &Error{Op: op, Kind: ErrNotFound, Err: err}
	case errors.Is(err, store.ErrDuplicate):
		return &Error{Op: op, Kind: ErrValidation, Err: err}
	}
	return &Error{Op: op, Kind: ErrStorage, Err: err}
}
