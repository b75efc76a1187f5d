package multierr

import (
	"bytes"
	"fmt"
)

// Error collects multiple errors into a single error value.
// The zero value is ready to use:
//
//	var merr Error
//	merr.Append(check1())
//	merr.Append(check2())
//	return merr.ErrOrNil()
type Error []error

func (e Error) Error() string {
	switch len(e) {
	case 0:
		// Callers should have used ErrOrNil, but don't panic on misuse.
		return "<nil>"

	case 1:
		return e[0].Error()

	default:
		buf := new(bytes.Buffer)
		fmt.Fprintf(buf, "%d errors occurred:", len(e))
		for _, err := range e {
			fmt.Fprintf(buf, "\n\t* %v", err)
		}
		return buf.String()
	}
}

// Append adds err to e, mutating e in place. nil errors are dropped.
func (e *Error) Append(err error) {
	switch {
	case e == nil:
		// nothing to mutate; callers hold Error by value and Go takes
		// the address automatically, so this only happens with an
		// explicit nil *Error

	case err == nil:

	case *e == nil:
		*e = Error{err}

	default:
		*e = append(*e, err)
	}
}

// Append combines two errors into an Error without mutating either.
// nil inputs are dropped; if err1 is already an Error, err2 is appended
// to a copy of it.
func Append(err1, err2 error) Error {
	switch {
	case err1 == nil && err2 == nil:
		return nil

	case err1 == nil:
		return Error{err2}

	case err2 == nil:
		return Error{err1}
	}

	if merr, ok := err1.(Error); ok {
		merr.Append(err2)
		return merr
	}
	return Error{err1, err2}
}

// ErrOrNil converts e into a plain error. It exists because a typed nil
// Error is != nil when stored in an error interface; returning the
// result of ErrOrNil avoids that trap. A single-element Error unwraps
// to its sole member.
func (e Error) ErrOrNil() error {
	switch len(e) {
	case 0:
		return nil

	case 1:
		return e[0]

	default:
		return e
	}
}

// Unwrap exposes the members to errors.Is and errors.As.
func (e Error) Unwrap() []error {
	return e
}
