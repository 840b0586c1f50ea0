// Package errs narrows the cockroachdb/errors surface to the three
// operations this codebase actually uses.
package errs

import cr "github.com/cockroachdb/errors"

// New returns a stack-traced error.
func New(msg string) error {
	return cr.New(msg)
}

// Wrap annotates err with msg; nil in, nil out.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark makes errors.Is(err, markErr) hold without hiding the cause.
// Callers mark infra and domain errors with the usecase sentinels the
// handlers switch on.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}
