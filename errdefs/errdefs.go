// Package errdefs holds the dicey error table. Every failure a client or
// codec can produce maps to one of these coded errors; the codes are the
// same values that travel inside Error values on the wire, so a remote
// error can be rehydrated into the matching sentinel.
package errdefs

import (
	"context"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// Error is a coded dicey error. Instances in the table below are
// singletons; compare with errors.Is.
type Error struct {
	code int16
	name string
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Code returns the wire representation of this error.
func (e *Error) Code() int16 {
	return e.code
}

// Name returns the symbolic constant name, e.g. "ETIMEDOUT".
func (e *Error) Name() string {
	return e.name
}

var registry = map[int16]*Error{}

func register(code int16, name, msg string) *Error {
	e := &Error{code: code, name: name, msg: msg}
	registry[code] = e
	return e
}

var (
	ErrAgain             = register(-1, "EAGAIN", "resource temporarily unavailable")
	ErrFileNotFound      = register(-2, "ENOENT", "file not found")
	ErrNoMemory          = register(-3, "ENOMEM", "out of memory")
	ErrInvalidData       = register(-4, "EINVAL", "invalid data")
	ErrBadMessage        = register(-5, "EBADMSG", "bad message")
	ErrOverflow          = register(-6, "EOVERFLOW", "value overflow")
	ErrConnectionRefused = register(-7, "ECONNREFUSED", "connection refused")
	ErrConnectionReset   = register(-8, "ECONNRESET", "connection reset by peer")
	ErrTimedOut          = register(-9, "ETIMEDOUT", "request timed out")
	ErrCancelled         = register(-10, "ECANCELED", "operation cancelled")
	ErrAlready           = register(-11, "EALREADY", "operation already in progress")
	ErrBrokenPipe        = register(-12, "EPIPE", "broken pipe")
	ErrMalformedPath     = register(-13, "EPATH", "malformed path")
	ErrValueTypeMismatch = register(-14, "EMISMATCH", "value type mismatch")
	ErrIO                = register(-15, "EIO", "I/O error")
	ErrNotConnected      = register(-16, "ENOTCONN", "client not connected")
)

// FromCode resolves a wire error code to its sentinel. Codes outside the
// table come back as ErrInvalidData wrapped with the offending code.
func FromCode(code int16) error {
	if e, ok := registry[code]; ok {
		return e
	}
	return errors.Wrapf(ErrInvalidData, "unknown error code %d", code)
}

// MapIO folds a transport or filesystem error into the dicey table,
// keeping the original as the cause.
func MapIO(err error) error {
	if err == nil {
		return nil
	}

	var coded *Error
	if errors.As(err, &coded) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(ErrTimedOut, err.Error())
	case errors.Is(err, context.Canceled):
		return errors.Wrap(ErrCancelled, err.Error())
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return errors.Wrap(ErrBadMessage, err.Error())
	case errors.Is(err, os.ErrNotExist):
		return errors.Wrap(ErrFileNotFound, err.Error())
	case errors.Is(err, os.ErrDeadlineExceeded):
		return errors.Wrap(ErrTimedOut, err.Error())
	case errors.Is(err, os.ErrClosed), errors.Is(err, net.ErrClosed), errors.Is(err, io.ErrClosedPipe):
		return errors.Wrap(ErrBrokenPipe, err.Error())
	case errors.Is(err, syscall.ECONNREFUSED):
		return errors.Wrap(ErrConnectionRefused, err.Error())
	case errors.Is(err, syscall.ECONNRESET):
		return errors.Wrap(ErrConnectionReset, err.Error())
	case errors.Is(err, syscall.EPIPE):
		return errors.Wrap(ErrBrokenPipe, err.Error())
	}

	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return errors.Wrap(ErrTimedOut, err.Error())
	}

	return errors.Wrap(ErrIO, err.Error())
}
