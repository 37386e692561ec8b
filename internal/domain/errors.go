package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can decide whether to retry.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindNetwork           ErrorKind = "network"
	KindRateLimited       ErrorKind = "rate_limited"
	KindServer            ErrorKind = "server"
	KindClient            ErrorKind = "client"
	KindProtocol          ErrorKind = "protocol"
	KindPersistence       ErrorKind = "persistence"
	KindTimeout           ErrorKind = "timeout"
)

// Retryable reports whether a failure of this kind may succeed on a later attempt.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindNetwork, KindRateLimited, KindServer, KindTimeout:
		return true
	default:
		return false
	}
}

// Actionable reports whether the user has to fix something before trying again.
func (k ErrorKind) Actionable() bool {
	switch k {
	case KindValidation, KindUnsupportedFormat, KindClient:
		return true
	default:
		return false
	}
}

var (
	ErrEmptyMessage      = errors.New("message cannot be empty")
	ErrFileNotFound      = errors.New("file not found or invalid")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyFile         = errors.New("file is empty")
)

// Error carries a failure kind alongside the operation that produced it.
type Error struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind and operation name.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain. Unclassified
// errors are reported as network failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindNetwork
}
