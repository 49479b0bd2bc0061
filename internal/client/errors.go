package client

import (
	"errors"

	"github.com/KirkDiggler/mindmeld/internal/api"
)

// ErrorKind classifies a failed client call
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindInvalidPhase ErrorKind = "invalid_phase"
	KindNetwork      ErrorKind = "network"
	KindInternal     ErrorKind = "internal"
)

// Error is returned for every failed call. Server rejections keep the
// server's message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// KindOf returns the kind of err, KindInternal for foreign errors
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func fromFailure(f api.Failure) *Error {
	kind := KindInternal
	switch f.Kind {
	case api.KindValidation:
		kind = KindValidation
	case api.KindNotFound:
		kind = KindNotFound
	case api.KindInvalidPhase:
		kind = KindInvalidPhase
	}
	return &Error{Kind: kind, Message: f.Error}
}
