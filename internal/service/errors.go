package service

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	}
	return "internal"
}

// Error is a failure the caller can act on. Anything else is internal.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func notFound(msg string) error   { return &Error{Kind: KindNotFound, Msg: msg} }
func conflict(msg string) error   { return &Error{Kind: KindConflict, Msg: msg} }
func validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

// KindOf reports the kind of err, KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
