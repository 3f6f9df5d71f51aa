package httperr

import "errors"

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindAuthorization
	KindStorage
)

// Error is a business-level error carried from use cases to the HTTP layer.
// Code is a stable snake_case identifier; Message is human-readable.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e Error) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e Error) Unwrap() error {
	return e.Err
}

func Validation(code, message string) error {
	return Error{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) error {
	return Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) error {
	return Error{Kind: KindConflict, Code: code, Message: message}
}

func Forbidden(code, message string) error {
	return Error{Kind: KindAuthorization, Code: code, Message: message}
}

// Storage wraps a persistence failure. For cascade deletes the code names
// the step that failed so partial cascades are never silent.
func Storage(code string, err error) error {
	return Error{Kind: KindStorage, Code: code, Message: "storage failure", Err: err}
}

func IsKind(err error, kind Kind) bool {
	var be Error
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func IsCode(err error, code string) bool {
	var be Error
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
