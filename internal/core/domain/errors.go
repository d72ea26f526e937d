package domain

import "fmt"

// Kind classifies an error into the closed set of failure kinds the UI
// layer knows how to present.
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindBadRequest      Kind = "BAD_REQUEST"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindInternalServer  Kind = "INTERNAL_SERVER"
	KindDbError         Kind = "DB_ERROR"
	KindParseError      Kind = "PARSE_ERROR"
	KindIOError         Kind = "IO_ERROR"
	KindNetworkError    Kind = "NETWORK_ERROR"
	KindPrintError      Kind = "PRINT_ERROR"
	KindPrinterNotSet   Kind = "PRINTER_NOT_SET"
	KindPrinterNotFound Kind = "PRINTER_NOT_FOUND"
	KindConfigReadError Kind = "CONFIG_READ_ERROR"
)

// Error carries a kind, an optional operator-facing message, and an
// optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an error of the given kind with a formatted message.
func E(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapErr attaches a kind and message to an underlying cause.
func WrapErr(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindInternalServer for plain errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindInternalServer
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
