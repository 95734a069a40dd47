package httpclient

import (
	"errors"
	"net/http"

	"github.com/arismemo/quotation/internal/messages"
)

type Kind int

const (
	// KindNetwork covers transport failures: refused connections, resets,
	// invalid URLs.
	KindNetwork Kind = iota + 1
	// KindTimeout is returned when the per-call timeout elapsed.
	KindTimeout
	// KindHTTPStatus is returned for any non 2xx response.
	KindHTTPStatus
	// KindDecode is returned when a success body is not valid JSON.
	KindDecode
	// KindCanceled is returned when the caller's context got canceled.
	KindCanceled
	// KindEncode is returned when the request body cannot be serialized.
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	case KindCanceled:
		return "canceled"
	case KindEncode:
		return "encode"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by Client. Message is meant to be
// shown to users as is.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsKind(err error, kind Kind) bool {
	var httpErr *Error
	return errors.As(err, &httpErr) && httpErr.Kind == kind
}

func newNetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: messages.Get(messages.NetworkError), Err: err}
}

func newTimeoutError(err error) *Error {
	return &Error{Kind: KindTimeout, Message: messages.Get(messages.Timeout), Err: err}
}

func newCanceledError(err error) *Error {
	return &Error{Kind: KindCanceled, Message: messages.Get(messages.Canceled), Err: err}
}

func newDecodeError(err error) *Error {
	return &Error{Kind: KindDecode, Message: messages.Get(messages.ServerError), Err: err}
}

func newEncodeError(err error) *Error {
	return &Error{Kind: KindEncode, Message: messages.Get(messages.InvalidBody), Err: err}
}

func newStatusError(status int, message string) *Error {
	return &Error{
		Kind:    KindHTTPStatus,
		Status:  status,
		Message: message,
		Err:     errors.New(http.StatusText(status)),
	}
}
