package meli

// ErrorKind classifies a marketplace call failure
type ErrorKind int

const (
	// KindTransport means the connection could not be completed
	// (timeout, DNS, connection reset)
	KindTransport ErrorKind = iota
	// KindHTTP means a reachable server answered with a non-2xx status
	KindHTTP
	// KindInvalid means a locally-invalid input or a 2xx response
	// missing required fields
	KindInvalid
)

// Error is a structured marketplace call failure carrying a kind and a
// user-presentable message
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error()}
}

func httpError(message string) *Error {
	return &Error{Kind: KindHTTP, Message: message}
}

func invalidError(message string) *Error {
	return &Error{Kind: KindInvalid, Message: message}
}
