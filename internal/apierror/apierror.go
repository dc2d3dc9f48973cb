package apierror

import "net/http"

// Error is a failure that carries the HTTP status code it should be
// reported with. Components convert every external-call failure into an
// *Error before it crosses into the orchestrator or a handler.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func New(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unprocessable(message string) *Error {
	return New(http.StatusUnprocessableEntity, message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) StatusCode() int {
	return e.Code
}
