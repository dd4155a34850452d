package errors

import "net/http"

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Validation wraps the joined, user-facing violation list.
func Validation(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

// MethodNotAllowed is returned for any non-POST call to the contact endpoint.
func MethodNotAllowed() *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: "Méthode non autorisée", StatusCode: http.StatusMethodNotAllowed}
}

// StatusCode returns the HTTP status carried by err, 500 otherwise.
func StatusCode(err error) int {
	if e, ok := err.(*ErrorWithStatusCode); ok {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}
