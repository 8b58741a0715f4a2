package jsonapi

import (
	"net/http"
	"strconv"
)

// StatusCode parses the error's status field, defaulting to 500.
func (e Error) StatusCode() int {
	status, err := strconv.Atoi(e.Status)
	if err != nil || status < 100 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

func newError(status int, code, title, detail string) Error {
	return Error{
		Status: strconv.Itoa(status),
		Code:   code,
		Title:  title,
		Detail: detail,
	}
}

// ErrBadRequest builds a 400 error.
func ErrBadRequest(detail string) Error {
	return newError(http.StatusBadRequest, "bad_request", "Bad Request", detail)
}

// ErrUnauthorized builds a 401 error.
func ErrUnauthorized(code, detail string) Error {
	return newError(http.StatusUnauthorized, code, "Unauthorized", detail)
}

// ErrPaymentRequired builds a 402 error.
func ErrPaymentRequired(detail string) Error {
	return newError(http.StatusPaymentRequired, "payment_required", "Payment Required", detail)
}

// ErrForbidden builds a 403 error.
func ErrForbidden(code, detail string) Error {
	return newError(http.StatusForbidden, code, "Forbidden", detail)
}

// ErrNotFound builds a 404 error.
func ErrNotFound(detail string) Error {
	return newError(http.StatusNotFound, "not_found", "Not Found", detail)
}

// ErrConflict builds a 409 error.
func ErrConflict(code, detail string) Error {
	return newError(http.StatusConflict, code, "Conflict", detail)
}

// ErrRateLimited builds a 429 error.
func ErrRateLimited(detail string) Error {
	return newError(http.StatusTooManyRequests, "rate_limit_exceeded", "Too Many Requests", detail)
}

// ErrUnavailable builds a 503 error.
func ErrUnavailable(detail string) Error {
	return newError(http.StatusServiceUnavailable, "service_unavailable", "Service Unavailable", detail)
}

// ErrInternal builds a 500 error. The detail is intentionally generic;
// the real cause belongs in the server log, not the response.
func ErrInternal(detail string) Error {
	if detail == "" {
		detail = "An internal error occurred"
	}
	return newError(http.StatusInternalServerError, "internal_error", "Internal Server Error", detail)
}
