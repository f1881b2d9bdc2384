// Package response defines the envelope every API response is wrapped in.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body. Payload is set when Success is true
// and Error when it is false; an error envelope may also carry a payload.
type Envelope[T any] struct {
	Success    bool      `json:"success"`
	Payload    *T        `json:"payload"`
	Error      *APIError `json:"error"`
	StatusCode int       `json:"statusCode"`
}

// APIError describes a failed request.
type APIError struct {
	// Code identifies the kind of failure; it mirrors the HTTP status.
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Success wraps payload with status 200.
func Success[T any](payload T) Envelope[T] {
	return Envelope[T]{
		Success:    true,
		Payload:    &payload,
		StatusCode: http.StatusOK,
	}
}

// Error builds a failed envelope with status 400.
func Error[T any](code int, message string) Envelope[T] {
	return Envelope[T]{
		Success:    false,
		Error:      &APIError{Code: code, Message: message},
		StatusCode: http.StatusBadRequest,
	}
}

// NotFound builds a failed envelope with code and status 404.
func NotFound[T any](message string) Envelope[T] {
	return Error[T](http.StatusNotFound, message).WithStatus(http.StatusNotFound)
}

// WithStatus returns a copy of e with its status code replaced.
func (e Envelope[T]) WithStatus(statusCode int) Envelope[T] {
	e.StatusCode = statusCode
	return e
}

// WithPayload returns a copy of e carrying payload. Error envelopes leave it
// null unless a caller has detail to attach.
func (e Envelope[T]) WithPayload(payload T) Envelope[T] {
	e.Payload = &payload
	return e
}

// Write renders e as JSON using its own status code.
func Write[T any](c *gin.Context, e Envelope[T]) {
	c.JSON(e.StatusCode, e)
}

// Abort renders e and stops the handler chain.
func Abort[T any](c *gin.Context, e Envelope[T]) {
	c.AbortWithStatusJSON(e.StatusCode, e)
}
