// Package errors defines the licensing error vocabulary shared by the
// engine and the optional HTTP transport layer.
package errors

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// Sentinel errors for license operations
var (
	ErrTransport           = errors.New("license server unreachable")
	ErrDecodePayload       = errors.New("license token malformed")
	ErrBadSignature        = errors.New("license signature verification failed")
	ErrFingerprintMismatch = errors.New("device fingerprint mismatch")
	ErrWrongProduct        = errors.New("license issued for a different product")
	ErrExpired             = errors.New("trial license expired")
	ErrStaleOffline        = errors.New("validation grace period exceeded")
	ErrNoToken             = errors.New("no license token present")
)

// Error codes surfaced through the HTTP transport
const (
	CodeTransport           = "TRANSPORT_ERROR"
	CodeDecodePayload       = "INVALID_TOKEN"
	CodeBadSignature        = "BAD_SIGNATURE"
	CodeFingerprintMismatch = "FINGERPRINT_MISMATCH"
	CodeWrongProduct        = "WRONG_PRODUCT"
	CodeExpired             = "TRIAL_EXPIRED"
	CodeStaleOffline        = "GRACE_PERIOD_EXCEEDED"
	CodeIOError             = "FILESYSTEM_ERROR"
	CodeNoToken             = "NO_TOKEN"
	CodeInvalidRequest      = "INVALID_REQUEST"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Predefined responses for the transport layer
var (
	ErrAPIInvalidRequest = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrAPINoToken        = New(http.StatusNotFound, CodeNoToken, "No license token is installed")
	ErrAPITransport      = New(http.StatusServiceUnavailable, CodeTransport, "Unable to reach the license server")
	ErrAPIFileSystem     = New(http.StatusInternalServerError, CodeIOError, "File system error")
)

// FromLicenseError maps an engine error to an APIError for rendering.
func FromLicenseError(err error) *APIError {
	switch {
	case errors.Is(err, ErrNoToken):
		return ErrAPINoToken
	case errors.Is(err, ErrTransport):
		return ErrAPITransport
	case errors.Is(err, ErrDecodePayload):
		return New(http.StatusUnprocessableEntity, CodeDecodePayload, "License token is malformed")
	case errors.Is(err, ErrBadSignature):
		return New(http.StatusForbidden, CodeBadSignature, "License signature could not be verified")
	case errors.Is(err, ErrFingerprintMismatch):
		return New(http.StatusForbidden, CodeFingerprintMismatch, "License is bound to a different device")
	case errors.Is(err, ErrWrongProduct):
		return New(http.StatusForbidden, CodeWrongProduct, "License was issued for a different product")
	case errors.Is(err, ErrExpired):
		return New(http.StatusForbidden, CodeExpired, "Trial period has expired")
	case errors.Is(err, ErrStaleOffline):
		return New(http.StatusForbidden, CodeStaleOffline, "License validation grace period has been exceeded")
	default:
		return New(http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
