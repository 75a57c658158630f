package apperrors

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies the failure class of an AppError.
type ErrorCode string

const (
	ErrorCodeInternalError       ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidationError     ErrorCode = "VALIDATION_ERROR"
	ErrorCodeSpeakerNotFound     ErrorCode = "SPEAKER_NOT_FOUND"
	ErrorCodeNoSpeakersAvailable ErrorCode = "NO_SPEAKERS_AVAILABLE"
	ErrorCodeFavoriteNotFound    ErrorCode = "FAVORITE_NOT_FOUND"
	ErrorCodeInvalidIndex        ErrorCode = "INVALID_INDEX"
	ErrorCodeGroupOperation      ErrorCode = "GROUP_OPERATION_FAILED"
	ErrorCodePlayback            ErrorCode = "PLAYBACK_FAILED"
	ErrorCodeNotInitialized      ErrorCode = "NOT_INITIALIZED"
)

// AppError is the error type every manager raises. The HTTP layer maps it
// to a flat {"error": "<message>"} body with StatusCode.
type AppError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Err        error
}

func (err *AppError) Error() string {
	return err.Message
}

func (err *AppError) Unwrap() error {
	return err.Err
}

func NewAppError(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode}
}

func NewValidationError(message string) *AppError {
	return NewAppError(ErrorCodeValidationError, message, http.StatusBadRequest)
}

func NewSpeakerNotFound(name string) *AppError {
	return NewAppError(ErrorCodeSpeakerNotFound, fmt.Sprintf("Speaker '%s' not found", name), http.StatusBadRequest)
}

func NewNoSpeakersAvailable() *AppError {
	return NewAppError(ErrorCodeNoSpeakersAvailable, "No Sonos speakers available", http.StatusBadRequest)
}

func NewFavoriteNotFound(title string) *AppError {
	return NewAppError(ErrorCodeFavoriteNotFound, fmt.Sprintf("Favorite '%s' not found", title), http.StatusBadRequest)
}

func NewInvalidIndex(index, max int) *AppError {
	return NewAppError(ErrorCodeInvalidIndex, fmt.Sprintf("Invalid favorite index: %d (must be 1-%d)", index, max), http.StatusBadRequest)
}

// NewGroupOperationError wraps a transport failure during group
// reconciliation. Prior joins/unjoins are not rolled back.
func NewGroupOperationError(message string, cause error) *AppError {
	return &AppError{
		Code:       ErrorCodeGroupOperation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        cause,
	}
}

// NewPlaybackError wraps a transport failure with speaker/action context.
func NewPlaybackError(message string, cause error) *AppError {
	return &AppError{
		Code:       ErrorCodePlayback,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        cause,
	}
}

// NewNotInitialized denotes that speaker discovery has not completed yet.
func NewNotInitialized() *AppError {
	return NewAppError(ErrorCodeNotInitialized, "Controller not initialized", http.StatusServiceUnavailable)
}

func NewInternalError(message string) *AppError {
	return NewAppError(ErrorCodeInternalError, message, http.StatusInternalServerError)
}

// EnsureAppError converts an arbitrary error into an AppError. Unknown
// errors become opaque 500s so transport details never reach the client.
func EnsureAppError(err error) *AppError {
	if err == nil {
		return NewInternalError("Unknown error")
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError("Internal server error")
}
