package model

import "net/http"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
	ErrCodeStorage         = "STORAGE_ERROR"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// DomainError classifies a failure for both logging and the HTTP layer.
// Status carries the client/server fault classification.
type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewValidationError creates a client-fault error for a missing or invalid
// required field. No partial write occurs before it is returned.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: ErrCodeValidation, Message: message, Status: http.StatusBadRequest}
}

// NewStorageError creates a server-fault error for a persistent-store or
// asset-backend I/O failure.
func NewStorageError(message string) *DomainError {
	return &DomainError{Code: ErrCodeStorage, Message: message, Status: http.StatusInternalServerError}
}

// Common domain errors
var (
	ErrProductNotFound = &DomainError{
		Code:    ErrCodeProductNotFound,
		Message: "Product not found",
		Status:  http.StatusNotFound,
	}
	ErrPhotoRequired = &DomainError{
		Code:    ErrCodeValidation,
		Message: "Photo is required",
		Status:  http.StatusBadRequest,
	}
	ErrFieldsRequired = &DomainError{
		Code:    ErrCodeValidation,
		Message: "All fields are required",
		Status:  http.StatusBadRequest,
	}
)
