package booking

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError is a business-rule violation carrying the HTTP status the
// handler boundary should translate it to.
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &ServiceError{Status: http.StatusBadRequest, Code: "validationError", Message: msg}
}

func NewNotFoundError(msg string) error {
	return &ServiceError{Status: http.StatusNotFound, Code: "notFound", Message: msg}
}

func NewConflictError(msg string) error {
	return &ServiceError{Status: http.StatusConflict, Code: "conflict", Message: msg}
}

func NewForbiddenError(msg string) error {
	return &ServiceError{Status: http.StatusForbidden, Code: "forbidden", Message: msg}
}

// NewPaymentError marks a recoverable payment-integrity failure (signature
// mismatch), not a system fault.
func NewPaymentError(msg string) error {
	return &ServiceError{Status: http.StatusBadRequest, Code: "paymentError", Message: msg}
}

// StatusOf maps an error to its HTTP status; unrecognised errors are 500.
func StatusOf(err error) int {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Status
	}
	return http.StatusInternalServerError
}
