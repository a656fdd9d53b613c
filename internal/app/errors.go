package app

import (
	"fmt"
	"net/http"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func notFound(message string) *DomainError {
	return domainError(http.StatusNotFound, "NOT_FOUND", message, nil)
}

func forbidden(message string) *DomainError {
	return domainError(http.StatusForbidden, "FORBIDDEN", message, nil)
}

func conflict(message string) *DomainError {
	return domainError(http.StatusConflict, "CONFLICT", message, nil)
}

func invalidRole(value string) *DomainError {
	return domainError(http.StatusUnprocessableEntity, "INVALID_ROLE", fmt.Sprintf("Unknown role %q", value), nil)
}

func unknownConversationType(value any) *DomainError {
	return domainError(http.StatusUnprocessableEntity, "UNKNOWN_CONVERSATION_TYPE", fmt.Sprintf("Unknown conversation type %v", value), nil)
}

func invariantViolation(message string) *DomainError {
	return domainError(http.StatusUnprocessableEntity, "INVARIANT_VIOLATION", message, nil)
}

func validationError(message string) *DomainError {
	return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, nil)
}
