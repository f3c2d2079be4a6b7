package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so detail-carrying copies still
// compare equal to their sentinel
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// WithDetails returns a copy of the error carrying additional context
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with a specific message
func NewValidationError(message string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists          = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrValidation             = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrConcurrentModification = NewDomainError("CONCURRENT_MODIFICATION", "Resource was modified by another process")
	ErrInvalidState           = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrExceedsBalance         = NewDomainError("EXCEEDS_BALANCE", "Collection amount exceeds bill balance")
	ErrExceedsTotal           = NewDomainError("EXCEEDS_TOTAL", "Paid amount would exceed bill total")
	ErrOverpayment            = NewDomainError("OVERPAYMENT", "Payment would overdraw the bill")
	ErrDependencyExists       = NewDomainError("DEPENDENCY_EXISTS", "Resource is referenced by other records")
	ErrBusinessRuleViolation  = NewDomainError("BUSINESS_RULE_VIOLATION", "Business rule violation")
)
