package responses

import (
	"fmt"
	"strings"
)

// Error describes an error for humans and machines
type Error struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e Error) Error() string {
	return fmt.Sprintf("status:%d, message:%q, details:%q", e.Status, e.Message, strings.Join(e.Details, "; "))
}

// NewValidationError - a user input error with per-violation details
func NewValidationError(details ...string) *Error {
	return &Error{
		Status:  400,
		Message: "Validation error",
		Details: details,
	}
}
