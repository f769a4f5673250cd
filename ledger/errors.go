package ledger

import "errors"

var (
	// ErrValidation is returned when intake or edit input is incomplete or out of
	// range. Nothing is written when it is returned.
	ErrValidation = errors.New("validation failed")

	ErrServiceNotFound      = errors.New("service not found")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrInvalidTransition is returned when a guided action does not apply to
	// the ticket's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)
