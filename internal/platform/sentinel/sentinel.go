package sentinel

import "errors"

// Error kinds shared by the domain packages. Domain code wraps these with
// context (fmt.Errorf("...: %w", ErrNotFound)) and the transport layer maps
// them to status codes with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidState        = errors.New("invalid state")
	ErrAlreadyExists       = errors.New("already exists")
)

// Kind is the stable machine-readable code for an error kind.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindInvalidInput        Kind = "invalid_input"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindInvalidState        Kind = "invalid_state"
	KindAlreadyExists       Kind = "already_exists"
	KindInternal            Kind = "internal"
)

// KindOf classifies err. Errors outside the known kinds are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	default:
		return KindInternal
	}
}
