package ledger

import "errors"

// Protocol errors surfaced by the task state machine. The gateway API maps
// these one-to-one onto response bodies so callers see the specific kind,
// never a generic failure.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskNotPending     = errors.New("task not pending")
	ErrTaskExpired        = errors.New("task expired")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrNotOperator        = errors.New("not a registered operator")
	ErrInvalidRequirement = errors.New("invalid requirement")
	ErrAlreadySatisfied   = errors.New("requirement already satisfied")
	ErrNotOwner           = errors.New("not the owner")
	ErrNotRequester       = errors.New("not an authorized requester")
	ErrResultNotFound     = errors.New("result not found")
)
