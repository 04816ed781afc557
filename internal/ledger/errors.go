package ledger

import "errors"

var (
	// ErrInsufficientFunds occurs when a withdrawal exceeds the account's
	// available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateTransaction indicates the transaction id was already used
	// by an earlier deposit or withdrawal. Duplicate ids are malformed
	// input and are rejected, never overwritten.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrUnknownTransaction indicates a dispute, resolve or chargeback
	// referencing a transaction id that was never recorded.
	ErrUnknownTransaction = errors.New("unknown transaction")

	// ErrClientMismatch indicates a dispute, resolve or chargeback naming a
	// different client than the referenced transaction belongs to.
	ErrClientMismatch = errors.New("client does not own transaction")

	// ErrInvalidDisputeState indicates a dispute lifecycle operation that
	// is illegal in the transaction's current state, e.g. resolving a
	// transaction that is not under dispute.
	ErrInvalidDisputeState = errors.New("invalid dispute state")

	// ErrInsufficientHeldableFunds occurs when a dispute would hold more
	// than the account's available balance.
	ErrInsufficientHeldableFunds = errors.New("insufficient heldable funds")

	// ErrAccountLocked indicates the account has suffered a chargeback and
	// no longer accepts funds-moving transactions.
	ErrAccountLocked = errors.New("account locked")

	// ErrInvalidAmount indicates a deposit or withdrawal whose amount is
	// zero or negative. Adapters validate amounts first; the engine still
	// refuses to apply one.
	ErrInvalidAmount = errors.New("amount must be positive")
)
