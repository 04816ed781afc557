package ledger

import (
	"fmt"

	"github.com/clearbook/clearbook/internal/money"
)

// ClientID identifies an account holder.
type ClientID uint64

// TxID identifies a deposit or withdrawal. Ids are globally unique
// across all clients: a dispute references a transaction by id alone,
// so reuse across clients would be ambiguous.
type TxID uint32

// Kind is the transaction type as it appears on the wire.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind validates transaction type text from an adapter.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// MovesFunds reports whether the kind carries an amount of its own.
// Dispute lifecycle kinds reference a prior transaction's amount instead.
func (k Kind) MovesFunds() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Record is one immutable input event. Amount is meaningful only when
// Kind.MovesFunds(); it is ignored for dispute lifecycle kinds.
type Record struct {
	Kind   Kind        `json:"type"`
	Client ClientID    `json:"client"`
	Tx     TxID        `json:"tx"`
	Amount money.Money `json:"amount"`
}

// DisputeState tracks a cached transaction through the dispute lifecycle.
type DisputeState string

const (
	// StateClean is the initial state; the transaction may be disputed.
	StateClean DisputeState = "clean"
	// StateDisputed means funds are held pending resolution.
	StateDisputed DisputeState = "disputed"
	// StateResolved is terminal: the dispute was withdrawn and the
	// transaction may not be disputed again.
	StateResolved DisputeState = "resolved"
	// StateChargedBack is terminal: funds left the account and the
	// account is locked.
	StateChargedBack DisputeState = "charged_back"
)
