package ledger

import (
	"sync"

	"github.com/clearbook/clearbook/internal/money"
)

// HistoryEntry records one input event against an account together with
// its outcome. History is append-only and exists for audit; the
// transaction cache, not history, drives dispute resolution.
type HistoryEntry struct {
	Record  Record `json:"record"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// Account is the mutable per-client state. All access goes through the
// owning Store; the embedded mutex serializes every apply and snapshot
// for one client while leaving other clients free to proceed.
type Account struct {
	mu        sync.Mutex
	client    ClientID
	available money.Money
	held      money.Money
	locked    bool
	history   []HistoryEntry
}

// Snapshot is the read-only view of an account at a point in time.
// Total is derived from available and held, never stored.
type Snapshot struct {
	Client    ClientID    `json:"client"`
	Available money.Money `json:"available"`
	Held      money.Money `json:"held"`
	Total     money.Money `json:"total"`
	Locked    bool        `json:"locked"`
}

func (a *Account) snapshot() Snapshot {
	// Deposits reject any amount that would push available+held past the
	// representable bound, so the derived total cannot overflow.
	total, _ := a.available.Add(a.held)
	return Snapshot{
		Client:    a.client,
		Available: a.available,
		Held:      a.held,
		Total:     total,
		Locked:    a.locked,
	}
}

// Snapshot returns the account's current balances.
func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// History returns a copy of the account's audit trail in arrival order.
func (a *Account) History() []HistoryEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]HistoryEntry, len(a.history))
	copy(out, a.history)
	return out
}
