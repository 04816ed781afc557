// Package ledger implements the in-memory transaction ledger: per-client
// accounts, the transaction cache used to resolve disputes, and the
// apply logic that moves funds between available and held balances while
// enforcing the dispute lifecycle.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/clearbook/clearbook/internal/money"
)

// Ledger applies transaction records against the account store and the
// transaction cache. A rejected record never mutates state; it is
// logged, appended to the account's history as rejected, and the run
// continues. Apply for one client is serialized by that account's lock,
// so callers may apply records for different clients concurrently as
// long as each client's records arrive in order.
type Ledger struct {
	store  *Store
	cache  *Cache
	logger *slog.Logger
}

// New creates an empty ledger. State lives until the process exits;
// nothing is persisted.
func New(logger *slog.Logger) *Ledger {
	return &Ledger{store: NewStore(), cache: NewCache(), logger: logger}
}

// Apply validates and applies one record. The returned error reports a
// rejection for the caller's benefit; the record has already been
// logged and recorded in history either way.
func (l *Ledger) Apply(rec Record) error {
	acct := l.store.Account(rec.Client)
	acct.mu.Lock()
	defer acct.mu.Unlock()

	err := l.apply(rec, acct)

	entry := HistoryEntry{Record: rec, Applied: err == nil}
	if err != nil {
		entry.Reason = err.Error()
		l.logger.Warn("transaction rejected",
			slog.String("kind", string(rec.Kind)),
			slog.Uint64("client", uint64(rec.Client)),
			slog.Uint64("tx", uint64(rec.Tx)),
			slog.Any("error", err),
		)
	}
	acct.history = append(acct.history, entry)
	return err
}

func (l *Ledger) apply(rec Record, acct *Account) error {
	switch rec.Kind {
	case KindDeposit:
		return l.applyDeposit(rec, acct)
	case KindWithdrawal:
		return l.applyWithdrawal(rec, acct)
	case KindDispute:
		return l.applyDispute(rec, acct)
	case KindResolve:
		return l.applyResolve(rec, acct)
	case KindChargeback:
		return l.applyChargeback(rec, acct)
	default:
		return fmt.Errorf("unknown transaction type %q", rec.Kind)
	}
}

func (l *Ledger) applyDeposit(rec Record, acct *Account) error {
	if acct.locked {
		return ErrAccountLocked
	}
	if !rec.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	available, err := acct.available.Add(rec.Amount)
	if err != nil {
		return err
	}
	// Deposits are the only operation that grows available+held, so the
	// headroom check must cover the sum: held funds count against the
	// representable range too.
	if _, err := available.Add(acct.held); err != nil {
		return err
	}
	// Last fallible step: nothing is mutated until the id is claimed.
	if err := l.cache.Record(rec.Tx, rec.Client, KindDeposit, rec.Amount); err != nil {
		return err
	}
	acct.available = available
	return nil
}

func (l *Ledger) applyWithdrawal(rec Record, acct *Account) error {
	if acct.locked {
		return ErrAccountLocked
	}
	if !rec.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if acct.available.Cmp(rec.Amount) < 0 {
		return ErrInsufficientFunds
	}
	available, err := acct.available.Sub(rec.Amount)
	if err != nil {
		return err
	}
	if err := l.cache.Record(rec.Tx, rec.Client, KindWithdrawal, rec.Amount); err != nil {
		return err
	}
	acct.available = available
	return nil
}

func (l *Ledger) applyDispute(rec Record, acct *Account) error {
	cached, err := l.referenced(rec)
	if err != nil {
		return err
	}
	if cached.State != StateClean {
		// Resolved and charged-back transactions are terminal for
		// dispute purposes; re-disputing them is rejected.
		return ErrInvalidDisputeState
	}
	if acct.available.Cmp(cached.Amount) < 0 {
		return ErrInsufficientHeldableFunds
	}
	available, err := acct.available.Sub(cached.Amount)
	if err != nil {
		return err
	}
	held, err := acct.held.Add(cached.Amount)
	if err != nil {
		return err
	}
	if err := l.cache.SetState(rec.Tx, StateDisputed); err != nil {
		return err
	}
	acct.available = available
	acct.held = held
	return nil
}

func (l *Ledger) applyResolve(rec Record, acct *Account) error {
	cached, err := l.referenced(rec)
	if err != nil {
		return err
	}
	if cached.State != StateDisputed {
		return ErrInvalidDisputeState
	}
	held, err := acct.held.Sub(cached.Amount)
	if err != nil {
		return l.invariantViolation(rec, err)
	}
	available, err := acct.available.Add(cached.Amount)
	if err != nil {
		return err
	}
	if err := l.cache.SetState(rec.Tx, StateResolved); err != nil {
		return err
	}
	acct.held = held
	acct.available = available
	return nil
}

func (l *Ledger) applyChargeback(rec Record, acct *Account) error {
	cached, err := l.referenced(rec)
	if err != nil {
		return err
	}
	if cached.State != StateDisputed {
		return ErrInvalidDisputeState
	}
	// The held funds leave the account entirely.
	held, err := acct.held.Sub(cached.Amount)
	if err != nil {
		return l.invariantViolation(rec, err)
	}
	if err := l.cache.SetState(rec.Tx, StateChargedBack); err != nil {
		return err
	}
	acct.held = held
	acct.locked = true
	return nil
}

// referenced resolves the prior transaction a dispute lifecycle record
// points at, enforcing existence and ownership.
func (l *Ledger) referenced(rec Record) (CachedTx, error) {
	cached, ok := l.cache.Lookup(rec.Tx)
	if !ok {
		return CachedTx{}, ErrUnknownTransaction
	}
	if cached.Client != rec.Client {
		return CachedTx{}, ErrClientMismatch
	}
	return cached, nil
}

// invariantViolation reports arithmetic that the dispute state machine
// should have made impossible. The record is rejected and the run
// continues; the loud log is the point. The cause is formatted rather
// than wrapped so it cannot match a recoverable rejection kind.
func (l *Ledger) invariantViolation(rec Record, err error) error {
	wrapped := fmt.Errorf("internal invariant violation applying %s tx %d for client %d: %v",
		rec.Kind, rec.Tx, rec.Client, err)
	l.logger.Error("ledger invariant violation", slog.Any("error", wrapped))
	return wrapped
}

// Snapshot returns the balances for one client, if the account exists.
func (l *Ledger) Snapshot(client ClientID) (Snapshot, bool) {
	acct, ok := l.store.Lookup(client)
	if !ok {
		return Snapshot{}, false
	}
	return acct.Snapshot(), true
}

// History returns the audit trail for one client, if the account exists.
func (l *Ledger) History(client ClientID) ([]HistoryEntry, bool) {
	acct, ok := l.store.Lookup(client)
	if !ok {
		return nil, false
	}
	return acct.History(), true
}

// Snapshots returns the final balances of every account.
func (l *Ledger) Snapshots() map[ClientID]Snapshot {
	return l.store.Snapshots()
}

// SortedSnapshots returns every account's balances in ascending client
// order, for deterministic reporting.
func (l *Ledger) SortedSnapshots() []Snapshot {
	snaps := l.store.Snapshots()
	out := make([]Snapshot, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// IsRejection reports whether err is one of the per-record rejection
// kinds, as opposed to an internal invariant violation. Arithmetic
// overflow on an incoming amount counts: it rejects that record and the
// run continues. A held-balance underflow does not; that path wraps the
// money error in an invariant-violation report.
func IsRejection(err error) bool {
	for _, rejection := range []error{
		ErrInsufficientFunds,
		ErrDuplicateTransaction,
		ErrUnknownTransaction,
		ErrClientMismatch,
		ErrInvalidDisputeState,
		ErrInsufficientHeldableFunds,
		ErrAccountLocked,
		ErrInvalidAmount,
		money.ErrOverflow,
	} {
		if errors.Is(err, rejection) {
			return true
		}
	}
	return false
}
