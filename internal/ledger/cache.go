package ledger

import (
	"sync"

	"github.com/clearbook/clearbook/internal/money"
)

// CachedTx is the dispute-resolution view of a past deposit or
// withdrawal. Client, kind and amount are fixed at creation; only the
// dispute state changes afterwards.
type CachedTx struct {
	Client ClientID
	Kind   Kind
	Amount money.Money
	State  DisputeState
}

// Cache indexes every applied deposit and withdrawal by transaction id
// for the lifetime of one run. Entries are never evicted: a dispute may
// arrive arbitrarily long after the transaction it references.
type Cache struct {
	mu      sync.RWMutex
	entries map[TxID]*CachedTx
}

// NewCache creates an empty transaction cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[TxID]*CachedTx)}
}

// Record inserts a new entry in the clean state. An already-present id
// is malformed input and fails with ErrDuplicateTransaction; the
// existing entry is left untouched.
func (c *Cache) Record(tx TxID, client ClientID, kind Kind, amount money.Money) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[tx]; exists {
		return ErrDuplicateTransaction
	}
	c.entries[tx] = &CachedTx{Client: client, Kind: kind, Amount: amount, State: StateClean}
	return nil
}

// Lookup returns a copy of the entry for tx, if any.
func (c *Cache) Lookup(tx TxID) (CachedTx, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[tx]
	if !ok {
		return CachedTx{}, false
	}
	return *entry, true
}

// SetState advances the dispute state of an existing entry. All other
// fields are immutable after Record.
func (c *Cache) SetState(tx TxID, state DisputeState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[tx]
	if !ok {
		return ErrUnknownTransaction
	}
	entry.State = state
	return nil
}
