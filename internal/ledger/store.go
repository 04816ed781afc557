package ledger

import "sync"

// Store owns every Account for the lifetime of one run, keyed by client
// id. Lookups vastly outnumber account creation, hence the RWMutex over
// the map; each account carries its own mutex so transactions for
// different clients apply concurrently.
type Store struct {
	mu       sync.RWMutex
	accounts map[ClientID]*Account
}

// NewStore creates an empty account store.
func NewStore() *Store {
	return &Store{accounts: make(map[ClientID]*Account)}
}

// Account returns the account for client, creating it with zero
// balances on first reference.
func (s *Store) Account(client ClientID) *Account {
	s.mu.RLock()
	acct, ok := s.accounts[client]
	s.mu.RUnlock()
	if ok {
		return acct
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another goroutine may have created it between the two locks.
	if acct, ok := s.accounts[client]; ok {
		return acct
	}
	acct = &Account{client: client}
	s.accounts[client] = acct
	return acct
}

// Lookup returns the account for client without creating one.
func (s *Store) Lookup(client ClientID) (*Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[client]
	return acct, ok
}

// Snapshots returns the current balances of every account.
func (s *Store) Snapshots() map[ClientID]Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[ClientID]Snapshot, len(s.accounts))
	for client, acct := range s.accounts {
		out[client] = acct.Snapshot()
	}
	return out
}
