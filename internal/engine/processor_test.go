package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/clearbook/clearbook/internal/ledger"
	"github.com/clearbook/clearbook/internal/logging"
	"github.com/clearbook/clearbook/internal/money"
)

func TestCloseDrainsAllQueuedRecords(t *testing.T) {
	led := ledger.New(logging.Discard())
	p := NewProcessor(led, logging.Discard(), Options{QueueSize: 4})

	for i := 1; i <= 100; i++ {
		p.Submit(ledger.Record{
			Kind:   ledger.KindDeposit,
			Client: 1,
			Tx:     ledger.TxID(i),
			Amount: money.MustParse("1"),
		})
	}
	p.Close()

	snap, ok := led.Snapshot(1)
	if !ok {
		t.Fatal("no account after drain")
	}
	if snap.Available.Cmp(money.MustParse("100")) != 0 {
		t.Fatalf("available = %s, want 100.0000", snap.Available)
	}
}

func TestPerClientOrderPreserved(t *testing.T) {
	led := ledger.New(logging.Discard())
	p := NewProcessor(led, logging.Discard(), Options{})

	// A withdrawal queued after the deposit must see its funds.
	p.Submit(ledger.Record{Kind: ledger.KindDeposit, Client: 1, Tx: 1, Amount: money.MustParse("10")})
	p.Submit(ledger.Record{Kind: ledger.KindWithdrawal, Client: 1, Tx: 2, Amount: money.MustParse("10")})
	p.Close()

	snap, _ := led.Snapshot(1)
	if !snap.Available.IsZero() {
		t.Fatalf("available = %s, want 0.0000", snap.Available)
	}

	history, _ := led.History(1)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	for i, entry := range history {
		if !entry.Applied {
			t.Fatalf("history[%d] rejected: %s", i, entry.Reason)
		}
	}
}

func TestMultipleWorkersConserveFundsAcrossClients(t *testing.T) {
	led := ledger.New(logging.Discard())
	p := NewProcessor(led, logging.Discard(), Options{Workers: 4, QueueSize: 8})

	const clients = 16
	const perClient = 25

	var wg sync.WaitGroup
	tx := 0
	var txMu sync.Mutex
	nextTx := func() ledger.TxID {
		txMu.Lock()
		defer txMu.Unlock()
		tx++
		return ledger.TxID(tx)
	}

	for c := 1; c <= clients; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			for i := 0; i < perClient; i++ {
				p.Submit(ledger.Record{
					Kind:   ledger.KindDeposit,
					Client: ledger.ClientID(c),
					Tx:     nextTx(),
					Amount: money.MustParse("2"),
				})
			}
		}(c)
	}
	wg.Wait()
	p.Close()

	for c := 1; c <= clients; c++ {
		snap, ok := led.Snapshot(ledger.ClientID(c))
		if !ok {
			t.Fatalf("no account for client %d", c)
		}
		want := money.MustParse(fmt.Sprintf("%d", 2*perClient))
		if snap.Available.Cmp(want) != 0 {
			t.Fatalf("client %d available = %s, want %s", c, snap.Available, want)
		}
	}
}

func TestCloseIsSafeToCallTwice(t *testing.T) {
	led := ledger.New(logging.Discard())
	p := NewProcessor(led, logging.Discard(), Options{})
	p.Close()
	p.Close()
}
