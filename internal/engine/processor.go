// Package engine provides the ingestion pipeline between producers and
// the ledger: a set of buffered queues plus consumer goroutines that
// apply records one at a time per client.
package engine

import (
	"log/slog"
	"sync"

	"github.com/clearbook/clearbook/internal/ledger"
)

const (
	defaultQueueSize = 100
	defaultWorkers   = 1
)

// Options tunes the processor. Zero values select the defaults: a
// single consumer draining one queue of capacity 100.
type Options struct {
	// QueueSize is the capacity of each worker's queue. Producers block
	// once a queue is full.
	QueueSize int
	// Workers is the number of consumer goroutines. Records route to a
	// worker by client id, so one client's records are always applied in
	// arrival order no matter how many workers run.
	Workers int
}

// Processor decouples producers from the ledger. Submit enqueues and
// never fails; malformed content is rejected later by the ledger and
// reported through logs and account history, not through Submit.
type Processor struct {
	ledger  *ledger.Ledger
	queues  []chan ledger.Record
	wg      sync.WaitGroup
	closing sync.Once
	logger  *slog.Logger
}

// NewProcessor starts the consumer goroutines and returns a processor
// ready to accept records.
func NewProcessor(l *ledger.Ledger, logger *slog.Logger, opts Options) *Processor {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}

	p := &Processor{
		ledger: l,
		queues: make([]chan ledger.Record, opts.Workers),
		logger: logger,
	}
	for i := range p.queues {
		p.queues[i] = make(chan ledger.Record, opts.QueueSize)
	}

	p.wg.Add(opts.Workers)
	for _, queue := range p.queues {
		go p.consume(queue)
	}
	return p
}

// Submit enqueues one record, blocking while the client's queue is
// full. Submit must not be called after Close.
func (p *Processor) Submit(rec ledger.Record) {
	p.queues[int(uint64(rec.Client)%uint64(len(p.queues)))] <- rec
}

// Close signals that no further records will arrive, drains every
// queue, and returns once all queued records have been applied. The
// ledger then holds the final account states.
func (p *Processor) Close() {
	p.closing.Do(func() {
		for _, queue := range p.queues {
			close(queue)
		}
	})
	p.wg.Wait()
}

func (p *Processor) consume(queue <-chan ledger.Record) {
	defer p.wg.Done()
	for rec := range queue {
		// Per-record rejections are already logged and recorded in the
		// account's history; only escalate anything beyond them.
		if err := p.ledger.Apply(rec); err != nil && !ledger.IsRejection(err) {
			p.logger.Error("internal error applying transaction",
				slog.Uint64("client", uint64(rec.Client)),
				slog.Uint64("tx", uint64(rec.Tx)),
				slog.Any("error", err),
			)
		}
	}
	p.logger.Debug("ingestion queue drained")
}
