package memory

import (
	"context"
	"sync"
	"time"

	"github.com/maestro-agents/maestro/logging"
)

// Fact is a single retrieved memory with its relevance score.
type Fact struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Provider is the storage backend contract for long-term memory. Backends are
// scoped per user: facts recorded for one user never surface for another.
type Provider interface {
	// Search returns up to limit facts relevant to the query for the user.
	Search(ctx context.Context, userID, query string, limit int) ([]Fact, error)

	// Add persists a new fact for the user.
	Add(ctx context.Context, userID, content string, metadata map[string]any) error
}

// record is a queued asynchronous write.
type record struct {
	userID   string
	content  string
	metadata map[string]any
}

// GatewayOptions configure the memory gateway.
type GatewayOptions struct {
	// QueueSize bounds the asynchronous record queue. Writes beyond the bound
	// are dropped with a warning rather than blocking the caller.
	QueueSize int
	// Workers is the number of goroutines draining the record queue.
	Workers int
	// SearchLimit caps how many facts a Retrieve call returns.
	SearchLimit int
	// WriteTimeout bounds each backend Add call.
	WriteTimeout time.Duration
	// Logger used for gateway events.
	Logger logging.Logger
}

// Gateway brokers memory access for agents. Retrieval is synchronous and best
// effort: backend failures are logged and surface as an empty result so a
// degraded memory store never fails a model turn. Recording is asynchronous
// through a bounded queue drained by background workers; Close stops intake
// and drains pending writes.
type Gateway struct {
	provider Provider
	opts     GatewayOptions
	logger   logging.Logger

	queue chan record
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewGateway starts a gateway over the given provider. The zero options are
// filled with sensible defaults (queue of 128, a single worker, five facts per
// retrieval, ten second write timeout).
func NewGateway(provider Provider, optFns ...func(o *GatewayOptions)) *Gateway {
	opts := GatewayOptions{
		QueueSize:    128,
		Workers:      1,
		SearchLimit:  5,
		WriteTimeout: 10 * time.Second,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 128
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 5
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	g := &Gateway{
		provider: provider,
		opts:     opts,
		logger:   opts.Logger,
		queue:    make(chan record, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		g.wg.Add(1)
		go g.worker()
	}
	return g
}

// Retrieve returns facts relevant to the query for the user. A backend error
// is logged and reported as no facts.
func (g *Gateway) Retrieve(ctx context.Context, userID, query string) []Fact {
	if userID == "" || query == "" {
		return nil
	}
	facts, err := g.provider.Search(ctx, userID, query, g.opts.SearchLimit)
	if err != nil {
		g.logger.Error("memory.retrieve.error", "user_id", userID, "error", err.Error())
		return nil
	}
	g.logger.Debug("memory.retrieve.done", "user_id", userID, "facts", len(facts))
	return facts
}

// Record enqueues an asynchronous write of the content for the user. It never
// blocks: when the queue is full or the gateway is closed the write is dropped
// with a warning.
func (g *Gateway) Record(userID, content string, metadata map[string]any) {
	if userID == "" || content == "" {
		return
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		g.logger.Warn("memory.record.dropped", "user_id", userID, "reason", "gateway closed")
		return
	}
	select {
	case g.queue <- record{userID: userID, content: content, metadata: metadata}:
		g.mu.Unlock()
	default:
		g.mu.Unlock()
		g.logger.Warn("memory.record.dropped", "user_id", userID, "reason", "queue full")
	}
}

// Close stops accepting new records, drains the queue and waits for workers.
func (g *Gateway) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	close(g.queue)
	g.mu.Unlock()

	g.wg.Wait()
}

func (g *Gateway) worker() {
	defer g.wg.Done()
	for rec := range g.queue {
		ctx, cancel := context.WithTimeout(context.Background(), g.opts.WriteTimeout)
		if err := g.provider.Add(ctx, rec.userID, rec.content, rec.metadata); err != nil {
			g.logger.Error("memory.record.error", "user_id", rec.userID, "error", err.Error())
		} else {
			g.logger.Debug("memory.record.done", "user_id", rec.userID)
		}
		cancel()
	}
}
