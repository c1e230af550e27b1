package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cakeshop/internal/model"
)

const (
	journalBuffer       = 256
	journalWriteTimeout = 2 * time.Second
)

const insertEventSQL = `INSERT INTO order_events (event_id, order_id, sku, qty, status, progress, ts, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Journal appends every order change to order_events. It is write-only:
// nothing is ever loaded back into the registry. Writes happen on a
// background goroutine so a slow database never holds up the worker; when
// the buffer is full events are dropped and counted.
type Journal struct {
	db      execer
	events  chan model.Order
	logger  *slog.Logger
	now     func() time.Time
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	dropped int
}

func NewJournal(db execer, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{
		db:     db,
		events: make(chan model.Order, journalBuffer),
		logger: logger.With("component", "order_journal"),
		now:    time.Now,
	}
}

// Record writes one event synchronously.
func (j *Journal) Record(ctx context.Context, o model.Order) error {
	var progress sql.NullInt32
	if o.Progress != nil {
		progress = sql.NullInt32{Int32: int32(*o.Progress), Valid: true}
	}
	_, err := j.db.ExecContext(ctx, insertEventSQL,
		uuid.New(), o.ID, o.SKU, o.Quantity, string(o.Status), progress, o.LastUpdate, j.now(),
	)
	if err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}
	return nil
}

// Observe queues o for writing. It never blocks.
func (j *Journal) Observe(o model.Order) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}
	select {
	case j.events <- o:
	default:
		j.dropped++
		j.logger.Warn("journal buffer full, event dropped", "order", o.ID, "status", o.Status)
	}
}

// Start drains queued events until Close.
func (j *Journal) Start() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		for o := range j.events {
			ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
			if err := j.Record(ctx, o); err != nil {
				j.logger.Error("journal write failed", "order", o.ID, "error", err)
			}
			cancel()
		}
	}()
}

// Close stops accepting events and waits for queued ones to be written.
func (j *Journal) Close() {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	j.closed = true
	close(j.events)
	j.mu.Unlock()

	j.wg.Wait()
}

func (j *Journal) Dropped() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dropped
}
