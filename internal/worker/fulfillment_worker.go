package worker

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"cakeshop/internal/actuator"
	"cakeshop/internal/model"
)

type State string

const (
	StateIdle State = "idle"
	StateBusy State = "busy"
)

type Registry interface {
	Find(id int) (model.Order, bool)
	MarkProcessing(id int) bool
	SetProgress(id, pct int) bool
	MarkDone(id int) bool
	MarkError(id int, msg string) bool
}

type Queue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (int, bool)
	Ack()
	Closed() bool
}

type Trigger interface {
	Trigger(ctx context.Context, o model.Order) (actuator.Result, error)
}

type Config struct {
	PollTimeout  time.Duration
	MinSteps     int
	MaxSteps     int
	StepInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollTimeout:  300 * time.Millisecond,
		MinSteps:     5,
		MaxSteps:     8,
		StepInterval: time.Second,
	}
}

// FulfillmentWorker is the only consumer of the job queue. It takes one
// order at a time from queued to done or error.
type FulfillmentWorker struct {
	registry Registry
	queue    Queue
	trigger  Trigger
	cfg      Config
	logger   *slog.Logger
	intn     func(n int) int

	busy atomic.Bool
}

func NewFulfillmentWorker(registry Registry, queue Queue, trigger Trigger, cfg Config, logger *slog.Logger) *FulfillmentWorker {
	def := DefaultConfig()
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = def.PollTimeout
	}
	if cfg.MinSteps <= 0 {
		cfg.MinSteps = def.MinSteps
	}
	if cfg.MaxSteps < cfg.MinSteps {
		cfg.MaxSteps = cfg.MinSteps
	}
	if cfg.StepInterval < 0 {
		cfg.StepInterval = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FulfillmentWorker{
		registry: registry,
		queue:    queue,
		trigger:  trigger,
		cfg:      cfg,
		logger:   logger.With("component", "fulfillment_worker"),
		intn:     rand.IntN,
	}
}

func (w *FulfillmentWorker) State() State {
	if w.busy.Load() {
		return StateBusy
	}
	return StateIdle
}

// Start runs until ctx is cancelled or the queue is closed and drained. An
// order still being triggered or in its progress phase at that point is
// left as processing.
func (w *FulfillmentWorker) Start(ctx context.Context) {
	w.logger.Info("starting fulfillment worker")
	defer func() {
		w.busy.Store(false)
		w.logger.Info("fulfillment worker stopped")
	}()

	for ctx.Err() == nil {
		id, ok := w.queue.Dequeue(ctx, w.cfg.PollTimeout)
		if !ok {
			w.busy.Store(false)
			if w.queue.Closed() {
				return
			}
			continue
		}

		w.busy.Store(true)
		w.process(ctx, id)
		w.queue.Ack()
	}
}

func (w *FulfillmentWorker) process(ctx context.Context, id int) {
	log := w.logger.With("order", id)

	if !w.registry.MarkProcessing(id) {
		log.Warn("order not in queued state, skipping")
		return
	}
	order, ok := w.registry.Find(id)
	if !ok {
		log.Warn("order vanished before trigger")
		return
	}

	res, err := w.trigger.Trigger(ctx, order)
	if err != nil {
		if ctx.Err() != nil {
			log.Warn("shutdown during trigger, order abandoned", "error", err)
			return
		}
		log.Error("trigger failed", "error", err)
		w.registry.MarkError(id, err.Error())
		return
	}
	log.Info("batch triggered", "sku", order.SKU, "qty", order.Quantity, "info", res.Info)

	if !w.runProgress(ctx, id, res.RunDuration) {
		log.Warn("shutdown during progress, order abandoned")
		return
	}
	if !w.registry.MarkDone(id) {
		log.Warn("could not mark order done")
		return
	}
	log.Info("order done")
}

// runProgress writes an increasing percentage after each step. It returns
// false if ctx ends first.
func (w *FulfillmentWorker) runProgress(ctx context.Context, id int, runDuration time.Duration) bool {
	steps := w.cfg.MinSteps + w.intn(w.cfg.MaxSteps-w.cfg.MinSteps+1)
	interval := w.cfg.StepInterval
	if runDuration > 0 {
		interval = runDuration / time.Duration(steps)
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for i := range steps {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
		w.registry.SetProgress(id, (i+1)*100/steps)
		timer.Reset(interval)
	}
	return true
}
