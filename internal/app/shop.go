// Package app wires the order registry, job queue, actuator and worker
// into one service object with an explicit lifecycle.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"cakeshop/internal/actuator"
	"cakeshop/internal/model"
	"cakeshop/internal/service"
	"cakeshop/internal/worker"
)

var (
	ErrAlreadyStarted = errors.New("shop already started")
	ErrStopped        = errors.New("shop stopped")
)

// Stats is the monitoring view exposed to the status endpoints.
type Stats struct {
	State    worker.State `json:"state"`
	Pending  int          `json:"pending"`
	InFlight int          `json:"in_flight"`
	Orders   int          `json:"orders"`
	Strategy string       `json:"strategy"`
}

type Shop struct {
	registry *service.OrderRegistry
	queue    *service.JobQueue
	actuator *actuator.Actuator
	worker   *worker.FulfillmentWorker
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewShop(registry *service.OrderRegistry, act *actuator.Actuator, cfg worker.Config, logger *slog.Logger) *Shop {
	if logger == nil {
		logger = slog.Default()
	}
	queue := service.NewJobQueue()
	return &Shop{
		registry: registry,
		queue:    queue,
		actuator: act,
		worker:   worker.NewFulfillmentWorker(registry, queue, act, cfg, logger),
		logger:   logger.With("component", "shop"),
	}
}

// Start launches the fulfillment worker in the background.
func (s *Shop) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrAlreadyStarted
	}
	if s.queue.Closed() {
		return ErrStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		s.worker.Start(ctx)
	}(s.done)

	s.logger.Info("shop started", "strategy", s.actuator.StrategyName())
	return nil
}

// Stop closes the queue, signals the worker and waits for it to return.
// Orders submitted afterwards are recorded but never fulfilled. Safe to
// call twice.
func (s *Shop) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	s.queue.Close()
	cancel()
	<-done
	s.logger.Info("shop stopped")
}

// Submit records the order and queues it. It never waits for fulfillment.
func (s *Shop) Submit(sku string, qty int) model.Order {
	o := s.registry.Create(sku, qty)
	if !s.queue.Enqueue(o.ID) {
		s.logger.Warn("queue closed, order will not be fulfilled", "order", o.ID)
		return o
	}
	s.logger.Info("order accepted", "order", o.ID, "sku", sku, "qty", qty)
	return o
}

func (s *Shop) Find(id int) (model.Order, bool) {
	return s.registry.Find(id)
}

func (s *Shop) Snapshot() []model.Order {
	return s.registry.Snapshot()
}

func (s *Shop) WorkerState() worker.State {
	return s.worker.State()
}

func (s *Shop) Stats() Stats {
	return Stats{
		State:    s.worker.State(),
		Pending:  s.queue.Pending(),
		InFlight: s.queue.InFlight(),
		Orders:   s.registry.Len(),
		Strategy: s.actuator.StrategyName(),
	}
}

func (s *Shop) PauseMachine(ctx context.Context) error {
	return s.actuator.Pause(ctx)
}

func (s *Shop) StopMachine(ctx context.Context) error {
	return s.actuator.Stop(ctx)
}
