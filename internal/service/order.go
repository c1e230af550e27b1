package service

import (
	"sync"

	"cakeshop/internal/clock"
	"cakeshop/internal/model"
)

// Observer receives a copy of an order after every mutation.
// It runs outside the registry lock.
type Observer func(model.Order)

type RegistryOption func(*OrderRegistry)

func WithClock(c clock.Clock) RegistryOption {
	return func(r *OrderRegistry) { r.clock = c }
}

func WithObserver(fn Observer) RegistryOption {
	return func(r *OrderRegistry) { r.observers = append(r.observers, fn) }
}

// OrderRegistry owns every order for the lifetime of the process.
// Orders are kept newest first and never removed.
type OrderRegistry struct {
	mu        sync.Mutex
	orders    []*model.Order
	clock     clock.Clock
	observers []Observer
}

func NewOrderRegistry(opts ...RegistryOption) *OrderRegistry {
	r := &OrderRegistry{clock: clock.System()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers a queued order under the next id.
func (r *OrderRegistry) Create(sku string, qty int) model.Order {
	r.mu.Lock()
	id := 1
	if len(r.orders) > 0 {
		id = r.orders[0].ID + 1
	}
	o := &model.Order{
		ID:         id,
		SKU:        sku,
		Quantity:   qty,
		Status:     model.StatusQueued,
		LastUpdate: r.clock.Stamp(),
	}
	r.orders = append([]*model.Order{o}, r.orders...)
	out := o.Clone()
	r.mu.Unlock()

	r.notify(out)
	return out
}

func (r *OrderRegistry) Find(id int) (model.Order, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := r.lookup(id)
	if o == nil {
		return model.Order{}, false
	}
	return o.Clone(), true
}

// Snapshot copies the whole collection, newest first.
func (r *OrderRegistry) Snapshot() []model.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	return out
}

func (r *OrderRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// MarkProcessing moves a queued order to processing with progress 0.
// The boolean is false when the id is unknown or the transition was refused.
func (r *OrderRegistry) MarkProcessing(id int) bool {
	return r.transition(id, func(o *model.Order) bool {
		if o.Status != model.StatusQueued {
			return false
		}
		zero := 0
		o.Status = model.StatusProcessing
		o.Progress = &zero
		return true
	})
}

// SetProgress records a percentage for a processing order. Values are
// clamped to 0..100 and progress never goes backwards.
func (r *OrderRegistry) SetProgress(id, pct int) bool {
	pct = min(max(pct, 0), 100)
	return r.transition(id, func(o *model.Order) bool {
		if o.Status != model.StatusProcessing {
			return false
		}
		if o.Progress != nil && *o.Progress > pct {
			pct = *o.Progress
		}
		o.Progress = &pct
		return true
	})
}

func (r *OrderRegistry) MarkDone(id int) bool {
	return r.transition(id, func(o *model.Order) bool {
		if o.Status.IsTerminal() {
			return false
		}
		full := 100
		o.Status = model.StatusDone
		o.Progress = &full
		return true
	})
}

// MarkError ends the order with "error: <msg>", leaving progress as it was.
func (r *OrderRegistry) MarkError(id int, msg string) bool {
	return r.transition(id, func(o *model.Order) bool {
		if o.Status.IsTerminal() {
			return false
		}
		o.Status = model.ErrorStatus(msg)
		return true
	})
}

func (r *OrderRegistry) transition(id int, apply func(*model.Order) bool) bool {
	r.mu.Lock()
	o := r.lookup(id)
	if o == nil || !apply(o) {
		r.mu.Unlock()
		return false
	}
	o.LastUpdate = r.clock.Stamp()
	out := o.Clone()
	r.mu.Unlock()

	r.notify(out)
	return true
}

// lookup must be called with mu held.
func (r *OrderRegistry) lookup(id int) *model.Order {
	for _, o := range r.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (r *OrderRegistry) notify(o model.Order) {
	for _, fn := range r.observers {
		fn(o.Clone())
	}
}
