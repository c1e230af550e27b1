// Package actuator starts the physical cake batch for one order.
//
// Exactly one Strategy is chosen at startup: a remote webhook or a robot
// dashboard reached over TCP. Actuator serializes every command because the
// machine cannot take a second one while the first is in flight.
package actuator

import (
	"context"
	"errors"
	"sync"
	"time"

	"cakeshop/internal/model"
)

// Result describes a successful trigger.
type Result struct {
	Info string
	// RunDuration is how long the batch is expected to take, zero if unknown.
	RunDuration time.Duration
}

type Strategy interface {
	Name() string
	Trigger(ctx context.Context, o model.Order) (Result, error)
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
}

type Config struct {
	RemoteURL     string
	RemoteTimeout time.Duration

	DeviceHost        string
	DevicePort        int
	DeviceScript      string
	DeviceRunDuration time.Duration
	DeviceTimeout     time.Duration
}

// StrategyName reports which strategy cfg selects: "remote", "device" or "none".
func (c Config) StrategyName() string {
	switch {
	case c.RemoteURL != "":
		return "remote"
	case c.DeviceHost != "":
		return "device"
	default:
		return "none"
	}
}

type Actuator struct {
	mu       sync.Mutex
	strategy Strategy
}

// New picks the strategy from cfg. A remote URL wins over a device.
// With neither set the actuator is returned anyway and every call fails
// with ErrNotConfigured.
func New(cfg Config) *Actuator {
	switch cfg.StrategyName() {
	case "remote":
		return NewWithStrategy(NewRemoteTrigger(cfg.RemoteURL, cfg.RemoteTimeout))
	case "device":
		client := NewDashboardClient(cfg.DeviceHost, cfg.DevicePort, cfg.DeviceTimeout)
		return NewWithStrategy(NewDeviceTrigger(client, cfg.DeviceScript, cfg.DeviceRunDuration))
	default:
		return NewWithStrategy(nil)
	}
}

func NewWithStrategy(s Strategy) *Actuator {
	return &Actuator{strategy: s}
}

func (a *Actuator) StrategyName() string {
	if a.strategy == nil {
		return "none"
	}
	return a.strategy.Name()
}

// Trigger starts the batch for o. Failures are always *Error.
func (a *Actuator) Trigger(ctx context.Context, o model.Order) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.strategy == nil {
		return Result{}, newError("trigger", ErrNotConfigured)
	}
	res, err := a.strategy.Trigger(ctx, o)
	if err != nil {
		return Result{}, wrap("trigger", err)
	}
	return res, nil
}

func (a *Actuator) Pause(ctx context.Context) error {
	return a.control(ctx, "pause", Strategy.Pause)
}

func (a *Actuator) Stop(ctx context.Context) error {
	return a.control(ctx, "stop", Strategy.Stop)
}

func (a *Actuator) control(ctx context.Context, op string, fn func(Strategy, context.Context) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.strategy == nil {
		return newError(op, ErrNotConfigured)
	}
	if err := fn(a.strategy, ctx); err != nil {
		return wrap(op, err)
	}
	return nil
}

func wrap(op string, err error) *Error {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr
	}
	return newError(op, err)
}
