package actuator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cakeshop/internal/model"
)

type MockStrategy struct{ mock.Mock }

func (m *MockStrategy) Name() string { return "mock" }

func (m *MockStrategy) Trigger(ctx context.Context, o model.Order) (Result, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(Result), args.Error(1)
}

func (m *MockStrategy) Pause(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStrategy) Stop(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestActuator_TriggerSuccess(t *testing.T) {
	ctx := t.Context()
	o := model.Order{ID: 1, SKU: "classic", Quantity: 2}
	s := new(MockStrategy)
	s.On("Trigger", ctx, o).Return(Result{Info: "ok"}, nil).Once()

	res, err := NewWithStrategy(s).Trigger(ctx, o)

	require.NoError(t, err)
	assert.Equal(t, "ok", res.Info)
	s.AssertExpectations(t)
}

func TestActuator_TriggerFailureIsTyped(t *testing.T) {
	ctx := t.Context()
	s := new(MockStrategy)
	s.On("Trigger", ctx, mock.Anything).Return(Result{}, errors.New("endpoint unreachable")).Once()

	_, err := NewWithStrategy(s).Trigger(ctx, model.Order{ID: 1})

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "trigger", aerr.Op)
	assert.Equal(t, "endpoint unreachable", err.Error())
}

func TestActuator_NotConfigured(t *testing.T) {
	a := New(Config{})
	assert.Equal(t, "none", a.StrategyName())

	_, err := a.Trigger(t.Context(), model.Order{ID: 1})
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, ErrNotConfigured.Error(), err.Error())

	assert.ErrorIs(t, a.Pause(t.Context()), ErrNotConfigured)
	assert.ErrorIs(t, a.Stop(t.Context()), ErrNotConfigured)
}

func TestNew_SelectsStrategy(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"remote", Config{RemoteURL: "http://hook.local/start"}, "remote"},
		{"remote wins over device", Config{RemoteURL: "http://hook.local/start", DeviceHost: "10.0.0.5"}, "remote"},
		{"device", Config{DeviceHost: "10.0.0.5", DeviceScript: "cake.urp"}, "device"},
		{"none", Config{}, "none"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.StrategyName())
			assert.Equal(t, tc.want, New(tc.cfg).StrategyName())
		})
	}
}

func TestActuator_PauseStopDelegate(t *testing.T) {
	ctx := t.Context()
	s := new(MockStrategy)
	s.On("Pause", ctx).Return(nil).Once()
	s.On("Stop", ctx).Return(errors.New("device refused \"stop\": Failed")).Once()

	a := NewWithStrategy(s)
	require.NoError(t, a.Pause(ctx))

	err := a.Stop(ctx)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "stop", aerr.Op)
	s.AssertExpectations(t)
}

type slowStrategy struct {
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (s *slowStrategy) Name() string { return "slow" }

func (s *slowStrategy) enter() {
	n := s.active.Add(1)
	for {
		m := s.maxSeen.Load()
		if n <= m || s.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	s.active.Add(-1)
}

func (s *slowStrategy) Trigger(context.Context, model.Order) (Result, error) {
	s.enter()
	return Result{}, nil
}

func (s *slowStrategy) Pause(context.Context) error { s.enter(); return nil }
func (s *slowStrategy) Stop(context.Context) error  { s.enter(); return nil }

func TestActuator_CommandsNeverOverlap(t *testing.T) {
	s := &slowStrategy{}
	a := NewWithStrategy(s)
	ctx := t.Context()

	var wg sync.WaitGroup
	for i := range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 3 {
			case 0:
				_, _ = a.Trigger(ctx, model.Order{ID: i})
			case 1:
				_ = a.Pause(ctx)
			default:
				_ = a.Stop(ctx)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), s.maxSeen.Load())
}
