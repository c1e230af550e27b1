package actuator

import (
	"context"
	"strings"
	"time"

	"cakeshop/internal/model"
)

// DeviceTrigger runs the baking script on a locally attached robot.
type DeviceTrigger struct {
	client      *DashboardClient
	script      string
	runDuration time.Duration
}

func NewDeviceTrigger(client *DashboardClient, script string, runDuration time.Duration) *DeviceTrigger {
	return &DeviceTrigger{
		client:      client,
		script:      script,
		runDuration: runDuration,
	}
}

func (d *DeviceTrigger) Name() string { return "device" }

// Trigger clears any fault left over from the previous batch, loads the
// script and starts it. The order itself does not change what runs.
func (d *DeviceTrigger) Trigger(ctx context.Context, _ model.Order) (Result, error) {
	cmds := []string{"close safety popup", "unlock protective stop"}
	if d.script != "" {
		cmds = append(cmds, "load "+d.script)
	}
	cmds = append(cmds, "play")

	replies, err := d.client.Run(ctx, cmds...)
	if err != nil {
		return Result{}, &Error{Op: "trigger", Msg: err.Error(), Err: err}
	}
	return Result{
		Info:        strings.Join(replies, "; "),
		RunDuration: d.runDuration,
	}, nil
}

func (d *DeviceTrigger) Pause(ctx context.Context) error {
	return d.send(ctx, "pause")
}

func (d *DeviceTrigger) Stop(ctx context.Context) error {
	return d.send(ctx, "stop")
}

func (d *DeviceTrigger) send(ctx context.Context, cmd string) error {
	if _, err := d.client.Run(ctx, cmd); err != nil {
		return &Error{Op: cmd, Msg: err.Error(), Err: err}
	}
	return nil
}
