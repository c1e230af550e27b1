package actuator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"cakeshop/internal/model"
)

const (
	defaultRemoteTimeout = 5 * time.Second
	maxInfoBody          = 200
)

// RemoteTrigger fires a webhook that starts the batch on the other side.
type RemoteTrigger struct {
	url    string
	client *http.Client
}

type triggerRequest struct {
	TriggerID string `json:"trigger_id"`
	OrderID   int    `json:"order_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"qty"`
}

func NewRemoteTrigger(endpoint string, timeout time.Duration) *RemoteTrigger {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteTrigger{
		url:    endpoint,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *RemoteTrigger) Name() string { return "remote" }

// Trigger posts the order to the webhook. Any HTTP response counts as
// success; only transport failures and timeouts are errors.
func (r *RemoteTrigger) Trigger(ctx context.Context, o model.Order) (Result, error) {
	triggerID := uuid.NewString()
	body, err := json.Marshal(triggerRequest{
		TriggerID: triggerID,
		OrderID:   o.ID,
		SKU:       o.SKU,
		Quantity:  o.Quantity,
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode trigger: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Trigger-ID", triggerID)

	resp, err := r.client.Do(req)
	if err != nil {
		return Result{}, &Error{Op: "trigger", Msg: describeTransportError(err), Err: err}
	}
	defer resp.Body.Close()

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxInfoBody))
	return Result{
		Info: fmt.Sprintf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(snippet))),
	}, nil
}

func (r *RemoteTrigger) Pause(context.Context) error {
	return &Error{Op: "pause", Msg: "remote trigger cannot pause", Err: ErrUnsupported}
}

func (r *RemoteTrigger) Stop(context.Context) error {
	return &Error{Op: "stop", Msg: "remote trigger cannot stop", Err: ErrUnsupported}
}

func describeTransportError(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if uerr.Timeout() {
			return "trigger endpoint timed out"
		}
		return "trigger endpoint unreachable: " + uerr.Err.Error()
	}
	return "trigger endpoint unreachable: " + err.Error()
}
