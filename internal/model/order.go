package model

import "strings"

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"

	errorPrefix = "error: "
)

// ErrorStatus builds the free-text terminal status for a failed order.
func ErrorStatus(msg string) Status {
	return Status(errorPrefix + msg)
}

func (s Status) IsError() bool {
	return strings.HasPrefix(string(s), errorPrefix)
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s.IsError()
}

type Order struct {
	ID         int    `json:"id"`
	SKU        string `json:"sku"`
	Quantity   int    `json:"qty"`
	Status     Status `json:"status"`
	Progress   *int   `json:"progress"` // nil until processing starts
	LastUpdate string `json:"ts"`
}

// Clone returns a copy that shares no memory with o.
func (o Order) Clone() Order {
	if o.Progress != nil {
		p := *o.Progress
		o.Progress = &p
	}
	return o
}
