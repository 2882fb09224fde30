package relationaldb

import (
	"context"
	"encoding/json"
	"time"
)

// Record statuses
const (
	StatusApplied        = "applied"
	StatusRejected       = "rejected"
	StatusDispatchFailed = "dispatch_failed"
)

// Record is one processed command as stored in the results journal.
type Record struct {
	ID           string          `json:"id"`
	Command      string          `json:"command"`
	Caller       string          `json:"caller"`
	Result       string          `json:"result"`
	Code         int             `json:"code"`
	Status       string          `json:"status"`
	Message      string          `json:"message,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Attributes   json.RawMessage `json:"attributes,omitempty"`
	Instructions json.RawMessage `json:"instructions,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ListOptions contains criteria for journal queries
type ListOptions struct {
	// Caller restricts results to one caller when set
	Caller string

	// Command restricts results to one command type when set
	Command string

	// Limit bounds the number of records (newest first)
	Limit int
}

// MaxListLimit bounds ListOptions.Limit
const MaxListLimit = 1000

// Journal is the append-only audit trail of processed commands.
type Journal interface {
	Append(ctx context.Context, rec *Record) error
	SetStatus(ctx context.Context, id, status, message string) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, opts ListOptions) ([]*Record, error)
	Ping(ctx context.Context) error
	Close() error
}
