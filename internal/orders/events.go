package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated         = "OrderCreated"
	EventOrderCancelRequested = "OrderCancelRequested"
	EventOrderCancelled       = "OrderCancelled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- per-event payloads ----

// Money travels as decimal strings on the wire, never floats.

type ItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type OrderCreatedPayload struct {
	OrderID string        `json:"order_id"`
	UserID  string        `json:"user_id"`
	Items   []ItemPayload `json:"items"`
	Total   string        `json:"total"`
}

type OrderCancelRequestedPayload struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

type OrderCancelledPayload struct {
	OrderID string        `json:"order_id"`
	Items   []ItemPayload `json:"items"` // stock returned per line
}
