// Package fulfillment processes order cancellations: it is the only path
// that moves an order out of pending and returns reserved stock.
package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/gaughey2000/ecommerce-project-sub000/internal/kafka"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/redisx"
)

type CancelStore interface {
	Cancel(ctx context.Context, orderID string) ([]orders.Item, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Cache is the slice of the redis client used for event dedup and the
// order-status cache. Satisfied by *redis.Client.
type Cache interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type Service struct {
	Store       CancelStore
	Redis       Cache
	Producer    Publisher // order.cancelled
	ServiceName string
}

// HandleCancelRequested is wired as the consumer handler for
// order.cancel.requested.
func (s *Service) HandleCancelRequested(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCancelRequested {
		return nil
	}

	// dedup by event_id so a redelivered message is a no-op
	dkey := fmt.Sprintf(redisx.KeyDedup, "fulfillment", env.EventID)
	if n, _ := s.Redis.Exists(ctx, dkey).Result(); n > 0 {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderCancelRequestedPayload](env.Payload)
	if err != nil {
		return err
	}

	items, err := s.Store.Cancel(ctx, p.OrderID)
	if errors.Is(err, orders.ErrInvalidTransition) {
		// already shipped or cancelled; nothing to do
		log.Printf("cancel skipped for order %s: %v", p.OrderID, err)
		return nil
	}
	if errors.Is(err, orders.ErrOrderNotFound) {
		log.Printf("cancel for unknown order %s", p.OrderID)
		return nil
	}
	if err != nil {
		return err
	}

	// rewrite the status cache so it stops serving pending
	_ = s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID),
		`{"status":"cancelled"}`, redisx.TTLStatusCache).Err()

	s.publishCancelled(p.OrderID, items, env.TraceID)
	return nil
}

func (s *Service) publishCancelled(orderID string, items []orders.Item, trace string) {
	payload := orders.OrderCancelledPayload{OrderID: orderID}
	for _, it := range items {
		payload.Items = append(payload.Items, orders.ItemPayload{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
		})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCancelled,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	s.Producer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCancelled)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
