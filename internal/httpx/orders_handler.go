package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/gaughey2000/ecommerce-project-sub000/internal/kafka"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/redisx"
)

// StatusCache is the slice of the redis client behind the order-status
// reads. Satisfied by *redis.Client.
type StatusCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type OrdersHandler struct {
	Orders   *orders.Repo
	Producer *kafkax.Producer // order.cancel.requested
	Redis    StatusCache
	Service  string
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/status", h.getStatus)
	r.Get("/orders/{id}/items", h.getItems)
	r.Post("/orders/{id}/cancel", h.requestCancel)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Orders.ListForUser(ctx, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ord, err := h.Orders.GetForUser(ctx, uid, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ord)
}

// getStatus serves the status cache when it is warm and falls back to the
// ledger. Checkout primes the key and the fulfillment worker rewrites it
// on cancellation.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return
	}
	orderID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	ord, err := h.Orders.GetForUser(ctx, uid, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	b, _ := json.Marshal(map[string]string{"status": string(ord.Status)})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *OrdersHandler) getItems(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Orders.ItemsForUser(ctx, uid, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []orders.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// requestCancel verifies ownership and that the order is still pending,
// then hands the actual cancellation to the fulfillment worker.
func (h *OrdersHandler) requestCancel(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ord, err := h.Orders.GetForUser(ctx, uid, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !orders.CanTransition(ord.Status, orders.StatusCancelled) {
		writeError(w, orders.ErrInvalidTransition)
		return
	}

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCancelRequested,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: ord.ID,
		Payload: kafkax.MustMarshal(orders.OrderCancelRequestedPayload{
			OrderID: ord.ID,
			UserID:  uid,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(ord.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCancelRequested)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	writeJSON(w, http.StatusAccepted, map[string]string{"order_id": ord.ID, "status": "cancel_requested"})
}
