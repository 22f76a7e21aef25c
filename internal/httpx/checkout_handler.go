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

	"github.com/gaughey2000/ecommerce-project-sub000/internal/checkout"
	kafkax "github.com/gaughey2000/ecommerce-project-sub000/internal/kafka"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/redisx"
)

type CheckoutHandler struct {
	Checkout *checkout.Service
	Producer *kafkax.Producer // order.created
	Redis    *redis.Client
	Service  string
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Post("/checkout", h.checkout)
}

type checkoutReq struct {
	Shipping orders.ShippingInfo  `json:"shipping"`
	Payment  checkout.PaymentInfo `json:"payment"`
}

type checkoutResp struct {
	OrderID string `json:"order_id"`
	Total   string `json:"total"`
}

func (h *CheckoutHandler) checkout(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return
	}
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ord, err := h.Checkout.Checkout(ctx, uid, req.Shipping, req.Payment)
	if err != nil {
		writeError(w, err)
		return
	}

	// cart is gone, drop its cache; prime the status cache for GETs
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyCart, uid)).Err()
	_ = h.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, ord.ID),
		`{"status":"pending"}`, redisx.TTLStatusCache).Err()

	h.publishCreated(r, ord)

	writeJSON(w, http.StatusCreated, checkoutResp{OrderID: ord.ID, Total: ord.Total.String()})
}

func (h *CheckoutHandler) publishCreated(r *http.Request, ord orders.Order) {
	payload := orders.OrderCreatedPayload{
		OrderID: ord.ID,
		UserID:  ord.UserID,
		Total:   ord.Total.String(),
	}
	for _, it := range ord.Items {
		payload.Items = append(payload.Items, orders.ItemPayload{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
		})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: ord.ID,
		Payload:       kafkax.MustMarshal(payload),
	}
	h.Producer.Publish(orders.PartitionKey(ord.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
