package redisx

import "time"

const (
	// Cart display cache: cart:{user_id} -> JSON cart lines. Dropped on every write.
	KeyCart = "cart:%s"

	// Order status cache: order:status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order:status:%s"

	// Consumer dedup: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCartCache   = 2 * time.Minute
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
