package orders

const (
	TopicOrderCreated         = "order.created"
	TopicOrderCancelRequested = "order.cancel.requested"
	TopicOrderCancelled       = "order.cancelled"
)

// Partition key = order_id, so every event for one order stays in order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
