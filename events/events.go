package events

import (
	"encoding/json"
	"time"
)

const (
	TopicOrders = "orders.lifecycle"

	EventOrderCreated = "OrderCreated"
	EventOrderPaid    = "OrderPaid"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type OrderItemPayload struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type OrderCreatedPayload struct {
	OrderID     uint               `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"user_id"`
	Items       []OrderItemPayload `json:"items"`
	TotalCents  int64              `json:"total_cents"`
}

type OrderPaidPayload struct {
	OrderID         uint   `json:"order_id"`
	OrderNumber     string `json:"order_number"`
	PaymentIntentID string `json:"payment_intent_id"`
	AmountCents     int64  `json:"amount_cents"`
}

// PartitionKey keeps every event of one order on the same partition so
// consumers see them in order.
func PartitionKey(orderNumber string) []byte { return []byte(orderNumber) }

func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
