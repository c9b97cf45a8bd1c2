package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	EventTypeCheckoutCompleted EventType = "checkout.completed"
	EventTypeCheckoutFailed    EventType = "checkout.failed"
)

// Topics для Kafka
const (
	TopicCheckoutEvents = "shop.checkout.events"
)

// CheckoutEvent представляет событие оформления заказа
type CheckoutEvent struct {
	EventType  EventType              `json:"event_type"`
	CheckoutID string                 `json:"checkout_id,omitempty"`
	CustomerID string                 `json:"customer_id"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// NewCheckoutEvent создает новое событие оформления
func NewCheckoutEvent(eventType EventType, checkoutID, customerID string, metadata map[string]interface{}) *CheckoutEvent {
	return &CheckoutEvent{
		EventType:  eventType,
		CheckoutID: checkoutID,
		CustomerID: customerID,
		Timestamp:  time.Now().UTC(),
		Metadata:   metadata,
	}
}
