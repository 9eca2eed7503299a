package events

import (
	"context"
	"time"
)

const (
	EventNewOrder           = "new_order"
	EventOrderStatusChanged = "order_status_changed"
)

// TopicRestaurant is the restaurant-wide broadcast scope; every connected
// client receives every event published to it.
const TopicRestaurant = "restaurant:events"

type Event struct {
	EventType   string    `json:"event_type"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	TableNumber *string   `json:"table_number,omitempty"`
	WaiterName  string    `json:"waiter_name,omitempty"`
	TotalAmount string    `json:"total_amount,omitempty"`
	OldStatus   string    `json:"old_status,omitempty"`
	NewStatus   string    `json:"new_status,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscription is one client's attachment to the broadcast topic. Events
// is closed after Close returns; missed events are not replayed.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

type Broker interface {
	Publisher
	Subscribe(ctx context.Context) (Subscription, error)
}
