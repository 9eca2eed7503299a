package events

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, event Event) *redis.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return &redis.Message{Channel: TopicRestaurant, Payload: string(payload)}
}

func TestPumpDeliversDecodedEvents(t *testing.T) {
	sub := &redisSubscription{
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	msgs := make(chan *redis.Message, 2)
	msgs <- message(t, Event{EventType: EventNewOrder, OrderID: 1})
	msgs <- &redis.Message{Channel: TopicRestaurant, Payload: "not json"}
	close(msgs)

	go sub.pump(msgs)

	var received []Event
	for event := range sub.Events() {
		received = append(received, event)
	}
	// The malformed payload is dropped, the channel closes cleanly.
	require.Len(t, received, 1)
	assert.Equal(t, int64(1), received[0].OrderID)
}

func TestPumpExitsOnCloseWithFullBuffer(t *testing.T) {
	sub := &redisSubscription{
		events: make(chan Event, 1),
		done:   make(chan struct{}),
	}
	msgs := make(chan *redis.Message, 4)
	for i := 0; i < 4; i++ {
		msgs <- message(t, Event{EventType: EventNewOrder, OrderID: int64(i)})
	}

	pumpDone := make(chan struct{})
	go func() {
		sub.pump(msgs)
		close(pumpDone)
	}()

	// Nobody reads sub.Events(); the buffer fills and the pump blocks on
	// the second send until the subscription goes away.
	time.Sleep(20 * time.Millisecond)
	close(sub.done)

	select {
	case <-pumpDone:
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not exit after the subscription closed")
	}

	// Events is closed after the pump returns, even with undelivered
	// messages left behind.
	_, open := <-sub.Events()
	if open {
		_, open = <-sub.Events()
	}
	assert.False(t, open)
}

func TestPumpBufferedEventsStillReadableAfterExit(t *testing.T) {
	sub := &redisSubscription{
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	msgs := make(chan *redis.Message, 3)
	for i := 1; i <= 3; i++ {
		msgs <- message(t, Event{EventType: EventOrderStatusChanged, OrderID: int64(i), OrderNumber: fmt.Sprintf("ORD-%d", i)})
	}
	close(msgs)

	sub.pump(msgs)

	var ids []int64
	for event := range sub.Events() {
		ids = append(ids, event.OrderID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}
