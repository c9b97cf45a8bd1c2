package kafka

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func newMockProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	t.Helper()
	mockProducer := mocks.NewSyncProducer(t, nil)
	return NewProducerWithClient(mockProducer, log.WithField("component", "kafka-producer-test")), mockProducer
}

func TestProducer_PublishEvent(t *testing.T) {
	producer, mockProducer := newMockProducer(t)

	mockProducer.ExpectSendMessageAndSucceed()

	event := NewCheckoutEvent(EventTypeCheckoutCompleted, "chk-1", "cust-1", map[string]interface{}{
		"amount": "103.00",
	})

	if err := producer.PublishEvent(TopicCheckoutEvents, "cust-1", event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	producer, mockProducer := newMockProducer(t)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewCheckoutEvent(EventTypeCheckoutFailed, "", "cust-1", nil)
	if err := producer.PublishEvent(TopicCheckoutEvents, "cust-1", event); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_MarshalError(t *testing.T) {
	producer, mockProducer := newMockProducer(t)

	// Канал нельзя сериализовать в JSON, до отправки дело не доходит.
	if err := producer.PublishEvent(TopicCheckoutEvents, "k", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckoutPublisher_Publish(t *testing.T) {
	producer, mockProducer := newMockProducer(t)
	publisher := NewCheckoutPublisher(producer, "")

	if publisher.Topic() != TopicCheckoutEvents {
		t.Fatalf("expected default topic %s, got %s", TopicCheckoutEvents, publisher.Topic())
	}

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var decoded CheckoutEvent
		if err := json.Unmarshal(val, &decoded); err != nil {
			return err
		}
		if decoded.EventType != EventTypeCheckoutFailed {
			return fmt.Errorf("unexpected event type %s", decoded.EventType)
		}
		if decoded.Metadata["reason"] != "expired" {
			return fmt.Errorf("unexpected reason %v", decoded.Metadata["reason"])
		}
		return nil
	})

	event := NewCheckoutEvent(EventTypeCheckoutFailed, "", "cust-7", map[string]interface{}{
		"reason": "expired",
	})
	if err := publisher.Publish(event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckoutPublisher_NotInitialized(t *testing.T) {
	var publisher *CheckoutPublisher
	if err := publisher.Publish(NewCheckoutEvent(EventTypeCheckoutFailed, "", "c", nil)); err == nil {
		t.Fatal("expected error for nil publisher")
	}

	producer, mockProducer := newMockProducer(t)
	if err := NewCheckoutPublisher(producer, "custom").Publish(nil); err == nil {
		t.Fatal("expected error for nil event")
	}
	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewCheckoutEvent(t *testing.T) {
	metadata := map[string]interface{}{
		"amount": "10.00",
	}

	event := NewCheckoutEvent(EventTypeCheckoutCompleted, "chk-123", "cust-1", metadata)

	if event.EventType != EventTypeCheckoutCompleted {
		t.Errorf("expected event type %s, got %s", EventTypeCheckoutCompleted, event.EventType)
	}
	if event.CheckoutID != "chk-123" {
		t.Errorf("expected checkout id chk-123, got %s", event.CheckoutID)
	}
	if event.CustomerID != "cust-1" {
		t.Errorf("expected customer id cust-1, got %s", event.CustomerID)
	}
	if event.Metadata["amount"] != "10.00" {
		t.Error("metadata not set correctly")
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}
}
