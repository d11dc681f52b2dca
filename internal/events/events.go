package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	UserSignedUp      = "user.signed_up"
	AppointmentBooked = "appointment.booked"
)

type Event struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, key, typ string, payload any) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
func (Nop) Close() error                                        { return nil }

type Kafka struct {
	w *kafka.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}}
}

func (k *Kafka) Publish(ctx context.Context, key, typ string, payload any) error {
	b, err := Encode(typ, payload)
	if err != nil {
		return err
	}
	return k.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: b,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(typ)},
		},
	})
}

func (k *Kafka) Close() error { return k.w.Close() }

// Encode renders the wire form written to the topic.
func Encode(typ string, payload any) ([]byte, error) {
	b, err := json.Marshal(Event{Type: typ, At: time.Now().UTC(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	return b, nil
}
