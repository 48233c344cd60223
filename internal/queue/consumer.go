package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartConsumer runs the notification consumer: it drains booking events
// and appends each one to the structured notification log. Runs a
// reconnect loop with exponential backoff and never returns under normal
// operation; call it in its own goroutine.
func StartConsumer(url string, log *zap.Logger) {
	log = log.With(zap.String("component", "queue_consumer"))

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("Broker dial failed, retrying",
				zap.Error(err),
				zap.Duration("backoff", backoff),
			)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, log); err != nil {
			log.Warn("Consume loop ended, reconnecting", zap.Error(err))
			conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("Failed to set QoS", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(bookingQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", bookingQueueName, err)
	}

	msgs, err := ch.Consume(bookingQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue %s: %w", bookingQueueName, err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, log); err != nil {
			log.Error("Failed to handle event message", zap.Error(err))
			// Reject without requeue to avoid a poison message loop.
			d.Nack(false, false)
			continue
		}
		d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, log *zap.Logger) error {
	var event BookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	log.Info("Booking notification",
		zap.String("event", string(event.Type)),
		zap.String("booking_id", event.BookingID),
		zap.String("reference", event.Reference),
		zap.String("user_id", event.UserID),
		zap.String("schedule_id", event.ScheduleID),
		zap.Int("seats", event.Seats),
		zap.Float64("amount", event.Amount),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
