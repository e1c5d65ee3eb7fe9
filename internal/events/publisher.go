package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/smartbooker/backend/internal/model"
	"github.com/smartbooker/backend/libs/kafkax"
)

const (
	TopicBooked       = "booking.appointment.booked.v1"
	TopicCancelled    = "booking.appointment.cancelled.v1"
	TopicReminderSent = "booking.reminder.sent.v1"
)

// Publisher emits booking lifecycle events to Kafka. It is fire-and-forget:
// publish failures are logged and never surfaced to the request path. With
// no brokers configured it degrades to a no-op.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewPublisher(brokers string, logger *slog.Logger) *Publisher {
	list := kafkax.SplitBrokers(brokers)
	if len(list) == 0 {
		logger.Warn("event publisher disabled (no kafka brokers configured)")
		return &Publisher{logger: logger}
	}
	return &Publisher{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  list,
			Balancer: &kafka.Hash{},
		}),
		logger: logger,
	}
}

func (p *Publisher) Close() {
	if p.writer != nil {
		_ = p.writer.Close()
	}
}

func (p *Publisher) AppointmentBooked(ctx context.Context, appt model.Appointment) {
	p.publish(ctx, TopicBooked, appt, nil)
}

func (p *Publisher) AppointmentCancelled(ctx context.Context, appt model.Appointment) {
	p.publish(ctx, TopicCancelled, appt, nil)
}

func (p *Publisher) ReminderSent(ctx context.Context, appt model.Appointment, providerID string) {
	p.publish(ctx, TopicReminderSent, appt, map[string]any{"provider_id": providerID})
}

func (p *Publisher) publish(ctx context.Context, topic string, appt model.Appointment, extra map[string]any) {
	if p.writer == nil {
		return
	}

	fields := map[string]any{
		"appointment_id": appt.ID,
		"contact":        appt.Contact,
		"date":           appt.Date,
		"time":           appt.Time,
		"occurred_at":    time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range extra {
		fields[k] = v
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		p.logger.Error("failed to build event payload", "err", err, "topic", topic)
		return
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.Itoa(appt.ID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(uuid.NewString())},
			{Key: "event_type", Value: []byte(topic)},
		},
	}
	msg.Headers = kafkax.InjectTraceHeaders(ctx, msg.Headers)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("event publish failed", "err", err, "topic", topic, "appointment_id", appt.ID)
	}
}
