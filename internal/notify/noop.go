package notify

import (
	"context"

	"github.com/smartbooker/backend/internal/model"
)

type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) ProviderID() string {
	return "noop"
}

func (s *NoopSender) Send(_ context.Context, _ model.Appointment) error {
	return nil
}
