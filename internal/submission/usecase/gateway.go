package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/formseal/internal/submission/domain"
)

// SimulatedGateway accepts every payload after a fixed delay. It stands in for a real
// downstream service and persists nothing.
type SimulatedGateway struct {
	delay  time.Duration
	logger *slog.Logger
}

// NewSimulatedGateway creates a SimulatedGateway that waits delay before accepting.
func NewSimulatedGateway(delay time.Duration, logger *slog.Logger) *SimulatedGateway {
	return &SimulatedGateway{delay: delay, logger: logger}
}

// Deliver logs the payload size, never its content, and returns after the configured delay or
// when ctx is done, whichever comes first.
func (g *SimulatedGateway) Deliver(ctx context.Context, payload []byte) (*domain.Delivery, error) {
	g.logger.InfoContext(ctx, "submitting form data", slog.Int("payload_bytes", len(payload)))

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return &domain.Delivery{Success: true, Message: "Form submitted successfully!"}, nil
}
