package realtime

import (
	"context"
	"time"

	"studydesk/backend/internal/logger"
)

// Publisher announces mutations on a bus. Failures are logged, never returned.
type Publisher struct {
	bus Bus
	log *logger.Logger
	now func() time.Time
}

func NewPublisher(bus Bus, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{bus: bus, log: log, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, action, clientID string) {
	if p == nil || p.bus == nil {
		return
	}
	msg := Message{Action: action, ClientID: clientID, SentAt: p.now().UTC()}
	if err := p.bus.Publish(ctx, msg); err != nil {
		p.log.Warn("publish sync action failed", "action", action, "error", err)
	}
}
