package processor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"fasohabita/server/config"
	"fasohabita/server/internal/models"
	"fasohabita/server/internal/queue"
)

// Publisher delivers a payload to a broker subject
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// EventProcessor publishes queued listing events with retry
type EventProcessor struct {
	publisher Publisher
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.EventQueue
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewEventProcessor creates a new event processor instance
func NewEventProcessor(publisher Publisher, queue *queue.EventQueue, config *config.Config, logger *logrus.Logger) *EventProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventProcessor{
		publisher: publisher,
		queue:     queue,
		config:    config,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start subscribes the processor to the queue
func (p *EventProcessor) Start() {
	p.queue.Subscribe(p.processEvent)
}

// Stop aborts pending retries
func (p *EventProcessor) Stop() {
	p.cancel()
}

// Subject returns the broker subject for an event type,
// e.g. "listings.created" for "listing.created"
func (p *EventProcessor) Subject(eventType string) string {
	return p.config.Events.SubjectPrefix + "." + strings.TrimPrefix(eventType, "listing.")
}

// processEvent publishes a single event, retrying on failure
func (p *EventProcessor) processEvent(event models.ListingEvent) error {
	subject := p.Subject(event.Type)
	maxRetries := p.config.Events.MaxRetries

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying event publish, attempt %d of %d", attempt, maxRetries)
			select {
			case <-p.ctx.Done():
				return fmt.Errorf("event publish cancelled: %w", p.ctx.Err())
			case <-time.After(p.config.Events.RetryDelay):
			}
		}

		err = p.publisher.Publish(p.ctx, subject, event)
		if err == nil {
			p.logger.WithFields(logrus.Fields{
				"subject":    subject,
				"listing_id": event.ListingID,
			}).Debug("Published listing event")
			return nil
		}

		p.logger.Errorf("Event publish failed: %v", err)
	}

	return fmt.Errorf("failed to publish event after %d retries: %w", maxRetries, err)
}
