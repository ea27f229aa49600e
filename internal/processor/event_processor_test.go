package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fasohabita/server/config"
	"fasohabita/server/internal/models"
	"fasohabita/server/internal/queue"
)

// MockPublisher is a mock implementation of Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Events.SubjectPrefix = "listings"
	cfg.Events.MaxRetries = 3
	cfg.Events.RetryDelay = time.Millisecond
	return cfg
}

func TestNewEventProcessor(t *testing.T) {
	publisher := &MockPublisher{}
	q := queue.NewEventQueue(10, logrus.New())
	cfg := testConfig()
	logger := logrus.New()

	processor := NewEventProcessor(publisher, q, cfg, logger)

	assert.NotNil(t, processor)
	assert.Equal(t, publisher, processor.publisher)
	assert.Equal(t, q, processor.queue)
	assert.Equal(t, cfg, processor.config)
	assert.Equal(t, logger, processor.logger)
}

func TestEventProcessor_Subject(t *testing.T) {
	processor := NewEventProcessor(&MockPublisher{}, queue.NewEventQueue(1, nil), testConfig(), logrus.New())

	assert.Equal(t, "listings.created", processor.Subject(models.EventListingCreated))
	assert.Equal(t, "listings.updated", processor.Subject(models.EventListingUpdated))
	assert.Equal(t, "listings.deleted", processor.Subject(models.EventListingDeleted))
}

func TestEventProcessor_ProcessEvent(t *testing.T) {
	event := models.ListingEvent{Type: models.EventListingCreated, ListingID: 1, OwnerID: "U1"}

	t.Run("success", func(t *testing.T) {
		publisher := &MockPublisher{}
		processor := NewEventProcessor(publisher, queue.NewEventQueue(10, nil), testConfig(), logrus.New())

		publisher.On("Publish", "listings.created", event).Return(nil).Once()
		err := processor.processEvent(event)
		assert.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("retry then success", func(t *testing.T) {
		publisher := &MockPublisher{}
		processor := NewEventProcessor(publisher, queue.NewEventQueue(10, nil), testConfig(), logrus.New())

		publisher.On("Publish", "listings.created", event).Return(errors.New("nats down")).Twice()
		publisher.On("Publish", "listings.created", event).Return(nil).Once()
		err := processor.processEvent(event)
		assert.NoError(t, err)
		publisher.AssertNumberOfCalls(t, "Publish", 3)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		publisher := &MockPublisher{}
		processor := NewEventProcessor(publisher, queue.NewEventQueue(10, nil), testConfig(), logrus.New())

		publisher.On("Publish", "listings.created", event).Return(errors.New("nats down"))
		err := processor.processEvent(event)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish event after 3 retries")
		publisher.AssertNumberOfCalls(t, "Publish", 4)
	})

	t.Run("stop cancels retries", func(t *testing.T) {
		publisher := &MockPublisher{}
		cfg := testConfig()
		cfg.Events.RetryDelay = time.Hour
		processor := NewEventProcessor(publisher, queue.NewEventQueue(10, nil), cfg, logrus.New())

		publisher.On("Publish", "listings.created", event).Return(errors.New("nats down"))
		processor.Stop()
		err := processor.processEvent(event)
		assert.ErrorIs(t, err, context.Canceled)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})
}

func TestEventProcessor_ConsumesQueue(t *testing.T) {
	publisher := &MockPublisher{}
	q := queue.NewEventQueue(10, logrus.New())
	processor := NewEventProcessor(publisher, q, testConfig(), logrus.New())

	event := models.ListingEvent{Type: models.EventListingDeleted, ListingID: 9, OwnerID: "U1"}
	publisher.On("Publish", "listings.deleted", event).Return(nil).Once()

	processor.Start()
	q.Start()
	require.NoError(t, q.Push(event))
	require.NoError(t, q.Close())
	processor.Stop()

	publisher.AssertExpectations(t)
}
