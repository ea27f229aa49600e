package queue

import (
	"errors"
	"fasohabita/server/internal/models"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func event(id int64) models.ListingEvent {
	return models.ListingEvent{Type: models.EventListingCreated, ListingID: id, OwnerID: "U1", OccurredAt: time.Now()}
}

func TestNewEventQueue(t *testing.T) {
	logger := logrus.New()
	q := NewEventQueue(10, logger)
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.False(t, q.IsClosed())
}

func TestEventQueue_Push(t *testing.T) {
	logger := logrus.New()
	q := NewEventQueue(2, logger)

	// Test successful push
	err := q.Push(event(1))
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	// Test queue full
	_ = q.Push(event(2))
	err = q.Push(event(3))
	assert.Equal(t, ErrQueueFull, err)

	// Test closed queue
	q.Close()
	err = q.Push(event(4))
	assert.Equal(t, ErrQueueClosed, err)
}

func TestEventQueue_Subscribe(t *testing.T) {
	logger := logrus.New()
	q := NewEventQueue(10, logger)

	var processed []models.ListingEvent
	var mu sync.Mutex

	q.Subscribe(func(e models.ListingEvent) error {
		mu.Lock()
		processed = append(processed, e)
		mu.Unlock()
		return nil
	})

	q.Start()

	assert.NoError(t, q.Push(event(1)))
	assert.NoError(t, q.Push(event(2)))

	// Close delivers buffered events before returning
	assert.NoError(t, q.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, len(processed))
	assert.Equal(t, int64(1), processed[0].ListingID)
	assert.Equal(t, int64(2), processed[1].ListingID)
}

func TestEventQueue_Close(t *testing.T) {
	logger := logrus.New()
	q := NewEventQueue(10, logger)
	q.Start()

	// Test first close
	err := q.Close()
	assert.NoError(t, err)
	assert.True(t, q.IsClosed())

	// Test second close (should be no-op)
	err = q.Close()
	assert.NoError(t, err)
}

func TestEventQueue_FanOut(t *testing.T) {
	logger := logrus.New()
	q := NewEventQueue(10, logger)

	var wg sync.WaitGroup
	delivered := 0
	var mu sync.Mutex

	// A failing handler does not stop the others
	q.Subscribe(func(models.ListingEvent) error {
		wg.Done()
		return errors.New("broker down")
	})
	wg.Add(1)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		q.Subscribe(func(models.ListingEvent) error {
			mu.Lock()
			delivered++
			mu.Unlock()
			wg.Done()
			return nil
		})
	}

	q.Start()
	defer q.Close()

	assert.NoError(t, q.Push(event(7)))
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 3, delivered)
	mu.Unlock()
}
