package queue_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/unclebandit/smsleopard-console/internal/queue"
)

func TestPublishWithoutSubscribersFails(t *testing.T) {
	q := queue.NewInMemoryQueue()
	if err := q.Publish(queue.TopicCampaignRefresh, "x"); err == nil {
		t.Error("expected an error with no subscribers")
	}
}

func TestRefreshSubscriberReloads(t *testing.T) {
	q := queue.NewInMemoryQueue()

	var mu sync.Mutex
	reloads := 0
	queue.StartRefreshSubscriber(q, func() error {
		mu.Lock()
		reloads++
		mu.Unlock()
		return nil
	})

	// The subscription is installed on a goroutine.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := q.Publish(queue.TopicCampaignRefresh, "Weekend promo"); err == nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	for time.Now().Before(deadline) {
		mu.Lock()
		n := reloads
		mu.Unlock()
		if n >= 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("expected the refresh event to trigger a reload")
}

func TestInMemoryQueueRetries(t *testing.T) {
	q := queue.NewInMemoryQueue()

	var mu sync.Mutex
	attempts := 0
	q.Subscribe("retry_topic", func(payload any) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	})

	if err := q.Publish("retry_topic", "payload"); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := attempts
		mu.Unlock()
		if n >= 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("expected a retry after the transient failure")
}
