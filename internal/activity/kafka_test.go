package activity_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rakitin/internal/activity"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestKafkaPublisher_FlushesOnClose(t *testing.T) {
	w := &recordingWriter{}
	p := activity.NewPublisherWithWriter(w, 16, nil)
	p.Start()

	ev := activity.NewEvent(activity.EventCreated, "uid-1", "stokbarang_toko", "doc-1", map[string]int{"stok": 25})
	p.Publish(context.Background(), ev)
	p.Close()
	p.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.True(t, w.closed)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "doc-1", string(w.msgs[0].Key))
	assert.Equal(t, activity.EventCreated, string(w.msgs[0].Headers[0].Value))

	var got activity.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, ev.EventID, got.EventID)
	assert.JSONEq(t, `{"stok":25}`, string(got.Payload))
}

func TestKafkaPublisher_DropsWhenFull(t *testing.T) {
	w := &recordingWriter{}
	p := activity.NewPublisherWithWriter(w, 1, nil)

	// Not started: the second event cannot be queued and must not block.
	p.Publish(context.Background(), activity.NewEvent(activity.EventUpdated, "u", "c", "a", nil))
	p.Publish(context.Background(), activity.NewEvent(activity.EventUpdated, "u", "c", "b", nil))

	p.Start()
	p.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "a", string(w.msgs[0].Key))
}

func TestKafkaPublisher_WritesEventsPublishedDuringShutdown(t *testing.T) {
	w := &recordingWriter{}
	p := activity.NewPublisherWithWriter(w, 16, nil)
	p.Start()

	// Requests finishing after the shutdown signal carry a cancelled context.
	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Publish(reqCtx, activity.NewEvent(activity.EventUpdated, "u", "alat_toko", "late-1", nil))
	assert.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.msgs) == 1
	}, time.Second, 10*time.Millisecond)

	p.Publish(reqCtx, activity.NewEvent(activity.EventUpdated, "u", "alat_toko", "late-2", nil))
	p.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "late-2", string(w.msgs[1].Key))
}
