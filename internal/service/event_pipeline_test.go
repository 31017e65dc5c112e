package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"workspace-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectingBroadcaster struct {
	mu       sync.Mutex
	payloads [][]byte
	got      chan struct{}
}

func newCollectingBroadcaster() *collectingBroadcaster {
	return &collectingBroadcaster{got: make(chan struct{}, 16)}
}

func (b *collectingBroadcaster) Broadcast(data []byte) {
	b.mu.Lock()
	b.payloads = append(b.payloads, data)
	b.mu.Unlock()
	b.got <- struct{}{}
}

func (b *collectingBroadcaster) wait(t *testing.T) {
	t.Helper()
	select {
	case <-b.got:
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestPublisherToConsumerPipeline(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newCollectingBroadcaster()
	consumer := NewConsumerService(pubSub, "events", b, nopLogger)
	require.NoError(t, consumer.Consume(ctx))

	durable := &recordingPublisher{}
	var observed []string
	publisher := NewPublisherService("events", pubSub, durable, func(eventType string) {
		observed = append(observed, eventType)
	}, nopLogger)

	require.NoError(t, publisher.Publish(ctx, events.NoteCreated("n1", "Hello", t0)))
	b.wait(t)

	got, err := events.Unmarshal(b.payloads[0])
	require.NoError(t, err)
	assert.Equal(t, events.TypeNoteCreated, got.EventType())
	assert.Equal(t, "n1", got.Payload()["noteId"])
	assert.Equal(t, []string{events.TypeNoteCreated}, durable.types())
	assert.Equal(t, []string{events.TypeNoteCreated}, observed)
}

func TestPublisherIgnoresDurableFailure(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	publisher := NewPublisherService("events", pubSub, &recordingPublisher{err: errors.New("nats down")}, nil, nopLogger)
	assert.NoError(t, publisher.Publish(context.Background(), events.NoteDeleted("n1", t0)))
}

func TestConsumerAcksMalformedMessages(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newCollectingBroadcaster()
	require.NoError(t, NewConsumerService(pubSub, "events", b, nopLogger).Consume(ctx))

	require.NoError(t, pubSub.Publish("events", message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	valid, err := events.Marshal(events.NoteDeleted("n2", t0))
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish("events", message.NewMessage(watermill.NewUUID(), valid)))

	b.wait(t)
	b.mu.Lock()
	defer b.mu.Unlock()
	require.Len(t, b.payloads, 1)
	assert.JSONEq(t, string(valid), string(b.payloads[0]))
}
