package service

import (
	"context"
	"fmt"

	"workspace-be/internal/pkg/logger"
	"workspace-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IEventPublisher fans domain events out to in-process and durable subscribers.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// DurablePublisher is the optional external bus (NATS JetStream in production).
type DurablePublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// EventObserver is notified after each successful in-process publish.
type EventObserver func(eventType string)

type publisherService struct {
	topicName string
	pubSub    message.Publisher
	durable   DurablePublisher
	observe   EventObserver
	logger    logger.ILogger
}

func NewPublisherService(topicName string, pubSub message.Publisher, durable DurablePublisher, observe EventObserver, log logger.ILogger) IEventPublisher {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		durable:   durable,
		observe:   observe,
		logger:    log,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := events.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", event.EventType())
	if err := p.pubSub.Publish(p.topicName, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}
	if p.observe != nil {
		p.observe(event.EventType())
	}

	// The durable bus is best effort; local subscribers already have the event.
	if p.durable != nil {
		if err := p.durable.Publish(ctx, event); err != nil {
			p.logger.Warn("PublisherService", "Failed to publish durable event", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}
	return nil
}
