package service

import (
	"context"

	"workspace-be/internal/pkg/logger"
	"workspace-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// Broadcaster pushes a serialized event to every connected client.
type Broadcaster interface {
	Broadcast(data []byte)
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	broadcaster Broadcaster
	logger      logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, topicName string, broadcaster Broadcaster, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		broadcaster: broadcaster,
		logger:      log,
	}
}

// Consume subscribes to the event topic and returns once the subscription is
// live. Delivery continues in the background until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()
	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("ConsumerService", "Dropping malformed event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	cs.broadcaster.Broadcast(msg.Payload)
	cs.logger.Debug("ConsumerService", "Event broadcast", map[string]interface{}{
		"type":       event.EventType(),
		"message_id": msg.UUID,
	})
	msg.Ack()
}
