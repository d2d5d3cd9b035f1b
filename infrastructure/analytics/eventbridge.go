package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"destek-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const eventSource = "destek.faq"

// EventBridgeSink publishes analytics events to an EventBridge bus.
// Callers treat Publish as fire-and-forget; errors here only surface
// in logs.
type EventBridgeSink struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewEventBridgeSink creates an EventBridge analytics sink
func NewEventBridgeSink(client *eventbridge.Client, busName string, logger *zap.Logger) *EventBridgeSink {
	return &EventBridgeSink{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish posts one event to the bus
func (s *EventBridgeSink) Publish(ctx context.Context, event ports.AnalyticsEvent) error {
	detail, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal analytics event: %w", err)
	}

	out, err := s.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(s.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(event.Type),
				Detail:       aws.String(string(detail)),
				Time:         aws.Time(event.Time),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put events: %w", err)
	}
	if out.FailedEntryCount > 0 {
		return fmt.Errorf("event bus rejected %d entries", out.FailedEntryCount)
	}
	return nil
}
