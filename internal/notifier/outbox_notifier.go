package notifier

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jdsuarez23/comfachoco/internal/events"
	"github.com/jdsuarez23/comfachoco/internal/messaging/kafka"
	"github.com/jdsuarez23/comfachoco/internal/shared/contextutil"
)

// OutboxNotifier stages events in the transactional outbox; the producer
// worker delivers them to kafka. Staging errors are logged and swallowed.
type OutboxNotifier struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewOutboxNotifier(outbox kafka.OutboxRepository, logger ...*zap.Logger) *OutboxNotifier {
	l := zap.L().Named("notifier.outbox")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notifier.outbox")
	}
	return &OutboxNotifier{outbox: outbox, logger: l}
}

func (n *OutboxNotifier) LeaveRequested(ctx context.Context, event events.LeaveRequestedEvent) {
	n.stage(ctx, event.RequestID, event.EventType, events.LeaveRequestedTopic, event)
}

func (n *OutboxNotifier) LeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) {
	n.stage(ctx, event.RequestID, event.EventType, events.LeaveDecidedTopic, event)
}

func (n *OutboxNotifier) stage(ctx context.Context, aggregateID, eventType, topic string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("marshal notification payload failed",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	err = n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.RequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		// The decision/creation already committed; the event is lost but the
		// state change stands.
		n.logger.Error("stage notification failed",
			zap.String("event_type", eventType),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err),
		)
	}
}
