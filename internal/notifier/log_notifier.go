package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/jdsuarez23/comfachoco/internal/events"
)

// LogNotifier writes notifications to the process log. Used when kafka is
// not configured; mirrors the simulated-email behavior of the HR desk.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger ...*zap.Logger) *LogNotifier {
	l := zap.L().Named("notifier.log")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notifier.log")
	}
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) LeaveRequested(ctx context.Context, event events.LeaveRequestedEvent) {
	n.logger.Info("leave request notification",
		zap.String("request_id", event.RequestID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("permit_type", event.PermitType),
		zap.Int("days_requested", event.DaysRequested),
		zap.Float64("approval_probability", event.ApprovalProbability),
		zap.Bool("is_anomalous", event.IsAnomalous),
	)
}

func (n *LogNotifier) LeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) {
	n.logger.Info("leave decision notification",
		zap.String("request_id", event.RequestID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("new_state", event.NewState),
		zap.Int("days_authorized", event.DaysAuthorized),
		zap.String("decided_by", event.DecidedBy),
	)
}
