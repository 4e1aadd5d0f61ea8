package notifier

import (
	"context"

	"github.com/jdsuarez23/comfachoco/internal/events"
)

// Notifier receives lifecycle events for downstream delivery (email, audit
// feeds). Implementations must be best-effort: a failed emission never rolls
// back the state change that produced it, so methods return nothing.
//
//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	LeaveRequested(ctx context.Context, event events.LeaveRequestedEvent)
	LeaveDecided(ctx context.Context, event events.LeaveDecidedEvent)
}
