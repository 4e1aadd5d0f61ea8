package classification

import (
	"context"

	"go.uber.org/zap"
)

// Orchestrator reconciles both classifier outcomes into one authoritative
// Classification. It never fails: availability problems degrade through
// AI+ML, ML-only, and finally the deterministic fallback heuristic.
//
// Precedence: a successful ML prediction supplies the base result; a
// successful AI label then overrides permit type only. AI never touches
// probability, anomaly, impact or suggested days.
type Orchestrator struct {
	ai     AIClient
	ml     MLClient
	logger *zap.Logger
}

func NewOrchestrator(ai AIClient, ml MLClient, logger ...*zap.Logger) *Orchestrator {
	l := zap.L().Named("classification.orchestrator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("classification.orchestrator")
	}
	return &Orchestrator{ai: ai, ml: ml, logger: l}
}

func (o *Orchestrator) Classify(ctx context.Context, in ClassifyInput) Classification {
	aiOut := o.ai.Classify(ctx, in.ReasonText)
	mlOut := o.ml.Predict(ctx, PredictionRequest{
		EmployeeID:    in.EmployeeID,
		DaysRequested: in.DaysRequested,
		ReasonText:    in.ReasonText,
		StartDate:     in.StartDate.Format("2006-01-02"),
		EndDate:       in.EndDate.Format("2006-01-02"),
	})

	var result Classification
	if mlOut.Status == OutcomeSuccess {
		p := mlOut.Prediction
		result = Classification{
			PermitType:          p.PermitType,
			ApprovalProbability: p.ApprovalProbability,
			IsAnomalous:         p.IsAnomalous,
			ImpactScore:         p.ImpactScore,
			SuggestedDays:       p.SuggestedDays,
		}
	} else {
		result = Fallback(in.DaysRequested)
	}

	if aiOut.Status == OutcomeSuccess {
		result.PermitType = aiOut.Label
	}

	o.logger.Info("classification resolved",
		zap.String("employee_id", in.EmployeeID),
		zap.String("ai_outcome", aiOut.Status.String()),
		zap.String("ml_outcome", mlOut.Status.String()),
		zap.String("ml_failure_kind", mlOut.Kind.String()),
		zap.String("permit_type", result.PermitType),
		zap.Float64("approval_probability", result.ApprovalProbability),
		zap.Bool("is_anomalous", result.IsAnomalous),
	)

	return result
}

// Fallback is the deterministic default used when no classifier succeeded.
func Fallback(daysRequested int) Classification {
	return Classification{
		PermitType:          PermitPersonal,
		ApprovalProbability: 0.5,
		IsAnomalous:         daysRequested > 15,
	}
}
