package classification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jdsuarez23/comfachoco/internal/classification"
)

type fakeAIClient struct {
	classifyFn func(ctx context.Context, reasonText string) classification.AIOutcome
}

func (f *fakeAIClient) Classify(ctx context.Context, reasonText string) classification.AIOutcome {
	if f.classifyFn != nil {
		return f.classifyFn(ctx, reasonText)
	}
	return classification.AIOutcome{Status: classification.OutcomeSkipped}
}

type fakeMLClient struct {
	predictFn func(ctx context.Context, req classification.PredictionRequest) classification.MLOutcome
	healthyFn func(ctx context.Context) bool
	trainFn   func(ctx context.Context) error
}

func (f *fakeMLClient) Predict(ctx context.Context, req classification.PredictionRequest) classification.MLOutcome {
	if f.predictFn != nil {
		return f.predictFn(ctx, req)
	}
	return classification.MLOutcome{Status: classification.OutcomeFailed, Kind: classification.FailureOther}
}

func (f *fakeMLClient) Healthy(ctx context.Context) bool {
	if f.healthyFn != nil {
		return f.healthyFn(ctx)
	}
	return true
}

func (f *fakeMLClient) Train(ctx context.Context) error {
	if f.trainFn != nil {
		return f.trainFn(ctx)
	}
	return nil
}

func classifyInput(days int) classification.ClassifyInput {
	return classification.ClassifyInput{
		EmployeeID:    "b7f6c1de-58b2-4f3a-9a41-6f2d7c1e9a10",
		DaysRequested: days,
		ReasonText:    "Cita medica programada con especialista",
		StartDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestOrchestrator_Classify(t *testing.T) {
	ctx := context.Background()

	t.Run("ml success supplies full result", func(t *testing.T) {
		ai := &fakeAIClient{}
		ml := &fakeMLClient{
			predictFn: func(ctx context.Context, req classification.PredictionRequest) classification.MLOutcome {
				assert.Equal(t, 3, req.DaysRequested)
				assert.Equal(t, "2026-03-02", req.StartDate)
				return classification.MLOutcome{
					Status: classification.OutcomeSuccess,
					Prediction: classification.MLPrediction{
						PermitType:          classification.PermitVacation,
						ApprovalProbability: 0.82,
						IsAnomalous:         false,
						ImpactScore:         floatPtr(1.4),
						SuggestedDays:       intPtr(3),
					},
				}
			},
		}

		result := classification.NewOrchestrator(ai, ml).Classify(ctx, classifyInput(3))

		assert.Equal(t, classification.PermitVacation, result.PermitType)
		assert.Equal(t, 0.82, result.ApprovalProbability)
		assert.False(t, result.IsAnomalous)
		assert.Equal(t, 1.4, *result.ImpactScore)
		assert.Equal(t, 3, *result.SuggestedDays)
	})

	t.Run("ai label overrides permit type only", func(t *testing.T) {
		ai := &fakeAIClient{
			classifyFn: func(ctx context.Context, reasonText string) classification.AIOutcome {
				return classification.AIOutcome{Status: classification.OutcomeSuccess, Label: classification.PermitMedical}
			},
		}
		ml := &fakeMLClient{
			predictFn: func(ctx context.Context, req classification.PredictionRequest) classification.MLOutcome {
				return classification.MLOutcome{
					Status: classification.OutcomeSuccess,
					Prediction: classification.MLPrediction{
						PermitType:          classification.PermitVacation,
						ApprovalProbability: 0.7,
						IsAnomalous:         true,
						ImpactScore:         floatPtr(2.0),
						SuggestedDays:       intPtr(2),
					},
				}
			},
		}

		result := classification.NewOrchestrator(ai, ml).Classify(ctx, classifyInput(3))

		assert.Equal(t, classification.PermitMedical, result.PermitType)
		assert.Equal(t, 0.7, result.ApprovalProbability)
		assert.True(t, result.IsAnomalous)
		assert.Equal(t, 2.0, *result.ImpactScore)
		assert.Equal(t, 2, *result.SuggestedDays)
	})

	t.Run("ml failed falls back but keeps ai label", func(t *testing.T) {
		ai := &fakeAIClient{
			classifyFn: func(ctx context.Context, reasonText string) classification.AIOutcome {
				return classification.AIOutcome{Status: classification.OutcomeSuccess, Label: classification.PermitStudy}
			},
		}
		ml := &fakeMLClient{
			predictFn: func(ctx context.Context, req classification.PredictionRequest) classification.MLOutcome {
				return classification.MLOutcome{
					Status: classification.OutcomeFailed,
					Kind:   classification.FailureConnRefused,
					Err:    errors.New("connection refused"),
				}
			},
		}

		result := classification.NewOrchestrator(ai, ml).Classify(ctx, classifyInput(3))

		assert.Equal(t, classification.PermitStudy, result.PermitType)
		assert.Equal(t, 0.5, result.ApprovalProbability)
		assert.False(t, result.IsAnomalous)
		assert.Nil(t, result.ImpactScore)
		assert.Nil(t, result.SuggestedDays)
	})

	t.Run("both unavailable yields deterministic fallback", func(t *testing.T) {
		ai := &fakeAIClient{
			classifyFn: func(ctx context.Context, reasonText string) classification.AIOutcome {
				return classification.AIOutcome{Status: classification.OutcomeFailed, Err: errors.New("timeout")}
			},
		}
		ml := &fakeMLClient{
			predictFn: func(ctx context.Context, req classification.PredictionRequest) classification.MLOutcome {
				return classification.MLOutcome{Status: classification.OutcomeFailed, Kind: classification.FailureTimeout}
			},
		}

		result := classification.NewOrchestrator(ai, ml).Classify(ctx, classifyInput(3))

		assert.Equal(t, classification.PermitPersonal, result.PermitType)
		assert.Equal(t, 0.5, result.ApprovalProbability)
		assert.False(t, result.IsAnomalous)
		assert.Nil(t, result.ImpactScore)
		assert.Nil(t, result.SuggestedDays)
	})

	t.Run("fallback flags long requests anomalous", func(t *testing.T) {
		ai := &fakeAIClient{}
		ml := &fakeMLClient{}

		result := classification.NewOrchestrator(ai, ml).Classify(ctx, classifyInput(16))

		assert.Equal(t, classification.PermitPersonal, result.PermitType)
		assert.True(t, result.IsAnomalous)
	})

	t.Run("skipped ai leaves ml result untouched", func(t *testing.T) {
		ai := &fakeAIClient{
			classifyFn: func(ctx context.Context, reasonText string) classification.AIOutcome {
				return classification.AIOutcome{Status: classification.OutcomeSkipped}
			},
		}
		ml := &fakeMLClient{
			predictFn: func(ctx context.Context, req classification.PredictionRequest) classification.MLOutcome {
				return classification.MLOutcome{
					Status: classification.OutcomeSuccess,
					Prediction: classification.MLPrediction{
						PermitType:          classification.PermitFamilyEmergency,
						ApprovalProbability: 0.91,
					},
				}
			},
		}

		result := classification.NewOrchestrator(ai, ml).Classify(ctx, classifyInput(2))

		assert.Equal(t, classification.PermitFamilyEmergency, result.PermitType)
		assert.Equal(t, 0.91, result.ApprovalProbability)
	})

	t.Run("degraded ai label still takes precedence", func(t *testing.T) {
		ai := &fakeAIClient{
			classifyFn: func(ctx context.Context, reasonText string) classification.AIOutcome {
				return classification.AIOutcome{
					Status:   classification.OutcomeSuccess,
					Label:    classification.PermitPersonal,
					Degraded: true,
				}
			},
		}
		ml := &fakeMLClient{
			predictFn: func(ctx context.Context, req classification.PredictionRequest) classification.MLOutcome {
				return classification.MLOutcome{
					Status: classification.OutcomeSuccess,
					Prediction: classification.MLPrediction{
						PermitType:          classification.PermitLabor,
						ApprovalProbability: 0.66,
					},
				}
			},
		}

		result := classification.NewOrchestrator(ai, ml).Classify(ctx, classifyInput(2))

		assert.Equal(t, classification.PermitPersonal, result.PermitType)
		assert.Equal(t, 0.66, result.ApprovalProbability)
	})
}

func TestFallback(t *testing.T) {
	t.Run("boundary at fifteen days", func(t *testing.T) {
		assert.False(t, classification.Fallback(15).IsAnomalous)
		assert.True(t, classification.Fallback(16).IsAnomalous)
	})

	t.Run("always sets the default probability", func(t *testing.T) {
		result := classification.Fallback(1)
		assert.Equal(t, classification.PermitPersonal, result.PermitType)
		assert.Equal(t, 0.5, result.ApprovalProbability)
		assert.Nil(t, result.ImpactScore)
		assert.Nil(t, result.SuggestedDays)
	})
}
