package classification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// PredictionRequest carries the employee reference plus the request core
// fields; the ML service joins the profile columns on its side.
type PredictionRequest struct {
	EmployeeID    string `json:"employee_id"`
	DaysRequested int    `json:"days_requested"`
	ReasonText    string `json:"reason_text"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

type MLPrediction struct {
	PermitType          string   `json:"permit_type"`
	ApprovalProbability float64  `json:"approval_probability"`
	IsAnomalous         bool     `json:"is_anomalous"`
	ImpactScore         *float64 `json:"impact_score"`
	SuggestedDays       *int     `json:"suggested_days"`
	RecommendedDecision string   `json:"recommended_decision"`
}

//go:generate mockgen -source=ml_client.go -destination=mock/ml_client_mock.go -package=mock
type MLClient interface {
	Predict(ctx context.Context, req PredictionRequest) MLOutcome
	Healthy(ctx context.Context) bool
	// Train triggers out-of-core retraining; it is informational and bounded
	// far looser than prediction.
	Train(ctx context.Context) error
}

type MLConfig struct {
	BaseURL        string
	PredictTimeout time.Duration
	HealthTimeout  time.Duration
	TrainTimeout   time.Duration
}

type mlClient struct {
	cfg    MLConfig
	http   *http.Client
	logger *zap.Logger
}

func NewMLClient(cfg MLConfig, logger ...*zap.Logger) MLClient {
	l := zap.L().Named("classification.ml")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("classification.ml")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.PredictTimeout <= 0 {
		cfg.PredictTimeout = 10 * time.Second
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 2 * time.Second
	}
	if cfg.TrainTimeout <= 0 {
		cfg.TrainTimeout = 5 * time.Minute
	}
	return &mlClient{
		cfg:    cfg,
		http:   &http.Client{},
		logger: l,
	}
}

func (c *mlClient) Predict(ctx context.Context, req PredictionRequest) MLOutcome {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.PredictTimeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return MLOutcome{Status: OutcomeFailed, Kind: FailureOther, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/api/ml/predict", bytes.NewReader(body))
	if err != nil {
		return MLOutcome{Status: OutcomeFailed, Kind: FailureOther, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		kind := failureKind(err)
		c.logger.Warn("ml prediction call failed",
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
		return MLOutcome{Status: OutcomeFailed, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("ml service returned status %d", resp.StatusCode)
		c.logger.Warn("ml prediction call failed", zap.Error(err))
		return MLOutcome{Status: OutcomeFailed, Kind: FailureOther, Err: err}
	}

	var prediction MLPrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		c.logger.Warn("ml prediction response malformed", zap.Error(err))
		return MLOutcome{Status: OutcomeFailed, Kind: FailureMalformed, Err: err}
	}
	if prediction.PermitType == "" || prediction.ApprovalProbability < 0 || prediction.ApprovalProbability > 1 {
		err := fmt.Errorf("ml prediction out of contract: type=%q probability=%f",
			prediction.PermitType, prediction.ApprovalProbability)
		c.logger.Warn("ml prediction response malformed", zap.Error(err))
		return MLOutcome{Status: OutcomeFailed, Kind: FailureMalformed, Err: err}
	}
	if !IsKnownPermit(prediction.PermitType) {
		prediction.PermitType = PermitPersonal
	}

	return MLOutcome{Status: OutcomeSuccess, Prediction: prediction}
}

func (c *mlClient) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/ml/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *mlClient) Train(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TrainTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/ml/train", bytes.NewReader([]byte("{}")))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ml training returned status %d", resp.StatusCode)
	}
	c.logger.Info("ml model training completed")
	return nil
}

func failureKind(err error) FailureKind {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return FailureConnRefused
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureOther
}
