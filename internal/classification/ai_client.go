package classification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=ai_client.go -destination=mock/ai_client_mock.go -package=mock
type AIClient interface {
	// Classify maps free reason text to one permit label. Unconfigured
	// clients report OutcomeSkipped; that is a legitimate result, not an
	// error.
	Classify(ctx context.Context, reasonText string) AIOutcome
}

type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type aiClient struct {
	cfg    AIConfig
	http   *http.Client
	logger *zap.Logger
}

func NewAIClient(cfg AIConfig, logger ...*zap.Logger) AIClient {
	l := zap.L().Named("classification.ai")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("classification.ai")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &aiClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: l,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *aiClient) Classify(ctx context.Context, reasonText string) AIOutcome {
	if c.cfg.APIKey == "" {
		return AIOutcome{Status: OutcomeSkipped}
	}

	system := "You are an expert classifier of leave request justifications. " +
		"Return ONLY one of the allowed labels with no explanation: " +
		strings.Join(PermitLabels, ", ") +
		". Interpret the text and its context. Do not invent labels."

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: fmt.Sprintf("Reason: %s\nLabel:", reasonText)},
		},
		Temperature: 0,
		MaxTokens:   5,
	})
	if err != nil {
		return AIOutcome{Status: OutcomeFailed, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return AIOutcome{Status: OutcomeFailed, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("ai classification call failed", zap.Error(err))
		return AIOutcome{Status: OutcomeFailed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("ai classifier returned status %d", resp.StatusCode)
		c.logger.Warn("ai classification call failed", zap.Error(err))
		return AIOutcome{Status: OutcomeFailed, Err: err}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return AIOutcome{Status: OutcomeFailed, Err: err}
	}
	if len(parsed.Choices) == 0 {
		return AIOutcome{Status: OutcomeFailed, Err: fmt.Errorf("ai classifier returned no choices")}
	}

	label := strings.ToUpper(strings.TrimSpace(parsed.Choices[0].Message.Content))
	if !IsKnownPermit(label) {
		// Out-of-set reply: degraded success, never a hard failure.
		c.logger.Warn("ai label outside closed set, normalized",
			zap.String("raw_label", label),
		)
		return AIOutcome{Status: OutcomeSuccess, Label: PermitPersonal, Degraded: true}
	}

	return AIOutcome{Status: OutcomeSuccess, Label: label}
}
