package classification_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jdsuarez23/comfachoco/internal/classification"
)

func chatReply(label string) string {
	return fmt.Sprintf(`{"choices": [{"message": {"content": %q}}]}`, label)
}

func TestAIClient_Classify(t *testing.T) {
	ctx := context.Background()
	reason := "Cita medica programada con especialista"

	t.Run("unconfigured client skips", func(t *testing.T) {
		client := classification.NewAIClient(classification.AIConfig{})
		out := client.Classify(ctx, reason)

		assert.Equal(t, classification.OutcomeSkipped, out.Status)
		assert.NoError(t, out.Err)
	})

	t.Run("known label", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			w.Write([]byte(chatReply("MEDICAL")))
		}))
		defer srv.Close()

		client := classification.NewAIClient(classification.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
		out := client.Classify(ctx, reason)

		assert.Equal(t, classification.OutcomeSuccess, out.Status)
		assert.Equal(t, classification.PermitMedical, out.Label)
		assert.False(t, out.Degraded)
	})

	t.Run("label is trimmed and uppercased", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(chatReply("  vacation \n")))
		}))
		defer srv.Close()

		client := classification.NewAIClient(classification.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
		out := client.Classify(ctx, reason)

		assert.Equal(t, classification.OutcomeSuccess, out.Status)
		assert.Equal(t, classification.PermitVacation, out.Label)
	})

	t.Run("out-of-set label degrades to personal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(chatReply("SICK_LEAVE")))
		}))
		defer srv.Close()

		client := classification.NewAIClient(classification.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
		out := client.Classify(ctx, reason)

		assert.Equal(t, classification.OutcomeSuccess, out.Status)
		assert.Equal(t, classification.PermitPersonal, out.Label)
		assert.True(t, out.Degraded)
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := classification.NewAIClient(classification.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
		out := client.Classify(ctx, reason)

		assert.Equal(t, classification.OutcomeFailed, out.Status)
		assert.Error(t, out.Err)
	})

	t.Run("empty choices fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		}))
		defer srv.Close()

		client := classification.NewAIClient(classification.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
		out := client.Classify(ctx, reason)

		assert.Equal(t, classification.OutcomeFailed, out.Status)
		assert.Error(t, out.Err)
	})

	t.Run("unreachable service fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client := classification.NewAIClient(classification.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
		out := client.Classify(ctx, reason)

		assert.Equal(t, classification.OutcomeFailed, out.Status)
		assert.Error(t, out.Err)
	})
}

func TestIsKnownPermit(t *testing.T) {
	for _, label := range classification.PermitLabels {
		assert.True(t, classification.IsKnownPermit(label))
	}
	assert.False(t, classification.IsKnownPermit("SABBATICAL"))
	assert.False(t, classification.IsKnownPermit("medical"))
	assert.False(t, classification.IsKnownPermit(""))
}
