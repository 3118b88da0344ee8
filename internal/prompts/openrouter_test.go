// internal/prompts/openrouter_test.go
package prompts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRouterStub(t *testing.T, status int, message map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer or-test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, model, req.Model)
		assert.Len(t, req.Messages, 2)

		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":"nope"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": message},
			},
		})
	}))
}

func TestGenerateReturnsModelContent(t *testing.T) {
	srv := openRouterStub(t, http.StatusOK, map[string]string{
		"content": "  What made you smile today?  ",
	})
	defer srv.Close()

	c := NewClient("or-test-key", srv.URL)
	prompt, err := c.Generate(context.Background(), "gratitude-focused questions")
	require.NoError(t, err)
	assert.Equal(t, "What made you smile today?", prompt)
}

func TestGenerateExtractsQuestionFromReasoning(t *testing.T) {
	srv := openRouterStub(t, http.StatusOK, map[string]string{
		"content":   "",
		"reasoning": "The user wants a reflective prompt.\nWhat fear did you quietly face today?\nThat seems good.",
	})
	defer srv.Close()

	c := NewClient("or-test-key", srv.URL)
	prompt, err := c.Generate(context.Background(), "personal growth and goals")
	require.NoError(t, err)
	assert.Equal(t, "What fear did you quietly face today?", prompt)
}

func TestGenerateFallsBackOnEmptyResponse(t *testing.T) {
	srv := openRouterStub(t, http.StatusOK, map[string]string{
		"content":   "",
		"reasoning": "no question here at all",
	})
	defer srv.Close()

	c := NewClient("or-test-key", srv.URL)

	prompt, err := c.Generate(context.Background(), "gratitude-focused questions")
	require.NoError(t, err)
	assert.Equal(t, fallbackPrompts["gratitude-focused questions"], prompt)

	// An unknown prompt type falls through to the generic prompt.
	prompt, err = c.Generate(context.Background(), "made-up type")
	require.NoError(t, err)
	assert.Equal(t, defaultFallbackPrompt, prompt)
}

func TestGenerateErrorsOnUpstreamFailure(t *testing.T) {
	srv := openRouterStub(t, http.StatusTooManyRequests, nil)
	defer srv.Close()

	c := NewClient("or-test-key", srv.URL)
	_, err := c.Generate(context.Background(), "gratitude-focused questions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateErrorsOnNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewClient("or-test-key", srv.URL)
	_, err := c.Generate(context.Background(), "gratitude-focused questions")
	require.Error(t, err)
}

func TestExtractQuestion(t *testing.T) {
	assert.Equal(t, "", extractQuestion("nothing interrogative"))
	assert.Equal(t, "", extractQuestion("ok?")) // too short to be a real prompt
	assert.Equal(t, "Where do you feel most at home?", extractQuestion("thinking...\nWhere do you feel most at home?"))
}
