package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiGenerate(t *testing.T) {
	var body map[string]any
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": `{"op":"add"}`}}},
			}},
			"usageMetadata": map[string]any{"promptTokenCount": 7, "candidatesTokenCount": 3, "totalTokenCount": 10},
			"responseId":    "resp-1",
		})
	}))

	g, err := NewGeminiClient(context.Background(), "test-key", 2*time.Second, srv.URL)
	require.NoError(t, err)
	req := Prompt("gemini-2.5-flash", "Reply with JSON.", "add a and b")
	req.Messages = append(req.Messages, Message{Role: "assistant", Content: "ok"}, Message{Role: "user", Content: "again"})
	resp, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"op":"add"}`, resp.Text())
	assert.Equal(t, "resp-1", resp.ID)
	assert.Equal(t, 10, resp.Usage.TotalTokens)

	require.Contains(t, body, "systemInstruction")
	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 3)
	assert.Equal(t, "model", contents[1].(map[string]any)["role"])
}

func TestGeminiErrorMapping(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"},
		})
	}))
	g, err := NewGeminiClient(context.Background(), "bad", 2*time.Second, srv.URL)
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), userPrompt("hi"))
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "PERMISSION_DENIED", ae.Code)
}

func TestGeminiRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", 0, "")
	assert.EqualError(t, err, "GEMINI_API_KEY is missing")
}
