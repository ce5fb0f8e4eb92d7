package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   APIError
		want any
	}{
		{"401", APIError{StatusCode: 401}, &AuthError{}},
		{"rpc unauthenticated", APIError{Provider: ProviderGemini, StatusCode: 401, Code: "UNAUTHENTICATED"}, &AuthError{}},
		{"429", APIError{StatusCode: 429}, &RateLimitError{}},
		{"openrouter plain 404", APIError{Provider: ProviderOpenRouter, StatusCode: 404, Message: "no route"}, &APIError{}},
		{"ollama 404", APIError{Provider: ProviderOllama, StatusCode: 404, Message: "pull it"}, &ModelNotFoundError{}},
		{"gemini not found", APIError{Provider: ProviderGemini, StatusCode: 404, Code: "NOT_FOUND"}, &ModelNotFoundError{}},
		{"invalid argument", APIError{Provider: ProviderGemini, StatusCode: 400, Code: "INVALID_ARGUMENT"}, &BadRequestError{}},
		{"billing 402", APIError{StatusCode: 402, Message: "billing required"}, &QuotaExceededError{}},
		{"unavailable", APIError{Provider: ProviderGemini, StatusCode: 503, Code: "UNAVAILABLE"}, &ServerError{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.in
			got := classify(&in, nil)
			assert.IsType(t, tc.want, got)

			var base *APIError
			require.ErrorAs(t, got, &base)
			assert.Same(t, &in, base)
		})
	}
}

func TestClassifyResourceExhausted(t *testing.T) {
	err := classify(&APIError{Provider: ProviderGemini, StatusCode: 429, Code: "RESOURCE_EXHAUSTED"}, nil)
	assert.IsType(t, &RateLimitError{}, err)
	assert.True(t, Retryable(err))

	err = classify(&APIError{Provider: ProviderGemini, StatusCode: 402, Code: "RESOURCE_EXHAUSTED"}, nil)
	var q *QuotaExceededError
	require.ErrorAs(t, err, &q)
	assert.False(t, Retryable(err))
}

func TestFromGenAI(t *testing.T) {
	err := fromGenAI(genai.APIError{Code: 404, Status: "NOT_FOUND", Message: "models/nope is not found"})
	var mnf *ModelNotFoundError
	require.ErrorAs(t, err, &mnf)
	assert.Equal(t, ProviderGemini, mnf.Provider)
	assert.Contains(t, err.Error(), "gemini: model not found")
	assert.Contains(t, err.Error(), "insightsheet models")

	err = fromGenAI(fmt.Errorf("dial: %w", errors.New("refused")))
	assert.EqualError(t, err, "gemini request: dial: refused")
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&RateLimitError{APIError: &APIError{}}))
	assert.True(t, Retryable(fmt.Errorf("wrapped: %w", &ServerError{&APIError{}})))
	assert.True(t, Retryable(&UnreachableError{Host: "h", Err: errors.New("x")}))
	assert.False(t, Retryable(&AuthError{&APIError{}}))
	assert.False(t, Retryable(errors.New("plain")))
}

func TestOllamaModelNotFoundMessage(t *testing.T) {
	err := &ModelNotFoundError{&APIError{Provider: ProviderOllama, StatusCode: 404}}
	assert.Contains(t, err.Error(), "ollama pull")
}

func TestRetryAfterRespectsContext(t *testing.T) {
	srv, calls := sequenceServer(t, []int{429, 200}, []http.Header{{"Retry-After": {"30"}}, {}}, okBody)
	c := NewClientWithBaseURL("test", 5*time.Second, 3, 0, 0, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := c.Generate(ctx, userPrompt("hi"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestBackoffRespectsContext(t *testing.T) {
	srv, calls := sequenceServer(t, []int{503}, nil, okBody)
	c := NewClientWithBaseURL("test", 5*time.Second, 3, 20*time.Second, 20*time.Second, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := c.Generate(ctx, userPrompt("hi"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestSleepCtx(t *testing.T) {
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
}
