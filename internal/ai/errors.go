package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// APIError is a non-2xx reply from a provider. Code holds either the
// provider's own error code or, for Gemini, the RPC status name.
type APIError struct {
	Provider   string         `json:"-"`
	StatusCode int            `json:"-"`
	Code       string         `json:"code,omitempty"`
	Message    string         `json:"message,omitempty"`
	Raw        map[string]any `json:"-"`
	RequestID  string         `json:"-"`
}

func (e *APIError) Error() string { return e.describe("") }

// describe renders "<provider>: <what>: status=... code=... request_id=... message=...".
func (e *APIError) describe(what string) string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider + ": ")
	}
	if what != "" {
		b.WriteString(what + ": ")
	}
	fmt.Fprintf(&b, "status=%d", e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " code=%s", e.Code)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " request_id=%s", e.RequestID)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, " message=%s", e.Message)
	}
	return b.String()
}

// AuthError: the API key was missing, wrong or lacks access to the model.
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return e.describe("credentials rejected (check api_key / gemini_api_key)")
}
func (e *AuthError) Unwrap() error { return e.APIError }

// RateLimitError is a 429. RetryAfter is zero when the provider gave no hint.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return e.describe(fmt.Sprintf("rate limited, retry in %s", e.RetryAfter))
	}
	return e.describe("rate limited")
}
func (e *RateLimitError) Unwrap() error { return e.APIError }

// ModelNotFoundError: the model name is unknown to the provider (or not pulled, for Ollama).
type ModelNotFoundError struct{ *APIError }

func (e *ModelNotFoundError) Error() string {
	if e.Provider == ProviderOllama {
		return e.describe("model not found (try `ollama pull <model>`)")
	}
	return e.describe("model not found (see `insightsheet models`)")
}
func (e *ModelNotFoundError) Unwrap() error { return e.APIError }

type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string  { return e.describe("request rejected") }
func (e *BadRequestError) Unwrap() error { return e.APIError }

// QuotaExceededError covers billing and exhausted-quota replies, which retrying will not fix.
type QuotaExceededError struct{ *APIError }

func (e *QuotaExceededError) Error() string { return e.describe("quota exceeded") }
func (e *QuotaExceededError) Unwrap() error { return e.APIError }

type ServerError struct{ *APIError }

func (e *ServerError) Error() string  { return e.describe("provider failure") }
func (e *ServerError) Unwrap() error { return e.APIError }

// UnreachableError: no HTTP reply at all, typically a local Ollama that is not running.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("cannot reach %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("endpoint unreachable: %v", e.Err)
}
func (e *UnreachableError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt of the same request may succeed.
func Retryable(err error) bool {
	var (
		rl *RateLimitError
		se *ServerError
		ue *UnreachableError
	)
	return errors.As(err, &rl) || errors.As(err, &se) || errors.As(err, &ue)
}

// classify maps a decoded APIError onto the typed errors. HTTP status codes
// and Google RPC status names are both understood, so the HTTP runtimes and
// the genai SDK share one table.
func classify(e *APIError, h http.Header) error {
	sc := e.StatusCode
	switch {
	case sc == http.StatusUnauthorized || sc == http.StatusForbidden ||
		e.Code == "UNAUTHENTICATED" || e.Code == "PERMISSION_DENIED":
		return &AuthError{e}
	case sc == http.StatusTooManyRequests:
		return &RateLimitError{APIError: e, RetryAfter: retryAfter(h)}
	case sc == http.StatusNotFound || e.Code == "NOT_FOUND":
		// Ollama and Gemini only 404 on the model path.
		if e.Provider == ProviderOllama || e.Provider == ProviderGemini ||
			e.Code == "model_not_found" || containsAllFold(e.Message, "model", "not", "found") {
			return &ModelNotFoundError{e}
		}
		return e
	case sc == http.StatusBadRequest || e.Code == "INVALID_ARGUMENT" || e.Code == "FAILED_PRECONDITION":
		return &BadRequestError{e}
	case e.Code == "quota_exceeded" || e.Code == "RESOURCE_EXHAUSTED" ||
		containsAnyFold(e.Message, "quota", "billing", "limit exceeded"):
		return &QuotaExceededError{e}
	case sc >= 500 && sc <= 599 || e.Code == "UNAVAILABLE" || e.Code == "INTERNAL":
		return &ServerError{e}
	}
	return e
}

// fromGenAI converts an error returned by the genai SDK.
func fromGenAI(err error) error {
	var ge genai.APIError
	if !errors.As(err, &ge) {
		return fmt.Errorf("gemini request: %w", err)
	}
	return classify(&APIError{
		Provider:   ProviderGemini,
		StatusCode: ge.Code,
		Code:       ge.Status,
		Message:    ge.Message,
	}, nil)
}

func containsAllFold(s string, subs ...string) bool {
	for _, sub := range subs {
		if !containsFold(s, sub) {
			return false
		}
	}
	return true
}

func containsAnyFold(s string, subs ...string) bool {
	for _, sub := range subs {
		if containsFold(s, sub) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	if s == "" || sub == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
