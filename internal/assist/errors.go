package assist

import "fmt"

// SuggestionError reports an assistant reply that could not be decoded into a
// column suggestion.
type SuggestionError struct {
	Reply string
	Err   error
}

func (e *SuggestionError) Error() string {
	return fmt.Sprintf("could not read column suggestion from reply: %v", e.Err)
}

func (e *SuggestionError) Unwrap() error { return e.Err }
