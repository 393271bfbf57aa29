// Package llm holds the text completion providers used to answer questions about stored files.
package llm

import (
	"context"
	"fmt"
)

// TextCompletion turns a prompt into generated text.
type TextCompletion interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderError is returned by providers for any failure of the upstream model call.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Unconfigured is used when no API key is available. Every call fails.
type Unconfigured struct{}

func (Unconfigured) Complete(context.Context, string) (string, error) {
	return "", &ProviderError{Provider: "unconfigured", Err: fmt.Errorf("no language model is configured, set GEMINI_API_KEY")}
}
