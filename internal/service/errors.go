package service

import (
	"errors"
	"fmt"
)

var (
	ErrStateMismatch   = errors.New("state mismatch")
	ErrMissingCode     = errors.New("authorization code is missing")
	ErrTokenExchange   = errors.New("token exchange failed")
	ErrUnauthenticated = errors.New("not authorized, call /authorize first")
	ErrMissingFields   = errors.New("blog_id, title and content are required")
	ErrMissingTopic    = errors.New("topic is required")
	ErrNoCompleter     = errors.New("no text generation provider configured")
	ErrNotCompleted    = errors.New("generation not completed yet")
)

const (
	GenerationErrorProvider = "provider"
	GenerationErrorParse    = "parse"
	GenerationErrorSchema   = "schema"
)

// GenerationError is returned by TextService when a provider call or its output is unusable.
type GenerationError struct {
	Kind   string
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ProviderError wraps a rejection from an upstream API such as Blogger.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ValidationError reports a request the caller has to fix.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error) error {
	return &ValidationError{Err: err}
}
