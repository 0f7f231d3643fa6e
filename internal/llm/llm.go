package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Task names the kind of completion being requested.
type Task string

const (
	TaskReview      Task = "review"
	TaskMatch       Task = "match"
	TaskCoverLetter Task = "cover_letter"
)

// Request carries the task inputs rendered into the prompt.
type Request struct {
	Task           Task
	CVText         string
	JobDescription string
	JobTitle       string
	CompanyName    string
	ApplicantName  string
}

// Client abstracts LLM providers that answer with a single JSON object.
type Client interface {
	CompleteJSON(ctx context.Context, req Request) (json.RawMessage, error)
}

var (
	// ErrNotConfigured is returned when no provider credentials are set.
	ErrNotConfigured = errors.New("LLM not configured")

	// ErrTransient marks provider failures worth retrying (rate limits,
	// timeouts, 5xx).
	ErrTransient = errors.New("transient LLM failure")
)

// Unconfigured is the client used when the LLM scorer is selected without
// credentials. Every call fails with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) CompleteJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	return nil, ErrNotConfigured
}
