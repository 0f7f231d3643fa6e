// Package scoring computes review scores, job-match results and cover-letter
// text. Baseline returns canonical fixed results after a simulated latency;
// Keyword and LLM derive results from the inputs.
package scoring

import (
	"context"
	"errors"
	"time"

	"cvai-core/internal/models"
)

// ErrUnparseableResult is returned when a model answer lacks a required field.
var ErrUnparseableResult = errors.New("unparseable scoring result")

type ReviewInput struct {
	CVText       string
	DocumentName string
}

type ReviewResult struct {
	Score        int
	Strengths    []string
	Improvements []string
	Suggestions  string
}

// Normalize clamps the score and replaces nil lists with empty ones.
func (r ReviewResult) Normalize() ReviewResult {
	fb := models.NewReviewFeedback(r.Strengths, r.Improvements, r.Suggestions)
	return ReviewResult{
		Score:        models.ClampScore(r.Score),
		Strengths:    fb.Strengths,
		Improvements: fb.Improvements,
		Suggestions:  fb.Suggestions,
	}
}

type MatchInput struct {
	CVText         string
	JobDescription string
}

type MatchResult struct {
	MatchScore    int
	MissingSkills []string
	Suggestions   string
}

// Normalize clamps the score and deduplicates missing skills.
func (m MatchResult) Normalize() MatchResult {
	return MatchResult{
		MatchScore:    models.ClampScore(m.MatchScore),
		MissingSkills: models.DedupeSkills(m.MissingSkills),
		Suggestions:   m.Suggestions,
	}
}

type LetterInput struct {
	JobTitle       string
	CompanyName    string
	JobDescription string
	CVText         string
	ApplicantName  string
}

// Scorer evaluates CVs.
type Scorer interface {
	Review(ctx context.Context, in ReviewInput) (ReviewResult, error)
	Match(ctx context.Context, in MatchInput) (MatchResult, error)
}

// Generator drafts cover letters.
type Generator interface {
	CoverLetter(ctx context.Context, in LetterInput) (string, error)
}

// Strategy is a scorer that can also draft letters.
type Strategy interface {
	Scorer
	Generator
}

// Latency is the simulated computation time per workflow.
type Latency struct {
	Review time.Duration
	Match  time.Duration
	Letter time.Duration
}

// DefaultLatency matches the reference timings of the baseline analyses.
func DefaultLatency() Latency {
	return Latency{Review: 3 * time.Second, Match: 3 * time.Second, Letter: 2 * time.Second}
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
