package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/go-pkgz/repeater"

	"cvai-core/internal/llm"
	"cvai-core/internal/shared/telemetry"
)

// LLM asks an llm.Client for each result and parses the JSON answer.
// Transient provider failures are retried.
type LLM struct {
	client   llm.Client
	repeater *repeater.Repeater
}

// NewLLM wraps client. attempts is the total number of calls per request.
func NewLLM(client llm.Client, attempts int) *LLM {
	return &LLM{client: client, repeater: newRepeater(attempts)}
}

type reviewAnswer struct {
	Score        *float64 `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Suggestions  string   `json:"suggestions"`
}

type matchAnswer struct {
	MatchScore    *float64 `json:"matchScore"`
	MissingSkills []string `json:"missingSkills"`
	Suggestions   string   `json:"suggestions"`
}

type letterAnswer struct {
	Content string `json:"content"`
}

func (s *LLM) Review(ctx context.Context, in ReviewInput) (ReviewResult, error) {
	var ans reviewAnswer
	if err := s.complete(ctx, llm.Request{Task: llm.TaskReview, CVText: in.CVText}, &ans); err != nil {
		return ReviewResult{}, err
	}
	if ans.Score == nil {
		return ReviewResult{}, fmt.Errorf("%w: review missing score", ErrUnparseableResult)
	}
	return ReviewResult{
		Score:        roundScore(*ans.Score),
		Strengths:    ans.Strengths,
		Improvements: ans.Improvements,
		Suggestions:  strings.TrimSpace(ans.Suggestions),
	}.Normalize(), nil
}

func (s *LLM) Match(ctx context.Context, in MatchInput) (MatchResult, error) {
	var ans matchAnswer
	req := llm.Request{Task: llm.TaskMatch, CVText: in.CVText, JobDescription: in.JobDescription}
	if err := s.complete(ctx, req, &ans); err != nil {
		return MatchResult{}, err
	}
	if ans.MatchScore == nil {
		return MatchResult{}, fmt.Errorf("%w: match missing matchScore", ErrUnparseableResult)
	}
	return MatchResult{
		MatchScore:    roundScore(*ans.MatchScore),
		MissingSkills: ans.MissingSkills,
		Suggestions:   strings.TrimSpace(ans.Suggestions),
	}.Normalize(), nil
}

func (s *LLM) CoverLetter(ctx context.Context, in LetterInput) (string, error) {
	var ans letterAnswer
	req := llm.Request{
		Task:           llm.TaskCoverLetter,
		CVText:         in.CVText,
		JobDescription: in.JobDescription,
		JobTitle:       in.JobTitle,
		CompanyName:    in.CompanyName,
		ApplicantName:  in.ApplicantName,
	}
	if err := s.complete(ctx, req, &ans); err != nil {
		return "", err
	}
	content := strings.TrimSpace(ans.Content)
	if content == "" {
		return "", fmt.Errorf("%w: letter missing content", ErrUnparseableResult)
	}
	return content, nil
}

func (s *LLM) complete(ctx context.Context, req llm.Request, out any) error {
	attempt := 0
	var raw json.RawMessage
	err := retry(ctx, s.repeater, func() error {
		attempt++
		var err error
		raw, err = s.client.CompleteJSON(ctx, req)
		if err != nil {
			telemetry.Warn("llm.call_failed", map[string]any{"task": string(req.Task), "attempt": attempt, "error": err})
		}
		return err
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", ErrUnparseableResult, err)
	}
	return nil
}

func roundScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(math.Max(-1, math.Min(101, v))))
}

var _ Strategy = (*LLM)(nil)
