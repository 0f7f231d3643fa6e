// Package models holds the career-artifact entities shared by the store, the
// analysis workflows and the HTTP surface.
package models

import (
	"strings"
	"time"
)

// ReviewSource records what a review was computed from.
type ReviewSource string

const (
	SourceCV     ReviewSource = "cv"
	SourceUpload ReviewSource = "upload"
)

// UserProfile is the singleton identity of the device owner.
type UserProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"notblank"`
	Email     string    `json:"email" validate:"notblank"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Section is one titled block of a CV.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CV is a user-authored curriculum vitae.
type CV struct {
	ID        string    `json:"id" validate:"notblank"`
	Name      string    `json:"name" validate:"notblank"`
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Text flattens the CV into plain text for scorers.
func (cv CV) Text() string {
	var b strings.Builder
	b.WriteString(cv.Name)
	for _, s := range cv.Sections {
		b.WriteString("\n\n")
		if s.Title != "" {
			b.WriteString(s.Title)
			b.WriteString("\n")
		}
		b.WriteString(s.Content)
	}
	return b.String()
}

// ReviewFeedback is the qualitative part of a review.
type ReviewFeedback struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Suggestions  string   `json:"suggestions"`
}

// NewReviewFeedback builds feedback with nil lists normalized to empty.
func NewReviewFeedback(strengths, improvements []string, suggestions string) ReviewFeedback {
	return ReviewFeedback{
		Strengths:    nonNil(strengths),
		Improvements: nonNil(improvements),
		Suggestions:  suggestions,
	}
}

// CVReview is a scored assessment of a CV or an uploaded document.
type CVReview struct {
	ID           string         `json:"id" validate:"notblank"`
	CVID         string         `json:"cvId" validate:"notblank"`
	Source       ReviewSource   `json:"source,omitempty" validate:"omitempty,oneof=cv upload"`
	DocumentName string         `json:"documentName,omitempty"`
	Score        int            `json:"score" validate:"min=0,max=100"`
	Feedback     ReviewFeedback `json:"feedback"`
	CreatedAt    time.Time      `json:"createdAt,omitzero"`
}

// JobMatch is the fit of a CV against a job description.
type JobMatch struct {
	ID             string    `json:"id" validate:"notblank"`
	CVID           string    `json:"cvId" validate:"notblank"`
	JobDescription string    `json:"jobDescription" validate:"notblank"`
	MatchScore     int       `json:"matchScore" validate:"min=0,max=100"`
	MissingSkills  []string  `json:"missingSkills"`
	Suggestions    string    `json:"suggestions"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
}

// CoverLetter is a drafted or saved application letter.
type CoverLetter struct {
	ID             string    `json:"id" validate:"notblank"`
	UserID         string    `json:"userId"`
	CVID           string    `json:"cvId,omitempty"`
	Name           string    `json:"name"`
	JobTitle       string    `json:"jobTitle" validate:"notblank"`
	CompanyName    string    `json:"companyName" validate:"notblank"`
	JobDescription string    `json:"jobDescription"`
	Content        string    `json:"content" validate:"notblank"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero" validate:"omitempty,gtefield=CreatedAt"`
}

// DedupeSkills removes case-insensitive duplicates and blanks, keeping the
// first spelling seen.
func DedupeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ClampScore bounds a score to [0, 100].
func ClampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
