package scoring

import "context"

const (
	baselineReviewScore = 78
	baselineMatchScore  = 74

	baselineReviewSuggestions = "Try to focus on the most relevant experiences for your target role. " +
		"Consider removing older positions that aren't directly relevant. " +
		"Use more industry-specific keywords that will help your CV pass through ATS systems."

	baselineMatchSuggestions = "Your CV matches many of the key requirements, but you could improve your chances by " +
		"highlighting your experience with similar technologies and adding any relevant experience you might have with cloud services. " +
		"Consider adding specific metrics to demonstrate your impact in previous roles."
)

// Baseline returns the canonical fixed results after a simulated latency.
// It ignores document content.
type Baseline struct {
	Latency Latency
}

// NewBaseline returns a Baseline with the given latencies.
func NewBaseline(l Latency) *Baseline {
	return &Baseline{Latency: l}
}

func (b *Baseline) Review(ctx context.Context, _ ReviewInput) (ReviewResult, error) {
	if err := wait(ctx, b.Latency.Review); err != nil {
		return ReviewResult{}, err
	}
	return ReviewResult{
		Score: baselineReviewScore,
		Strengths: []string{
			"Clear structure and organization",
			"Good use of action verbs",
			"Quantifiable achievements included",
		},
		Improvements: []string{
			"Consider adding more keywords from the industry",
			"Professional summary could be more impactful",
			"Too many bullet points in work experience",
		},
		Suggestions: baselineReviewSuggestions,
	}, nil
}

func (b *Baseline) Match(ctx context.Context, _ MatchInput) (MatchResult, error) {
	if err := wait(ctx, b.Latency.Match); err != nil {
		return MatchResult{}, err
	}
	return MatchResult{
		MatchScore:    baselineMatchScore,
		MissingSkills: []string{"Docker", "AWS", "TypeScript"},
		Suggestions:   baselineMatchSuggestions,
	}, nil
}

func (b *Baseline) CoverLetter(ctx context.Context, in LetterInput) (string, error) {
	if err := wait(ctx, b.Latency.Letter); err != nil {
		return "", err
	}
	return RenderLetter(in), nil
}

var _ Strategy = (*Baseline)(nil)
