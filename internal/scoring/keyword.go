package scoring

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	actionVerbs = []string{
		"led", "built", "designed", "developed", "implemented", "managed", "delivered",
		"improved", "launched", "created", "optimized", "reduced", "increased", "automated",
	}
	sectionHeadings = []string{"experience", "education", "skills", "summary"}
	quantified      = regexp.MustCompile(`\d+(\.\d+)?\s?%|[$€£]\s?\d|\b\d{2,}\+?\b`)
)

const (
	minWords = 150
	maxWords = 1000
)

// Keyword is a deterministic heuristic scorer over plain text.
type Keyword struct {
	Vocabulary []string
}

// NewKeyword returns a keyword scorer using vocabulary, or DefaultVocabulary
// when it is empty.
func NewKeyword(vocabulary []string) *Keyword {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}
	return &Keyword{Vocabulary: vocabulary}
}

func (k *Keyword) Review(ctx context.Context, in ReviewInput) (ReviewResult, error) {
	if err := ctx.Err(); err != nil {
		return ReviewResult{}, err
	}
	lower := strings.ToLower(in.CVText)
	words := len(strings.Fields(in.CVText))

	score := 30
	strengths := []string{}
	improvements := []string{}

	sections := 0
	missingSections := []string{}
	for _, h := range sectionHeadings {
		if containsTerm(lower, h) {
			sections++
		} else {
			missingSections = append(missingSections, h)
		}
	}
	score += sections * 10
	if len(missingSections) == 0 {
		strengths = append(strengths, "Clear structure and organization")
	} else {
		improvements = append(improvements, fmt.Sprintf("Add clearly labelled sections for: %s", strings.Join(missingSections, ", ")))
	}

	verbs := 0
	for _, v := range actionVerbs {
		if containsTerm(lower, v) {
			verbs++
		}
	}
	if verbs >= 3 {
		score += 15
		strengths = append(strengths, "Good use of action verbs")
	} else {
		improvements = append(improvements, "Start bullet points with strong action verbs")
	}

	if quantified.MatchString(in.CVText) {
		score += 15
		strengths = append(strengths, "Quantifiable achievements included")
	} else {
		improvements = append(improvements, "Quantify achievements with numbers or percentages")
	}

	switch {
	case words < minWords:
		score -= 10
		improvements = append(improvements, "CV is too short to show the depth of your experience")
	case words > maxWords:
		score -= 10
		improvements = append(improvements, "CV is long; trim older or less relevant positions")
	}

	if skills := ExtractSkills(in.CVText, k.Vocabulary); len(skills) >= 5 {
		strengths = append(strengths, "Broad set of recognizable skills")
	} else {
		improvements = append(improvements, "Consider adding more keywords from the industry")
	}

	suggestions := "Your CV covers the essentials. Tailor the summary and keywords to each role you apply for."
	if len(improvements) > 0 {
		suggestions = "Focus on these changes first: " + strings.Join(lowerFirst(improvements), "; ") + "."
	}

	return ReviewResult{
		Score:        score,
		Strengths:    strengths,
		Improvements: improvements,
		Suggestions:  suggestions,
	}.Normalize(), nil
}

func (k *Keyword) Match(ctx context.Context, in MatchInput) (MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return MatchResult{}, err
	}
	jdSkills := ExtractSkills(in.JobDescription, k.Vocabulary)
	cvSkills := ExtractSkills(in.CVText, k.Vocabulary)
	have := make(map[string]struct{}, len(cvSkills))
	for _, s := range cvSkills {
		have[strings.ToLower(s)] = struct{}{}
	}

	missing := []string{}
	for _, s := range jdSkills {
		if _, ok := have[strings.ToLower(s)]; !ok {
			missing = append(missing, s)
		}
	}

	score := 100
	if len(jdSkills) > 0 {
		matched := len(jdSkills) - len(missing)
		score = int(math.Round(100 * float64(matched) / float64(len(jdSkills))))
	}

	suggestions := "Your CV covers every skill the job description names. Lead with the achievements most relevant to this role."
	if len(missing) > 0 {
		suggestions = fmt.Sprintf("Add any experience you have with %s, and mirror the job description's wording where it is accurate.", joinList(missing))
	}

	return MatchResult{
		MatchScore:    score,
		MissingSkills: missing,
		Suggestions:   suggestions,
	}.Normalize(), nil
}

func (k *Keyword) CoverLetter(ctx context.Context, in LetterInput) (string, error) {
	return Template{}.CoverLetter(ctx, in)
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func lowerFirst(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		if s == "" {
			continue
		}
		out[i] = strings.ToLower(s[:1]) + s[1:]
	}
	return out
}

var _ Strategy = (*Keyword)(nil)
