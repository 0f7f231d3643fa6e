package llm

import _ "embed"

var (
	//go:embed prompts/review.txt
	promptReview string
	//go:embed prompts/match.txt
	promptMatch string
	//go:embed prompts/cover_letter.txt
	promptCoverLetter string
)

// PromptTemplate returns the developer prompt for task and whether the task
// was recognized.
func PromptTemplate(task Task) (string, bool) {
	switch task {
	case TaskReview:
		return promptReview, true
	case TaskMatch:
		return promptMatch, true
	case TaskCoverLetter:
		return promptCoverLetter, true
	default:
		return "", false
	}
}
