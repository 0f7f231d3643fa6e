package openai

import (
	"fmt"
	"strings"

	"cvai-core/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const (
	systemPrompt        = "You are a career document assistant. Respond with JSON only. No markdown. Output must match the schema exactly."
	systemPromptFixJSON = "You are a JSON repair tool. Return only valid JSON that matches the schema exactly."
	defaultApplicant    = "[Your Name]"
)

// BuildPrompt creates the chat messages for a request.
func BuildPrompt(req llm.Request) ([]Message, error) {
	developer, err := developerPrompt(req)
	if err != nil {
		return nil, err
	}
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "developer", Content: developer},
		{Role: "user", Content: buildUserPrompt(req)},
	}, nil
}

func buildFixPrompt(req llm.Request, raw []byte) ([]Message, error) {
	developer, err := developerPrompt(req)
	if err != nil {
		return nil, err
	}
	return []Message{
		{Role: "system", Content: systemPromptFixJSON},
		{Role: "developer", Content: developer},
		{Role: "user", Content: fixUserPrompt(raw)},
	}, nil
}

func developerPrompt(req llm.Request) (string, error) {
	template, ok := llm.PromptTemplate(req.Task)
	if !ok {
		return "", fmt.Errorf("unknown llm task %q", req.Task)
	}
	applicant := strings.TrimSpace(req.ApplicantName)
	if applicant == "" {
		applicant = defaultApplicant
	}
	replacer := strings.NewReplacer(
		"{{JOB_TITLE}}", req.JobTitle,
		"{{COMPANY_NAME}}", req.CompanyName,
		"{{APPLICANT_NAME}}", applicant,
	)
	return replacer.Replace(template), nil
}

func buildUserPrompt(req llm.Request) string {
	cv := req.CVText
	if strings.TrimSpace(cv) == "" {
		cv = "N/A"
	}
	jd := req.JobDescription
	if strings.TrimSpace(jd) == "" {
		jd = "N/A"
	}
	return fmt.Sprintf("CV Text:\n%s\n\nJob Description:\n%s", cv, jd)
}

func fixUserPrompt(raw []byte) string {
	return fmt.Sprintf("Fix this JSON to match the schema exactly. Output JSON only:\n%s", string(raw))
}
