package scoring

import (
	"context"
	"strings"
)

const letterTemplate = "Dear Hiring Manager,\n\n" +
	"I am writing to express my interest in the {{JOB_TITLE}} position at {{COMPANY_NAME}}. " +
	"With my background and skills, I believe I would be a valuable addition to your team.\n\n" +
	"Throughout my career, I have developed expertise in areas that align perfectly with the requirements outlined in your job description. " +
	"I am particularly drawn to this opportunity because of your company's reputation for innovation and excellence.\n\n" +
	"I look forward to the opportunity to further discuss how my experience and skills would benefit {{COMPANY_NAME}}. " +
	"Thank you for considering my application.\n\n" +
	"Sincerely,\n" +
	"{{APPLICANT_NAME}}"

// PlaceholderSignature signs letters when no profile name is known.
const PlaceholderSignature = "[Your Name]"

// Template fills the fixed letter skeleton. It never fails.
type Template struct{}

func (Template) CoverLetter(ctx context.Context, in LetterInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return RenderLetter(in), nil
}

// RenderLetter substitutes job title, company and signature into the
// skeleton.
func RenderLetter(in LetterInput) string {
	name := strings.TrimSpace(in.ApplicantName)
	if name == "" {
		name = PlaceholderSignature
	}
	return strings.NewReplacer(
		"{{JOB_TITLE}}", strings.TrimSpace(in.JobTitle),
		"{{COMPANY_NAME}}", strings.TrimSpace(in.CompanyName),
		"{{APPLICANT_NAME}}", name,
	).Replace(letterTemplate)
}
