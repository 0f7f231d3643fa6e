package scoring

import (
	"strings"
	"unicode"
)

// DefaultVocabulary is the skill list the keyword scorer recognizes.
var DefaultVocabulary = []string{
	"Go", "Python", "Java", "JavaScript", "TypeScript", "Ruby", "Rust", "C++", "C#", "Kotlin", "Swift", "PHP", "Scala",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Kafka", "RabbitMQ", "Elasticsearch",
	"Docker", "Kubernetes", "Terraform", "Ansible", "AWS", "GCP", "Azure", "Linux", "CI/CD", "Git",
	"React", "Angular", "Vue", "Node.js", ".NET", "Spring", "Django", "Flask", "GraphQL", "REST", "gRPC",
	"Machine Learning", "Data Analysis", "Agile", "Scrum", "Project Management", "Leadership",
}

// ExtractSkills returns the vocabulary entries mentioned in text, in
// vocabulary order.
func ExtractSkills(text string, vocabulary []string) []string {
	lower := strings.ToLower(text)
	out := make([]string, 0)
	for _, skill := range vocabulary {
		if containsTerm(lower, strings.ToLower(skill)) {
			out = append(out, skill)
		}
	}
	return out
}

// containsTerm reports whether term occurs in text bounded by non-word
// characters. '+' and '#' count as word characters so "C" does not match
// inside "C++".
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for start := 0; start <= len(text)-len(term); {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		pos := start + idx
		end := pos + len(term)
		if boundaryBefore(text, pos) && boundaryAfter(text, end) {
			return true
		}
		start = pos + 1
	}
	return false
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	return !isWordByte(text[pos-1])
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	c := text[end]
	// sentence punctuation after a term such as "Node.js." still counts
	if c == '.' && (end+1 >= len(text) || !isWordByte(text[end+1])) {
		return true
	}
	return !isWordByte(c)
}

func isWordByte(c byte) bool {
	r := rune(c)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || c == '+' || c == '#' || c == '_' || c >= 0x80
}
