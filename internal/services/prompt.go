package services

import (
	"fmt"
	"strings"
)

// Sentinel replies the backend is instructed to return instead of
// content when the input fails its validation.
const (
	sentinelInvalidInput = "INVALID_INPUT"
	sentinelNotValid     = "NOT_VALID"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCriteriaExtractionPrompt creates the prompt for extracting job
// requirements from a job description.
func (pb *PromptBuilder) BuildCriteriaExtractionPrompt(jobDescription string) string {
	return fmt.Sprintf(`Analyse and validate if the provided text is a job description. If it is not, return "%s" and nothing else.
Extract all key requirements from this job description such as skills, certifications, experience, and qualifications:

%s

Format:
- Each requirement must be a clear, self-contained statement on its own line.
- No bullet points, hyphens or numbers.
- Each requirement must be a quantifiable metric.
- Each requirement must be a must-have, no nice-to-haves.

Return only the extracted requirements as a plain list, one per line.`,
		sentinelInvalidInput, jobDescription)
}

// BuildResumeScoringPrompt creates the prompt for scoring one resume
// against the requirement list.
func (pb *PromptBuilder) BuildResumeScoringPrompt(requirements []string, resume string) string {
	return fmt.Sprintf(`You are a resume ranking and analysis expert. Rank the resume you are provided as per the requirements.
For each requirement, provide a score from 0 to 5, 0 being the least matched and 5 being the most.

Requirements:
%s

Resume:
%s

Return a string response only as "%s" and nothing else, if:
- the resume is not a valid resume from a candidate, or
- the job requirements are not valid requirements.

Otherwise return a valid JSON object, where:
- the first key is "%s" with the candidate's name as a string value,
- every job requirement is a key, copied exactly as given above, and its integer score (0-5) is the value,
- no other keys are present.`,
		strings.Join(requirements, "\n"), resume, sentinelNotValid, "Candidate Name")
}

// BuildLabelShorteningPrompt creates the prompt that turns full column
// headers into short display labels.
func (pb *PromptBuilder) BuildLabelShorteningPrompt(headers []string) string {
	return fmt.Sprintf(`Convert these spreadsheet column headers into short labels of at most three words each.

Headers:
%s

Return only a JSON object with each header as a key and its short label as the string value.`,
		strings.Join(headers, "\n"))
}
