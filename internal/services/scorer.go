package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"resumerank/internal/apierror"
	"resumerank/internal/models"
)

// ResumeScorer rates one resume against a requirement set, yielding a
// per-requirement 0-5 score plus the candidate's name.
type ResumeScorer interface {
	Score(ctx context.Context, resumeText string, requirements []string) (models.ScoreRecord, error)
}

type resumeScorer struct {
	generator TextGenerator
	prompts   *PromptBuilder
	timeout   time.Duration
	logger    *zap.Logger
}

func NewResumeScorer(generator TextGenerator, timeout time.Duration, logger *zap.Logger) ResumeScorer {
	return &resumeScorer{
		generator: generator,
		prompts:   NewPromptBuilder(),
		timeout:   timeout,
		logger:    logger,
	}
}

// Score implements ResumeScorer.
func (s *resumeScorer) Score(ctx context.Context, resumeText string, requirements []string) (models.ScoreRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.generator.GenerateText(ctx, s.prompts.BuildResumeScoringPrompt(requirements, resumeText), 0.1)
	if err != nil {
		s.logger.Error("resume scoring failed", zap.Error(err))
		return models.ScoreRecord{}, apierror.Internal(fmt.Sprintf("Scoring failed: %s", err))
	}

	if strings.Contains(response, sentinelNotValid) {
		return models.ScoreRecord{}, apierror.BadRequest("Not a valid Resume or Job Requirements")
	}

	record, err := parseScoreRecord(stripMarkdownFences(response), requirements)
	if err != nil {
		s.logger.Error("malformed scoring response", zap.Error(err))
		return models.ScoreRecord{}, err
	}

	return record, nil
}

// parseScoreRecord validates the backend reply against a strict schema:
// a JSON object holding a "Candidate Name" string plus integer scores in
// [0,5] keyed only by members of the requirement set. The record is then
// canonicalized so every requirement is present, with omissions marked
// ScoreMissing rather than fabricated as zero.
func parseScoreRecord(payload string, requirements []string) (models.ScoreRecord, error) {
	if !gjson.Valid(payload) {
		return models.ScoreRecord{}, scoringResponseError("not well-formed JSON")
	}

	root := gjson.Parse(payload)
	if !root.IsObject() {
		return models.ScoreRecord{}, scoringResponseError("not a JSON object")
	}

	allowed := make(map[string]bool, len(requirements))
	for _, req := range requirements {
		allowed[req] = true
	}

	record := models.ScoreRecord{Scores: make(map[string]int, len(requirements))}
	var parseErr error
	var sawName bool

	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()

		if name == models.ColumnCandidateName {
			if value.Type != gjson.String {
				parseErr = scoringResponseError("candidate name is not a string")
				return false
			}
			sawName = true
			record.CandidateName = value.String()
			return true
		}

		if !allowed[name] {
			parseErr = scoringResponseError(fmt.Sprintf("unknown key %q", name))
			return false
		}
		if value.Type != gjson.Number || value.Num != math.Trunc(value.Num) {
			parseErr = scoringResponseError(fmt.Sprintf("non-integer score for %q", name))
			return false
		}

		score := int(value.Int())
		if score < 0 || score > 5 {
			parseErr = scoringResponseError(fmt.Sprintf("score out of range for %q", name))
			return false
		}

		record.Scores[name] = score
		return true
	})

	if parseErr != nil {
		return models.ScoreRecord{}, parseErr
	}
	if !sawName {
		return models.ScoreRecord{}, scoringResponseError("missing candidate name")
	}
	if record.CandidateName == "" {
		return models.ScoreRecord{}, scoringResponseError("empty candidate name")
	}

	for _, req := range requirements {
		if _, ok := record.Scores[req]; !ok {
			record.Scores[req] = models.ScoreMissing
		}
	}

	return record, nil
}

func scoringResponseError(cause string) error {
	return apierror.Internal(fmt.Sprintf("Invalid response from scoring backend: %s", cause))
}

// stripMarkdownFences removes the ```json fencing the backend tends to
// wrap structured replies in.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
