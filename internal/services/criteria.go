package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"resumerank/internal/apierror"
)

// CriteriaExtractor turns job-description text into an ordered list of
// atomic requirement statements.
type CriteriaExtractor interface {
	ExtractCriteria(ctx context.Context, jobDescription string) ([]string, error)
}

type criteriaExtractor struct {
	generator TextGenerator
	prompts   *PromptBuilder
	timeout   time.Duration
	logger    *zap.Logger
}

func NewCriteriaExtractor(generator TextGenerator, timeout time.Duration, logger *zap.Logger) CriteriaExtractor {
	return &criteriaExtractor{
		generator: generator,
		prompts:   NewPromptBuilder(),
		timeout:   timeout,
		logger:    logger,
	}
}

// ExtractCriteria implements CriteriaExtractor. One requirement per
// reply line; interior blank lines are kept verbatim. The backend owns
// bullet/number stripping, so lines are not re-validated here.
func (s *criteriaExtractor) ExtractCriteria(ctx context.Context, jobDescription string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.generator.GenerateText(ctx, s.prompts.BuildCriteriaExtractionPrompt(jobDescription), 0.1)
	if err != nil {
		s.logger.Error("criteria extraction failed", zap.Error(err))
		return nil, apierror.Internal(fmt.Sprintf("Extraction failed: %s", err))
	}

	response = strings.TrimSpace(response)
	if response == sentinelInvalidInput {
		return nil, apierror.BadRequest("Not a valid Job Description")
	}

	requirements := strings.Split(response, "\n")
	s.logger.Info("criteria extracted", zap.Int("count", len(requirements)))

	return requirements, nil
}
