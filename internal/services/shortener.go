package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"resumerank/internal/apierror"
)

// LabelShortener maps full column headers to short display labels for
// tabular presentation. The mapping is purely cosmetic.
type LabelShortener interface {
	Shorten(ctx context.Context, headers []string) (map[string]string, error)
}

type labelShortener struct {
	generator TextGenerator
	prompts   *PromptBuilder
	timeout   time.Duration
	logger    *zap.Logger
}

func NewLabelShortener(generator TextGenerator, timeout time.Duration, logger *zap.Logger) LabelShortener {
	return &labelShortener{
		generator: generator,
		prompts:   NewPromptBuilder(),
		timeout:   timeout,
		logger:    logger,
	}
}

// Shorten implements LabelShortener with a single backend call over the
// full header list. A malformed reply fails the enclosing report step.
func (s *labelShortener) Shorten(ctx context.Context, headers []string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.generator.GenerateText(ctx, s.prompts.BuildLabelShorteningPrompt(headers), 0.1)
	if err != nil {
		s.logger.Error("label shortening failed", zap.Error(err))
		return nil, apierror.Internal(fmt.Sprintf("Failed to shorten requirement labels: %s", err))
	}

	payload := stripMarkdownFences(response)
	if !gjson.Valid(payload) {
		return nil, apierror.Internal("Failed to shorten requirement labels: not well-formed JSON")
	}

	root := gjson.Parse(payload)
	if !root.IsObject() {
		return nil, apierror.Internal("Failed to shorten requirement labels: not a JSON object")
	}

	labels := make(map[string]string, len(headers))
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			labels[key.String()] = value.String()
		}
		return true
	})

	return labels, nil
}
