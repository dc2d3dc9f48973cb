package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumerank/internal/apierror"
	"resumerank/internal/models"
)

// RankingOrchestrator fans extraction and scoring out across every
// uploaded resume and collects the outcomes into one batch.
type RankingOrchestrator interface {
	Rank(ctx context.Context, requirements []string, resumes []models.UploadedDocument) (*models.RankingBatch, error)
}

type rankingOrchestrator struct {
	extractor DocumentExtractor
	scorer    ResumeScorer
	logger    *zap.Logger
}

func NewRankingOrchestrator(extractor DocumentExtractor, scorer ResumeScorer, logger *zap.Logger) RankingOrchestrator {
	return &rankingOrchestrator{
		extractor: extractor,
		scorer:    scorer,
		logger:    logger,
	}
}

type pipelineOutcome struct {
	record models.ScoreRecord
	err    error
}

// Rank implements RankingOrchestrator. Every resume pipeline runs to
// completion in its own goroutine and owns its own slot of the outcome
// slice, so the join needs no locking. One pipeline's failure never
// cancels or blocks a sibling; the scorer's per-call deadline keeps a
// hung backend call contained to its own pipeline.
func (r *rankingOrchestrator) Rank(ctx context.Context, requirements []string, resumes []models.UploadedDocument) (*models.RankingBatch, error) {
	log := r.logger.With(
		zap.String("batch_id", uuid.New().String()),
		zap.Int("resumes", len(resumes)),
	)
	log.Info("ranking batch started")

	outcomes := make([]pipelineOutcome, len(resumes))
	var wg sync.WaitGroup
	for i := range resumes {
		wg.Add(1)
		go func(i int, doc models.UploadedDocument) {
			defer wg.Done()
			outcomes[i] = r.processResume(ctx, requirements, doc)
		}(i, resumes[i])
	}
	wg.Wait()

	batch := &models.RankingBatch{}
	for i, outcome := range outcomes {
		if outcome.err != nil {
			log.Warn("resume pipeline failed",
				zap.Int("index", i),
				zap.String("filename", resumes[i].Filename),
				zap.Error(outcome.err))
			batch.Failures = append(batch.Failures, models.ResumeFailure{
				Index:    i,
				Filename: resumes[i].Filename,
				Reason:   outcome.err.Error(),
			})
			continue
		}
		batch.Records = append(batch.Records, outcome.record)
	}

	if len(batch.Records) == 0 {
		return nil, apierror.BadRequest("No resumes processed successfully")
	}

	log.Info("ranking batch completed",
		zap.Int("succeeded", len(batch.Records)),
		zap.Int("failed", len(batch.Failures)))

	return batch, nil
}

func (r *rankingOrchestrator) processResume(ctx context.Context, requirements []string, doc models.UploadedDocument) pipelineOutcome {
	text, err := r.extractor.Extract(doc)
	if err != nil {
		return pipelineOutcome{err: err}
	}

	record, err := r.scorer.Score(ctx, text, requirements)
	if err != nil {
		return pipelineOutcome{err: err}
	}

	return pipelineOutcome{record: record}
}
