package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"resumerank/internal/apierror"
	"resumerank/internal/models"
)

// ReportBuilder renders collected score records into a downloadable
// spreadsheet with shortened column labels and a summed total column.
type ReportBuilder interface {
	Build(ctx context.Context, requirements []string, records []models.ScoreRecord) ([]byte, error)
}

type reportBuilder struct {
	shortener LabelShortener
	logger    *zap.Logger
}

func NewReportBuilder(shortener LabelShortener, logger *zap.Logger) ReportBuilder {
	return &reportBuilder{
		shortener: shortener,
		logger:    logger,
	}
}

const reportSheet = "Sheet1"

// Build implements ReportBuilder. Columns follow the requirement set in
// order, so every row carries the same key set; records were already
// canonicalized by the scorer. Missing scores render as "N/A" and do not
// enter the total.
func (b *reportBuilder) Build(ctx context.Context, requirements []string, records []models.ScoreRecord) ([]byte, error) {
	columns := make([]string, 0, len(requirements)+2)
	columns = append(columns, models.ColumnCandidateName)
	seen := make(map[string]bool, len(requirements))
	for _, req := range requirements {
		if !seen[req] {
			seen[req] = true
			columns = append(columns, req)
		}
	}
	columns = append(columns, models.ColumnTotalScore)

	labels, err := b.shortener.Shorten(ctx, columns)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	for c, column := range columns {
		cell, cerr := excelize.CoordinatesToCellName(c+1, 1)
		if cerr != nil {
			return nil, apierror.Internal(fmt.Sprintf("Failed to generate report: %s", cerr))
		}
		label := column
		if short, ok := labels[column]; ok && short != "" {
			label = short
		}
		f.SetCellValue(reportSheet, cell, label)
	}

	for rowIndex, record := range records {
		row := rowIndex + 2

		cell, cerr := excelize.CoordinatesToCellName(1, row)
		if cerr != nil {
			return nil, apierror.Internal(fmt.Sprintf("Failed to generate report: %s", cerr))
		}
		f.SetCellValue(reportSheet, cell, record.CandidateName)

		total := 0
		for c, column := range columns[1 : len(columns)-1] {
			cell, cerr = excelize.CoordinatesToCellName(c+2, row)
			if cerr != nil {
				return nil, apierror.Internal(fmt.Sprintf("Failed to generate report: %s", cerr))
			}

			score, ok := record.Scores[column]
			if !ok || score == models.ScoreMissing {
				f.SetCellValue(reportSheet, cell, "N/A")
				continue
			}
			f.SetCellValue(reportSheet, cell, score)
			total += score
		}

		cell, cerr = excelize.CoordinatesToCellName(len(columns), row)
		if cerr != nil {
			return nil, apierror.Internal(fmt.Sprintf("Failed to generate report: %s", cerr))
		}
		f.SetCellValue(reportSheet, cell, total)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apierror.Internal(fmt.Sprintf("Failed to generate report: %s", err))
	}

	b.logger.Info("report generated",
		zap.Int("rows", len(records)),
		zap.Int("columns", len(columns)))

	return buf.Bytes(), nil
}
