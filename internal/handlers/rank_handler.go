package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"resumerank/internal/apierror"
	"resumerank/internal/models"
	"resumerank/internal/services"
)

// HeaderFailedResumes carries the per-resume failure list (filename and
// reason, JSON-encoded) alongside a successful spreadsheet response.
const HeaderFailedResumes = "X-Failed-Resumes"

type RankHandler struct {
	ranker     services.RankingOrchestrator
	report     services.ReportBuilder
	maxResumes int
	logger     *zap.Logger
}

func NewRankHandler(
	ranker services.RankingOrchestrator,
	report services.ReportBuilder,
	maxResumes int,
	logger *zap.Logger,
) *RankHandler {
	return &RankHandler{
		ranker:     ranker,
		report:     report,
		maxResumes: maxResumes,
		logger:     logger,
	}
}

// HandleRankResumes handles POST /api/rank-resumes. Unsupported files
// are never silently skipped: each becomes its own recorded pipeline
// failure, and a batch with no supported file at all is rejected before
// any pipeline starts.
func (h *RankHandler) HandleRankResumes(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apierror.BadRequest("failed to parse multipart form")
	}

	values := form.Value["requirements"]
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return apierror.BadRequest("requirements field is required")
	}
	requirements := parseRequirements(values[0])
	if len(requirements) == 0 {
		return apierror.BadRequest("requirements field is empty")
	}

	files := form.File["resumes"]
	if len(files) == 0 {
		return apierror.BadRequest("at least one resume file is required")
	}
	if len(files) > h.maxResumes {
		return apierror.BadRequest(fmt.Sprintf("Too many files. Max %d resumes per request", h.maxResumes))
	}

	supported := false
	for _, fileHeader := range files {
		if isSupportedType(resolveContentType(fileHeader)) {
			supported = true
			break
		}
	}
	if !supported {
		return apierror.Unprocessable("No resumes of supported file type. Upload PDF or DOCX.")
	}

	resumes := make([]models.UploadedDocument, 0, len(files))
	for _, fileHeader := range files {
		doc, rerr := readUploadedFile(fileHeader)
		if rerr != nil {
			return apierror.BadRequest(fmt.Sprintf("failed to read uploaded file %s", fileHeader.Filename))
		}
		resumes = append(resumes, doc)
	}

	batch, err := h.ranker.Rank(c.UserContext(), requirements, resumes)
	if err != nil {
		return err
	}

	payload, err := h.report.Build(c.UserContext(), requirements, batch.Records)
	if err != nil {
		return err
	}

	if len(batch.Failures) > 0 {
		if meta, merr := json.Marshal(batch.Failures); merr == nil {
			c.Set(HeaderFailedResumes, string(meta))
		}
	}

	c.Set(fiber.HeaderContentType, models.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=resume_scores.xlsx")
	return c.Send(payload)
}

// parseRequirements accepts the requirements field either as a JSON
// array of strings or as newline-separated plain text. Entries are
// trimmed and blanks dropped in both forms.
func parseRequirements(raw string) []string {
	raw = strings.TrimSpace(raw)

	if gjson.Valid(raw) {
		if parsed := gjson.Parse(raw); parsed.IsArray() {
			var requirements []string
			for _, item := range parsed.Array() {
				if value := strings.TrimSpace(item.String()); value != "" {
					requirements = append(requirements, value)
				}
			}
			return requirements
		}
	}

	var requirements []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			requirements = append(requirements, line)
		}
	}
	return requirements
}
