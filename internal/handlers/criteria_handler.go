package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resumerank/internal/apierror"
	"resumerank/internal/models"
	"resumerank/internal/services"
)

type CriteriaHandler struct {
	extractor services.DocumentExtractor
	criteria  services.CriteriaExtractor
	logger    *zap.Logger
}

func NewCriteriaHandler(
	extractor services.DocumentExtractor,
	criteria services.CriteriaExtractor,
	logger *zap.Logger,
) *CriteriaHandler {
	return &CriteriaHandler{
		extractor: extractor,
		criteria:  criteria,
		logger:    logger,
	}
}

// HandleExtractCriteria handles POST /api/extract-criteria.
func (h *CriteriaHandler) HandleExtractCriteria(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apierror.BadRequest("file field is required")
	}

	h.logger.Info("extract criteria requested", zap.String("filename", fileHeader.Filename))

	doc, err := readUploadedFile(fileHeader)
	if err != nil {
		return apierror.BadRequest("failed to read uploaded file")
	}

	text, err := h.extractor.Extract(doc)
	if err != nil {
		return err
	}

	criteria, err := h.criteria.ExtractCriteria(c.UserContext(), text)
	if err != nil {
		return err
	}

	return c.JSON(models.CriteriaResponse{
		StatusCode: fiber.StatusOK,
		Criteria:   criteria,
	})
}
