package services

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"

	"resumerank/internal/apierror"
	"resumerank/internal/models"
)

// DocumentExtractor converts an uploaded document into plain text.
// Extraction is pure: identical bytes always yield identical text.
type DocumentExtractor interface {
	Extract(doc models.UploadedDocument) (string, error)
}

type documentExtractor struct {
	maxFileSize int64
	logger      *zap.Logger
}

func NewDocumentExtractor(maxFileSize int64, logger *zap.Logger) DocumentExtractor {
	return &documentExtractor{
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Extract implements DocumentExtractor. The size limit is enforced
// before any parsing library touches the payload.
func (e *documentExtractor) Extract(doc models.UploadedDocument) (string, error) {
	if int64(len(doc.Data)) > e.maxFileSize {
		return "", apierror.BadRequest("File size exceeds limit")
	}

	switch doc.ContentType {
	case models.ContentTypePDF:
		return e.extractPDF(doc.Data)
	case models.ContentTypeDOCX:
		return e.extractDOCX(doc.Data)
	default:
		e.logger.Warn("unsupported file type",
			zap.String("filename", doc.Filename),
			zap.String("content_type", doc.ContentType))
		return "", apierror.Unprocessable("Unsupported file type. Upload PDF or DOCX.")
	}
}

// extractPDF joins the extractable text of every page with a newline
// separator. Corrupt structure and missing text stay distinguishable.
func (e *documentExtractor) extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apierror.Unprocessable(fmt.Sprintf("PDF processing error: %v", r))
		}
	}()

	reader, rerr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return "", apierror.Unprocessable("Invalid PDF structure - unable to read file")
	}

	totalPage := reader.NumPage()
	if totalPage == 0 {
		return "", apierror.Unprocessable("PDF contains no readable text")
	}

	pages := make([]string, 0, totalPage)
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText)
	}

	text = strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return "", apierror.Unprocessable("PDF contains no readable text")
	}

	return text, nil
}

// extractDOCX joins paragraph text with single spaces.
func (e *documentExtractor) extractDOCX(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apierror.Unprocessable(fmt.Sprintf("DOCX processing error: %v", r))
		}
	}()

	reader, rerr := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return "", apierror.Unprocessable("Invalid DOCX file - corrupted or empty")
	}
	defer reader.Close()

	paragraphs := splitDocxParagraphs(reader.Editable().GetContent())
	if len(paragraphs) == 0 {
		return "", apierror.Unprocessable("DOCX contains no readable text")
	}

	return strings.Join(paragraphs, " "), nil
}

var (
	docxParagraphOpenRe = regexp.MustCompile(`<w:p[ >/]`)
	docxTextRunRe       = regexp.MustCompile(`(?s)<w:t[^>]*>(.*?)</w:t>`)
)

// splitDocxParagraphs pulls the text runs out of each <w:p> block of the
// raw document XML. Paragraphs without text are kept as empty strings,
// matching one entry per document paragraph. Entity decoding covers the
// named XML entities and numeric character references alike.
func splitDocxParagraphs(content string) []string {
	var paragraphs []string
	for _, chunk := range strings.Split(content, "</w:p>") {
		loc := docxParagraphOpenRe.FindStringIndex(chunk)
		if loc == nil {
			continue
		}

		var b strings.Builder
		for _, match := range docxTextRunRe.FindAllStringSubmatch(chunk[loc[0]:], -1) {
			b.WriteString(match[1])
		}
		paragraphs = append(paragraphs, html.UnescapeString(b.String()))
	}
	return paragraphs
}
