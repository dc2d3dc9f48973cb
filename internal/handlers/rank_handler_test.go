package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resumerank/internal/apierror"
	"resumerank/internal/models"
)

type stubRanker struct {
	batch        *models.RankingBatch
	err          error
	requirements []string
	resumes      []models.UploadedDocument
}

func (s *stubRanker) Rank(ctx context.Context, requirements []string, resumes []models.UploadedDocument) (*models.RankingBatch, error) {
	s.requirements = requirements
	s.resumes = resumes
	if s.err != nil {
		return nil, s.err
	}
	return s.batch, nil
}

type stubReportBuilder struct {
	payload []byte
	err     error
}

func (s stubReportBuilder) Build(ctx context.Context, requirements []string, records []models.ScoreRecord) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

const testMaxResumes = 50

func newRankApp(ranker *stubRanker, report stubReportBuilder) *fiber.App {
	handler := NewRankHandler(ranker, report, testMaxResumes, zap.NewNop())
	return newTestApp(fiber.MethodPost, "/api/rank-resumes", handler.HandleRankResumes)
}

func TestHandleRankResumes_Success(t *testing.T) {
	ranker := &stubRanker{batch: &models.RankingBatch{
		Records: []models.ScoreRecord{
			{CandidateName: "Alice", Scores: map[string]int{"AWS certification": 5}},
		},
	}}
	report := stubReportBuilder{payload: []byte("xlsx-bytes")}
	app := newRankApp(ranker, report)

	body, contentType := multipartBody(t,
		map[string]string{"requirements": `["AWS certification", "Team leadership"]`},
		[]filePart{
			{field: "resumes", filename: "alice.pdf", contentType: models.ContentTypePDF, data: []byte("pdf")},
			{field: "resumes", filename: "bob.docx", contentType: models.ContentTypeDOCX, data: []byte("docx")},
		})
	req := httptest.NewRequest(fiber.MethodPost, "/api/rank-resumes", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want 200 (body: %s)", resp.StatusCode, raw)
	}
	if got := resp.Header.Get(fiber.HeaderContentType); got != models.ContentTypeXLSX {
		t.Errorf("Content-Type = %q, want %q", got, models.ContentTypeXLSX)
	}
	if got := resp.Header.Get(fiber.HeaderContentDisposition); got != "attachment; filename=resume_scores.xlsx" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := resp.Header.Get(HeaderFailedResumes); got != "" {
		t.Errorf("unexpected %s header: %q", HeaderFailedResumes, got)
	}

	payload, _ := io.ReadAll(resp.Body)
	if string(payload) != "xlsx-bytes" {
		t.Errorf("body = %q, want report payload", payload)
	}

	wantReqs := []string{"AWS certification", "Team leadership"}
	if !reflect.DeepEqual(ranker.requirements, wantReqs) {
		t.Errorf("ranker requirements = %v, want %v", ranker.requirements, wantReqs)
	}
	if len(ranker.resumes) != 2 {
		t.Fatalf("ranker received %d resumes, want 2", len(ranker.resumes))
	}
	if ranker.resumes[0].Filename != "alice.pdf" || ranker.resumes[1].Filename != "bob.docx" {
		t.Errorf("resume order not preserved: %v, %v", ranker.resumes[0].Filename, ranker.resumes[1].Filename)
	}
}

func TestHandleRankResumes_FailedResumesHeader(t *testing.T) {
	ranker := &stubRanker{batch: &models.RankingBatch{
		Records: []models.ScoreRecord{
			{CandidateName: "Alice", Scores: map[string]int{"AWS certification": 5}},
		},
		Failures: []models.ResumeFailure{
			{Index: 1, Filename: "broken.pdf", Reason: "Invalid PDF structure - unable to read file"},
		},
	}}
	app := newRankApp(ranker, stubReportBuilder{payload: []byte("xlsx-bytes")})

	body, contentType := multipartBody(t,
		map[string]string{"requirements": "AWS certification"},
		[]filePart{
			{field: "resumes", filename: "alice.pdf", contentType: models.ContentTypePDF, data: []byte("pdf")},
			{field: "resumes", filename: "broken.pdf", contentType: models.ContentTypePDF, data: []byte("bad")},
		})
	req := httptest.NewRequest(fiber.MethodPost, "/api/rank-resumes", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var failures []models.ResumeFailure
	header := resp.Header.Get(HeaderFailedResumes)
	if err := json.Unmarshal([]byte(header), &failures); err != nil {
		t.Fatalf("%s header is not valid JSON: %q", HeaderFailedResumes, header)
	}
	if len(failures) != 1 || failures[0].Filename != "broken.pdf" || failures[0].Index != 1 {
		t.Errorf("failures = %+v", failures)
	}
}

func TestHandleRankResumes_ValidationErrors(t *testing.T) {
	pdfFile := filePart{field: "resumes", filename: "a.pdf", contentType: models.ContentTypePDF, data: []byte("pdf")}

	tooMany := make([]filePart, testMaxResumes+1)
	for i := range tooMany {
		tooMany[i] = pdfFile
	}

	tests := []struct {
		name       string
		fields     map[string]string
		files      []filePart
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing requirements",
			fields:     nil,
			files:      []filePart{pdfFile},
			wantStatus: 400,
			wantError:  "requirements field is required",
		},
		{
			name:       "blank requirements",
			fields:     map[string]string{"requirements": "   "},
			files:      []filePart{pdfFile},
			wantStatus: 400,
			wantError:  "requirements field is required",
		},
		{
			name:       "no files",
			fields:     map[string]string{"requirements": "AWS certification"},
			files:      nil,
			wantStatus: 400,
			wantError:  "at least one resume file is required",
		},
		{
			name:       "too many files",
			fields:     map[string]string{"requirements": "AWS certification"},
			files:      tooMany,
			wantStatus: 400,
			wantError:  "Too many files. Max 50 resumes per request",
		},
		{
			name:   "no supported file type",
			fields: map[string]string{"requirements": "AWS certification"},
			files: []filePart{
				{field: "resumes", filename: "a.txt", contentType: "text/plain", data: []byte("text")},
				{field: "resumes", filename: "b.png", contentType: "image/png", data: []byte{0x89}},
			},
			wantStatus: 422,
			wantError:  "No resumes of supported file type. Upload PDF or DOCX.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newRankApp(&stubRanker{batch: &models.RankingBatch{}}, stubReportBuilder{})

			body, contentType := multipartBody(t, tt.fields, tt.files)
			req := httptest.NewRequest(fiber.MethodPost, "/api/rank-resumes", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				raw, _ := io.ReadAll(resp.Body)
				t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, tt.wantStatus, raw)
			}
			msg, _ := decodeErrorBody(t, resp)
			if msg != tt.wantError {
				t.Errorf("error = %q, want %q", msg, tt.wantError)
			}
		})
	}
}

func TestHandleRankResumes_AllPipelinesFailed(t *testing.T) {
	ranker := &stubRanker{err: apierror.BadRequest("No resumes processed successfully")}
	app := newRankApp(ranker, stubReportBuilder{})

	body, contentType := multipartBody(t,
		map[string]string{"requirements": "AWS certification"},
		[]filePart{
			{field: "resumes", filename: "broken.pdf", contentType: models.ContentTypePDF, data: []byte("bad")},
		})
	req := httptest.NewRequest(fiber.MethodPost, "/api/rank-resumes", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	msg, _ := decodeErrorBody(t, resp)
	if msg != "No resumes processed successfully" {
		t.Errorf("error = %q", msg)
	}
}

func TestParseRequirements(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "json array",
			raw:  `["Python", "AWS certification"]`,
			want: []string{"Python", "AWS certification"},
		},
		{
			name: "json array entries trimmed and blanks dropped",
			raw:  `["  Python  ", "", "   ", "AWS certification"]`,
			want: []string{"Python", "AWS certification"},
		},
		{
			name: "newline separated",
			raw:  "Python\nAWS certification",
			want: []string{"Python", "AWS certification"},
		},
		{
			name: "blank and padded lines dropped",
			raw:  "  Python  \n\n\t\nAWS certification\n",
			want: []string{"Python", "AWS certification"},
		},
		{
			name: "json object falls back to text",
			raw:  `{"not": "an array"}`,
			want: []string{`{"not": "an array"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRequirements(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseRequirements(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
