package models

// Accepted document content types. Everything else is rejected.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Reserved spreadsheet columns that are never requirement keys.
const (
	ColumnCandidateName = "Candidate Name"
	ColumnTotalScore    = "Total Score"
)

// ScoreMissing marks a requirement the scoring backend omitted from its
// reply. It is rendered as "N/A" in the report and excluded from the
// total, never counted as a zero.
const ScoreMissing = -1

// UploadedDocument is one file received in a multipart request. It is
// owned by the request that parsed it and discarded after extraction.
type UploadedDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ScoreRecord is one resume's scoring outcome: the candidate name plus
// an integer score (0-5, or ScoreMissing) per requirement. After
// canonicalization Scores holds exactly the originating requirement set.
type ScoreRecord struct {
	CandidateName string
	Scores        map[string]int
}

// ResumeFailure records one resume pipeline that did not produce a
// ScoreRecord. Index is the resume's position in the upload order.
type ResumeFailure struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// RankingBatch is everything one rank-resumes request produced. It is
// consumed once by the report builder and then discarded.
type RankingBatch struct {
	Records  []ScoreRecord
	Failures []ResumeFailure
}

// CriteriaResponse is the extract-criteria response payload.
type CriteriaResponse struct {
	StatusCode int      `json:"status_code"`
	Criteria   []string `json:"criteria"`
}
