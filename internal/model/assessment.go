package model

// Package model contains domain models/data structures.
// Everything here is request-scoped; nothing is persisted across requests.

// DocumentRole identifies which of the two uploaded insurance documents a
// value was derived from.
type DocumentRole string

const (
	RolePolicyDisclosure DocumentRole = "policy_disclosure"
	RoleScheduleCoverage DocumentRole = "schedule_of_coverage"
)

// UploadedDocument is one uploaded file as received at request ingress.
// It is consumed by the text extractor and discarded afterwards.
type UploadedDocument struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Size returns the byte length of the document content.
func (d UploadedDocument) Size() int64 { return int64(len(d.Content)) }

// Extraction is the raw result of extracting one PDF.
type Extraction struct {
	Text  string
	Pages int
}

// ExtractedText is the plain text of one document, tagged with its role.
// Invariant: Text is non-empty; extraction failures are reported as errors,
// never as an empty ExtractedText.
type ExtractedText struct {
	Role  DocumentRole
	Text  string
	Pages int
}

// CoverageAssessment is the final structured result returned to the caller.
// LikelihoodRanking is always derived from PercentageScore by the normalizer;
// the two fields cannot disagree.
type CoverageAssessment struct {
	PercentageScore   int    `json:"percentage_score"`
	LikelihoodRanking string `json:"likelihood_ranking"`
	Explanation       string `json:"explanation"`
}
