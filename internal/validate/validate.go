package validate

// Package validate checks uploaded documents and free-text fields before any
// extraction or model work happens. All failures are apperr.Validation errors
// naming the offending field, so a bad request never costs a model call.

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"coverapi/internal/apperr"
	"coverapi/internal/model"
)

// pdfMagic is the byte signature every well-formed PDF starts with.
var pdfMagic = []byte("%PDF-")

const pdfContentType = "application/pdf"

// Document verifies one uploaded file: present, declared and signed as a PDF,
// and within the configured size limit. The field parameter names the upload
// slot for error reporting ("policy_disclosure" or "schedule_coverage").
func Document(doc model.UploadedDocument, field string, maxSize int64) error {
	if len(doc.Content) == 0 {
		return apperr.Validation(field, "file is required")
	}
	// Some clients omit or mangle the declared type; the byte signature is
	// authoritative, a matching declared type alone is not.
	if doc.ContentType != "" && doc.ContentType != pdfContentType {
		return apperr.Validation(field, fmt.Sprintf("file must be a PDF, got %s", doc.ContentType))
	}
	if !bytes.HasPrefix(doc.Content, pdfMagic) {
		return apperr.Validation(field, "file content is not a PDF")
	}
	if maxSize > 0 && doc.Size() > maxSize {
		return apperr.Validation(field, fmt.Sprintf("file exceeds maximum size of %d bytes", maxSize))
	}
	return nil
}

// Fields verifies the two free-text request fields.
func Fields(insuranceType, question string, maxQuestionChars int) error {
	if strings.TrimSpace(insuranceType) == "" {
		return apperr.Validation("insurance_type", "must not be empty")
	}
	q := strings.TrimSpace(question)
	if q == "" {
		return apperr.Validation("question", "must not be empty")
	}
	if maxQuestionChars > 0 && utf8.RuneCountInString(q) > maxQuestionChars {
		return apperr.Validation("question", fmt.Sprintf("must not exceed %d characters", maxQuestionChars))
	}
	return nil
}
