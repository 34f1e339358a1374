package pdf

// Package pdf converts PDF byte streams into plain text using pdfcpu.
// Extraction is pure: identical input bytes always produce identical text.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"

	"coverapi/internal/apperr"
	"coverapi/internal/model"
)

// ErrNoExtractableText marks a structurally valid PDF that yields no text on
// any page, typically a pure image scan. Callers can match it with errors.Is
// to suggest OCR.
var ErrNoExtractableText = errors.New("no extractable text")

// Extractor converts one PDF document into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (model.Extraction, error)
}

type pdfcpuExtractor struct {
	logger *logrus.Logger
}

// NewExtractor returns an Extractor backed by pdfcpu.
func NewExtractor(logger *logrus.Logger) Extractor {
	return &pdfcpuExtractor{logger: logger}
}

// Extract returns the concatenated text of all pages in document order.
// Page boundaries become single newlines and runs of whitespace collapse to
// one space. Unreadable input and textless documents both yield
// apperr.Extraction, the latter wrapping ErrNoExtractableText.
func (e *pdfcpuExtractor) Extract(ctx context.Context, data []byte) (model.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return model.Extraction{}, err
	}

	// pdfcpu's extraction API is file-based; stage the document in a temp
	// file that is removed before returning.
	tmpPDF, err := os.CreateTemp("", "coverapi-*.pdf")
	if err != nil {
		return model.Extraction{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpPDF.Name())

	if _, err := tmpPDF.Write(data); err != nil {
		tmpPDF.Close()
		return model.Extraction{}, fmt.Errorf("write temp file: %w", err)
	}
	tmpPDF.Close()

	pageCount, err := api.PageCountFile(tmpPDF.Name())
	if err != nil {
		return model.Extraction{}, apperr.Extraction("document is not a readable PDF", err)
	}

	e.logger.WithField("page_count", pageCount).Debug("extracting PDF text")

	tmpDir, err := os.MkdirTemp("", "coverapi-content-*")
	if err != nil {
		return model.Extraction{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// Nil page selection extracts every page; one content file per page.
	// pdfcpu mutates the configuration it is handed, so each call gets its own.
	if err := api.ExtractContentFile(tmpPDF.Name(), tmpDir, nil, pdfmodel.NewDefaultConfiguration()); err != nil {
		return model.Extraction{}, apperr.Extraction("document is not a readable PDF", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(tmpPDF.Name()), ".pdf")

	var pages []string
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return model.Extraction{}, err
		}

		contentFile := filepath.Join(tmpDir, fmt.Sprintf("%s_Content_page_%d.txt", baseName, pageNum))
		raw, err := os.ReadFile(contentFile)
		if err != nil {
			if os.IsNotExist(err) {
				// Pages without a content stream produce no file.
				continue
			}
			return model.Extraction{}, fmt.Errorf("read page %d content: %w", pageNum, err)
		}

		pageText := textFromContentStream(string(raw))
		if pageText != "" {
			pages = append(pages, pageText)
		}
	}

	text := strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return model.Extraction{}, apperr.Extraction(
			"document contains no extractable text; scanned documents require OCR",
			ErrNoExtractableText,
		)
	}

	e.logger.WithFields(logrus.Fields{
		"page_count": pageCount,
		"text_bytes": len(text),
	}).Debug("PDF text extraction completed")

	return model.Extraction{Text: text, Pages: pageCount}, nil
}
