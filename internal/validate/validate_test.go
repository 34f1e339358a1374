package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"coverapi/internal/apperr"
	"coverapi/internal/model"
)

func pdfDoc(size int) model.UploadedDocument {
	content := append([]byte("%PDF-1.4\n"), make([]byte, size)...)
	return model.UploadedDocument{
		Content:     content,
		ContentType: "application/pdf",
		Filename:    "policy.pdf",
	}
}

func TestDocument(t *testing.T) {
	tests := []struct {
		name      string
		doc       model.UploadedDocument
		maxSize   int64
		wantField string
	}{
		{
			name:    "valid pdf",
			doc:     pdfDoc(100),
			maxSize: 1 << 20,
		},
		{
			name:      "missing file",
			doc:       model.UploadedDocument{ContentType: "application/pdf"},
			maxSize:   1 << 20,
			wantField: "policy_disclosure",
		},
		{
			name: "wrong declared type",
			doc: model.UploadedDocument{
				Content:     []byte("%PDF-1.4"),
				ContentType: "image/png",
			},
			maxSize:   1 << 20,
			wantField: "policy_disclosure",
		},
		{
			name: "wrong byte signature",
			doc: model.UploadedDocument{
				Content:     []byte("GIF89a not a pdf"),
				ContentType: "application/pdf",
			},
			maxSize:   1 << 20,
			wantField: "policy_disclosure",
		},
		{
			name:      "oversized file",
			doc:       pdfDoc(200),
			maxSize:   64,
			wantField: "policy_disclosure",
		},
		{
			name: "missing declared type tolerated when signature matches",
			doc: model.UploadedDocument{
				Content: []byte("%PDF-1.7 body"),
			},
			maxSize: 1 << 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Document(tt.doc, "policy_disclosure", tt.maxSize)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.CategoryValidation))
			var ae *apperr.Error
			assert.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantField, ae.Field)
		})
	}
}

func TestFields(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Fields("auto", "Is collision covered?", 1000))
	})

	t.Run("empty insurance type", func(t *testing.T) {
		err := Fields("   ", "Is collision covered?", 1000)
		assert.True(t, apperr.Is(err, apperr.CategoryValidation))
		var ae *apperr.Error
		assert.ErrorAs(t, err, &ae)
		assert.Equal(t, "insurance_type", ae.Field)
	})

	t.Run("empty question", func(t *testing.T) {
		err := Fields("auto", "\n\t ", 1000)
		assert.True(t, apperr.Is(err, apperr.CategoryValidation))
		var ae *apperr.Error
		assert.ErrorAs(t, err, &ae)
		assert.Equal(t, "question", ae.Field)
	})

	t.Run("question too long", func(t *testing.T) {
		err := Fields("auto", strings.Repeat("covered? ", 200), 100)
		assert.True(t, apperr.Is(err, apperr.CategoryValidation))
	})

	t.Run("length bound ignores surrounding whitespace", func(t *testing.T) {
		q := strings.Repeat("x", 100)
		assert.NoError(t, Fields("home", "  "+q+"  ", 100))
	})
}
