package handler

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"coverapi/internal/apperr"
	"coverapi/internal/model"
	"coverapi/internal/service"
)

// AnalyzeCoverage handles POST /api/v1/analyze-coverage. It reads the two
// uploaded PDFs and the form fields, runs the analysis pipeline, and returns
// the normalized assessment.
func AnalyzeCoverage(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		policy, err := readUpload(c, "policy_disclosure")
		if err != nil {
			return writeAppError(c, err)
		}
		schedule, err := readUpload(c, "schedule_coverage")
		if err != nil {
			return writeAppError(c, err)
		}

		in := service.AnalyzeInput{
			PolicyDisclosure: policy,
			ScheduleCoverage: schedule,
			InsuranceType:    c.FormValue("insurance_type"),
			Question:         c.FormValue("question"),
		}

		assessment, err := svc.Analyze(c.UserContext(), in)
		if err != nil {
			return writeAppError(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(assessment)
	}
}

// readUpload pulls one multipart file part into memory. A missing part is a
// validation error on that field; deeper checks happen in the service.
func readUpload(c *fiber.Ctx, field string) (model.UploadedDocument, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return model.UploadedDocument{}, apperr.Validation(field, "file is required")
	}

	content, err := readFileHeader(fh)
	if err != nil {
		return model.UploadedDocument{}, apperr.Validation(field, "file could not be read")
	}

	return model.UploadedDocument{
		Content:     content,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Filename:    fh.Filename,
	}, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
