package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"coverapi/internal/apperr"
	"coverapi/internal/model"
	"coverapi/internal/service"
	serviceMocks "coverapi/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// analyzeForm builds a multipart body carrying both PDFs and the form fields.
// Pass an empty filename to omit that file part.
func analyzeForm(t *testing.T, policyName, scheduleName, insuranceType, question string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if policyName != "" {
		part, err := writer.CreateFormFile("policy_disclosure", policyName)
		require.NoError(t, err)
		part.Write([]byte("%PDF-1.4 policy"))
	}
	if scheduleName != "" {
		part, err := writer.CreateFormFile("schedule_coverage", scheduleName)
		require.NoError(t, err)
		part.Write([]byte("%PDF-1.4 schedule"))
	}
	writer.WriteField("insurance_type", insuranceType)
	writer.WriteField("question", question)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestAnalyzeCoverage(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Post("/api/v1/analyze-coverage", AnalyzeCoverage(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.CoverageAssessment{
			PercentageScore:   72,
			LikelihoodRanking: "Likely",
			Explanation:       "Hospital cover includes this treatment.",
		}
		mockSvc.On("Analyze", mock.Anything, mock.MatchedBy(func(in service.AnalyzeInput) bool {
			return in.InsuranceType == "health" &&
				in.Question == "Is knee surgery covered?" &&
				in.PolicyDisclosure.Filename == "policy.pdf" &&
				in.ScheduleCoverage.Filename == "schedule.pdf" &&
				len(in.PolicyDisclosure.Content) > 0
		})).Return(expected, nil).Once()

		body, ct := analyzeForm(t, "policy.pdf", "schedule.pdf", "health", "Is knee surgery covered?")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.CoverageAssessment
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 72, result.PercentageScore)
		assert.Equal(t, "Likely", result.LikelihoodRanking)
		assert.Equal(t, expected.Explanation, result.Explanation)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing policy file", func(t *testing.T) {
		body, ct := analyzeForm(t, "", "schedule.pdf", "health", "Is knee surgery covered?")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		assert.Contains(t, res.Error.Message, "policy_disclosure")
	})

	t.Run("missing schedule file", func(t *testing.T) {
		body, ct := analyzeForm(t, "policy.pdf", "", "health", "Is knee surgery covered?")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		assert.Contains(t, res.Error.Message, "schedule_coverage")
	})

	t.Run("no multipart body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
	})

	t.Run("validation error from service", func(t *testing.T) {
		mockSvc.On("Analyze", mock.Anything, mock.Anything).
			Return(nil, apperr.Validation("question", "question is required")).Once()

		body, ct := analyzeForm(t, "policy.pdf", "schedule.pdf", "health", "")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		assert.Equal(t, "question: question is required", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("extraction error", func(t *testing.T) {
		mockSvc.On("Analyze", mock.Anything, mock.Anything).
			Return(nil, apperr.Extraction("document contains no extractable text", nil)).Once()

		body, ct := analyzeForm(t, "policy.pdf", "schedule.pdf", "health", "Is surgery covered?")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "EXTRACTION_ERROR", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("model unavailable", func(t *testing.T) {
		mockSvc.On("Analyze", mock.Anything, mock.Anything).
			Return(nil, apperr.ModelUnavailable("model endpoint request failed", errors.New("connection refused"))).Once()

		body, ct := analyzeForm(t, "policy.pdf", "schedule.pdf", "health", "Is surgery covered?")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "MODEL_UNAVAILABLE", res.Error.Code)
		// The wrapped transport error must not leak to the client.
		assert.NotContains(t, res.Error.Message, "connection refused")
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed model output", func(t *testing.T) {
		mockSvc.On("Analyze", mock.Anything, mock.Anything).
			Return(nil, apperr.MalformedModelOutput("model response contained no JSON object")).Once()

		body, ct := analyzeForm(t, "policy.pdf", "schedule.pdf", "health", "Is surgery covered?")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "MALFORMED_MODEL_OUTPUT", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unexpected error", func(t *testing.T) {
		mockSvc.On("Analyze", mock.Anything, mock.Anything).
			Return(nil, errors.New("boom")).Once()

		body, ct := analyzeForm(t, "policy.pdf", "schedule.pdf", "health", "Is surgery covered?")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
		assert.NotContains(t, res.Error.Message, "boom")
		mockSvc.AssertExpectations(t)
	})
}

func TestHealthCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/health", HealthCheck())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "coverapi", body["service"])
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/live", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "alive", body["status"])
}

func TestReadinessProbe(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAnalysisService)
		mockSvc.On("CheckModel", mock.Anything).Return(nil).Once()

		app := fiber.New()
		app.Get("/ready", ReadinessProbe(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "ready", body["status"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not ready", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAnalysisService)
		mockSvc.On("CheckModel", mock.Anything).
			Return(apperr.ModelUnavailable("model endpoint request failed", errors.New("dial tcp"))).Once()

		app := fiber.New()
		app.Get("/ready", ReadinessProbe(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "not_ready", body["status"])
		assert.NotContains(t, body["reason"], "dial tcp")
		mockSvc.AssertExpectations(t)
	})
}

func TestDetailedHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAnalysisService)
		mockSvc.On("CheckModel", mock.Anything).Return(nil).Once()

		app := fiber.New()
		app.Get("/health/detailed", DetailedHealthCheck(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "healthy", body.Components["model_endpoint"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("model unreachable", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAnalysisService)
		mockSvc.On("CheckModel", mock.Anything).
			Return(apperr.ModelUnavailable("model endpoint request failed", errors.New("dial tcp"))).Once()

		app := fiber.New()
		app.Get("/health/detailed", DetailedHealthCheck(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "unreachable", body.Components["model_endpoint"])
		mockSvc.AssertExpectations(t)
	})
}

func TestRoot(t *testing.T) {
	app := fiber.New()
	app.Get("/", Root())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "coverapi", body["service"])
	assert.Equal(t, "/health", body["health"])
}

func TestRegisterRoutes(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	RegisterRoutes(app, mockSvc, nil)

	t.Run("liveness probes", func(t *testing.T) {
		for _, path := range []string{"/live", "/healthz"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			resp, _ := app.Test(req)
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
