package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"coverapi/internal/config"
	"coverapi/internal/llm"
	"coverapi/internal/model"
	"coverapi/internal/normalize"
	"coverapi/internal/pdf"
	"coverapi/internal/prompt"
	"coverapi/internal/validate"
)

// AnalyzeInput carries one inbound analysis request. Nothing in it survives
// the request.
type AnalyzeInput struct {
	PolicyDisclosure model.UploadedDocument
	ScheduleCoverage model.UploadedDocument
	InsuranceType    string
	Question         string
}

// AnalysisService defines the use cases for coverage analysis.
type AnalysisService interface {
	// Analyze runs the full pipeline for one request: validate inputs,
	// extract both documents, build the prompt, call the model, normalize the
	// response. It short-circuits on the first failure, so a bad request
	// never reaches the model.
	Analyze(ctx context.Context, in AnalyzeInput) (*model.CoverageAssessment, error)

	// CheckModel verifies connectivity to the model endpoint.
	CheckModel(ctx context.Context) error
}

// analysisService is a concrete implementation of AnalysisService.
type analysisService struct {
	extractor pdf.Extractor
	client    llm.Client
	upload    config.UploadConfig
	logger    *logrus.Logger
}

// NewAnalysisService constructs a new AnalysisService.
func NewAnalysisService(extractor pdf.Extractor, client llm.Client, upload config.UploadConfig, logger *logrus.Logger) AnalysisService {
	return &analysisService{
		extractor: extractor,
		client:    client,
		upload:    upload,
		logger:    logger,
	}
}

func (s *analysisService) Analyze(ctx context.Context, in AnalyzeInput) (*model.CoverageAssessment, error) {
	if err := validate.Document(in.PolicyDisclosure, "policy_disclosure", s.upload.MaxFileSizeBytes); err != nil {
		return nil, err
	}
	if err := validate.Document(in.ScheduleCoverage, "schedule_coverage", s.upload.MaxFileSizeBytes); err != nil {
		return nil, err
	}
	if err := validate.Fields(in.InsuranceType, in.Question, s.upload.MaxQuestionChars); err != nil {
		return nil, err
	}

	// The two extractions are independent pure computations; running them
	// sequentially keeps failure ordering predictable.
	policyText, err := s.extractText(ctx, in.PolicyDisclosure, model.RolePolicyDisclosure)
	if err != nil {
		return nil, err
	}
	scheduleText, err := s.extractText(ctx, in.ScheduleCoverage, model.RoleScheduleCoverage)
	if err != nil {
		return nil, err
	}

	p := prompt.Build(policyText, scheduleText, in.InsuranceType, in.Question)

	raw, err := s.client.Complete(ctx, p.System, p.User)
	if err != nil {
		return nil, err
	}

	assessment, err := normalize.Assessment(raw)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"insurance_type":     in.InsuranceType,
		"percentage_score":   assessment.PercentageScore,
		"likelihood_ranking": assessment.LikelihoodRanking,
	}).Info("coverage analysis completed")

	return assessment, nil
}

func (s *analysisService) extractText(ctx context.Context, doc model.UploadedDocument, role model.DocumentRole) (model.ExtractedText, error) {
	res, err := s.extractor.Extract(ctx, doc.Content)
	if err != nil {
		return model.ExtractedText{}, fmt.Errorf("%s: %w", role, err)
	}
	return model.ExtractedText{Role: role, Text: res.Text, Pages: res.Pages}, nil
}

// CheckModel reports whether the model endpoint is reachable.
func (s *analysisService) CheckModel(ctx context.Context) error {
	return s.client.Ping(ctx)
}
