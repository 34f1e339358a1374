package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coverapi/internal/model"
	"coverapi/internal/service"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, in service.AnalyzeInput) (*model.CoverageAssessment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CoverageAssessment), args.Error(1)
}

func (m *MockAnalysisService) CheckModel(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
