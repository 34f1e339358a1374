package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coverapi/internal/model"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, data []byte) (model.Extraction, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(model.Extraction), args.Error(1)
}
