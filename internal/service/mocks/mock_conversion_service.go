package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"slidemd/internal/model"
	"slidemd/internal/service"
)

type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, backendName string, r io.Reader, filename string) (*service.ConvertResult, error) {
	args := m.Called(ctx, backendName, r, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConvertResult), args.Error(1)
}

func (m *MockConversionService) List(ctx context.Context, limit, offset int) (*service.ConversionListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConversionListResult), args.Error(1)
}

func (m *MockConversionService) Get(ctx context.Context, id string) (*model.Conversion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conversion), args.Error(1)
}

func (m *MockConversionService) ArchiveURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockConversionService) Readiness(ctx context.Context) service.Readiness {
	args := m.Called(ctx)
	return args.Get(0).(service.Readiness)
}
