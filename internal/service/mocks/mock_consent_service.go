package mocks

import (
	"context"

	"consentapi/internal/model"
	"consentapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockConsentService struct {
	mock.Mock
}

func (m *MockConsentService) Send(ctx context.Context, in service.SendConsentInput) (*model.Consent, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Consent), args.Error(1)
}

func (m *MockConsentService) Status(ctx context.Context, documentID string) (*model.Consent, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Consent), args.Error(1)
}

func (m *MockConsentService) Download(ctx context.Context, documentID string) (*service.ConsentDownload, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConsentDownload), args.Error(1)
}

func (m *MockConsentService) List(ctx context.Context, limit, offset int) (*service.ConsentListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConsentListResult), args.Error(1)
}
