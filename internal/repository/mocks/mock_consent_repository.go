package mocks

import (
	"context"
	"time"

	"consentapi/internal/model"
	"consentapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockConsentRepository struct {
	mock.Mock
}

func (m *MockConsentRepository) Create(ctx context.Context, c *model.Consent) (*model.Consent, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Consent), args.Error(1)
}

func (m *MockConsentRepository) FindByDocumentID(ctx context.Context, documentID string) (*model.Consent, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Consent), args.Error(1)
}

func (m *MockConsentRepository) MarkCompleted(ctx context.Context, documentID, signedPath string, signedAt time.Time) (*model.Consent, error) {
	args := m.Called(ctx, documentID, signedPath, signedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Consent), args.Error(1)
}

func (m *MockConsentRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Consent], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Consent]), args.Error(1)
}
