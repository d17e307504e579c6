package mocks

import (
	"context"
	"io"

	"consentapi/internal/intellisign"
	"github.com/stretchr/testify/mock"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockAPI) AccessToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) CreateEnvelope(ctx context.Context, token, name, subject, message string) (string, error) {
	args := m.Called(ctx, token, name, subject, message)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) AddDocument(ctx context.Context, token, envelopeID, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, token, envelopeID, filename, r)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) AddRecipient(ctx context.Context, token, envelopeID string, rcpt intellisign.Recipient) error {
	args := m.Called(ctx, token, envelopeID, rcpt)
	return args.Error(0)
}

func (m *MockAPI) SendEnvelope(ctx context.Context, token, envelopeID string) error {
	args := m.Called(ctx, token, envelopeID)
	return args.Error(0)
}

func (m *MockAPI) EnvelopeStatus(ctx context.Context, token, envelopeID string) (*intellisign.Envelope, error) {
	args := m.Called(ctx, token, envelopeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intellisign.Envelope), args.Error(1)
}

func (m *MockAPI) DownloadCompleted(ctx context.Context, token, envelopeID string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, token, envelopeID)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(int64), args.Error(2)
}
