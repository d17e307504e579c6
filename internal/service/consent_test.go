package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"consentapi/internal/intellisign"
	signerMocks "consentapi/internal/intellisign/mocks"
	"consentapi/internal/model"
	"consentapi/internal/repository"
	repoMocks "consentapi/internal/repository/mocks"
	"consentapi/internal/storage"
	storeMocks "consentapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestService(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) ConsentService {
	return NewConsentService(mStore, mRepo, mSigner, "User", time.UTC)
}

func expectHappySignerFlow(ctx context.Context, mSigner *signerMocks.MockAPI, filename string) {
	mSigner.On("Configured").Return(true)
	mSigner.On("AccessToken", ctx).Return("tok", nil)
	mSigner.On("CreateEnvelope", ctx, "tok", "Consent - consent-42", "Consent - consent-42", mock.Anything).
		Return("env-1", nil)
	mSigner.On("AddDocument", ctx, "tok", "env-1", filename, mock.Anything).Return("doc-9", nil)
	mSigner.On("AddRecipient", ctx, "tok", "env-1", intellisign.Recipient{
		Name:          "User",
		Email:         "signer@example.com",
		SignatureType: "simple",
	}).Return(nil)
	mSigner.On("SendEnvelope", ctx, "tok", "env-1").Return(nil)
}

func TestConsentService_Send(t *testing.T) {
	ctx := context.Background()

	validInput := SendConsentInput{
		ConsentID: "consent-42",
		Email:     "signer@example.com",
		Content:   "I agree to the terms.",
	}

	tests := []struct {
		name       string
		input      SendConsentInput
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:  "happy path with generated pdf",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				expectHappySignerFlow(ctx, mSigner, "consent.pdf")

				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasSuffix(key, "/original/consent.pdf")
				}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.ContentType == "application/pdf" && opt.Size > 0
				})).Return(storage.ObjectInfo{}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(c *model.Consent) bool {
					return c.ConsentID == "consent-42" &&
						c.SignerEmail == "signer@example.com" &&
						c.EnvelopeID == "env-1" &&
						c.Status == model.StatusSent &&
						strings.HasSuffix(c.OriginalPath, "/original/consent.pdf")
				})).Return(&model.Consent{DocumentID: "gen-id", Status: model.StatusSent}, nil)
			},
		},
		{
			name: "happy path with uploaded pdf keeps filename",
			input: SendConsentInput{
				ConsentID: "consent-42",
				Email:     "signer@example.com",
				File:      strings.NewReader("%PDF-1.4 uploaded"),
				Filename:  "terms.PDF",
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				expectHappySignerFlow(ctx, mSigner, "terms.PDF")

				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasSuffix(key, "/original/terms.PDF")
				}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.Size == int64(len("%PDF-1.4 uploaded"))
				})).Return(storage.ObjectInfo{}, nil)

				mRepo.On("Create", ctx, mock.Anything).
					Return(&model.Consent{DocumentID: "gen-id", Status: model.StatusSent}, nil)
			},
		},
		{
			name:  "signer not configured",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mSigner.On("Configured").Return(false)
			},
			wantErr: ErrSignerNotConfigured,
		},
		{
			name:  "validation - missing email",
			input: SendConsentInput{ConsentID: "consent-42", Content: "text"},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mSigner.On("Configured").Return(true)
			},
			wantErr: ErrMissingRequiredFields,
		},
		{
			name:  "validation - missing consent id",
			input: SendConsentInput{Email: "signer@example.com", Content: "text"},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mSigner.On("Configured").Return(true)
			},
			wantErr: ErrMissingRequiredFields,
		},
		{
			name:  "validation - neither file nor content",
			input: SendConsentInput{ConsentID: "consent-42", Email: "signer@example.com"},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mSigner.On("Configured").Return(true)
			},
			wantErr: ErrDocumentRequired,
		},
		{
			name: "validation - non-pdf upload",
			input: SendConsentInput{
				ConsentID: "consent-42",
				Email:     "signer@example.com",
				File:      strings.NewReader("plain text"),
				Filename:  "terms.txt",
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mSigner.On("Configured").Return(true)
			},
			wantErr: ErrPDFOnly,
		},
		{
			name:  "storage error",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mSigner.On("Configured").Return(true)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "store original pdf: storage fail",
		},
		{
			name:  "provider rejects envelope creation",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mSigner.On("Configured").Return(true)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, nil)
				mSigner.On("AccessToken", ctx).Return("tok", nil)
				mSigner.On("CreateEnvelope", ctx, "tok", mock.Anything, mock.Anything, mock.Anything).
					Return("", &intellisign.APIError{Op: "create envelope", StatusCode: 422, Body: "bad request"})
			},
			wantErrMsg: "create envelope",
		},
		{
			name:  "token error",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mSigner.On("Configured").Return(true)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, nil)
				mSigner.On("AccessToken", ctx).Return("", errors.New("token fail"))
			},
			wantErrMsg: "obtain token: token fail",
		},
		{
			name:  "repository error with successful rollback",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				expectHappySignerFlow(ctx, mSigner, "consent.pdf")
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasSuffix(key, "/original/consent.pdf")
				})).Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:  "repository error with failed rollback",
			input: validInput,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				expectHappySignerFlow(ctx, mSigner, "consent.pdf")
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockConsentRepository)
			mSigner := new(signerMocks.MockAPI)
			svc := newTestService(mStore, mRepo, mSigner)

			tt.setupMocks(mStore, mRepo, mSigner)

			c, err := svc.Send(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				assert.Nil(t, c)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, c)
				assert.Equal(t, model.StatusSent, c.Status)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
			mSigner.AssertExpectations(t)
		})
	}
}

func TestConsentService_Send_ProviderErrorIsUnwrappable(t *testing.T) {
	ctx := context.Background()

	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockConsentRepository)
	mSigner := new(signerMocks.MockAPI)
	svc := newTestService(mStore, mRepo, mSigner)

	mSigner.On("Configured").Return(true)
	mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
	mSigner.On("AccessToken", ctx).Return("tok", nil)
	mSigner.On("CreateEnvelope", ctx, "tok", mock.Anything, mock.Anything, mock.Anything).
		Return("", &intellisign.APIError{Op: "create envelope", StatusCode: 500, Body: "downstream broken"})

	_, err := svc.Send(ctx, SendConsentInput{
		ConsentID: "consent-42",
		Email:     "signer@example.com",
		Content:   "text",
	})

	var apiErr *intellisign.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
}

func TestConsentService_Status(t *testing.T) {
	ctx := context.Background()

	pending := func() *model.Consent {
		return &model.Consent{
			DocumentID: "doc-1",
			ConsentID:  "consent-42",
			EnvelopeID: "env-1",
			Status:     model.StatusSent,
		}
	}

	tests := []struct {
		name       string
		id         string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI)
		wantErr    error
		wantStatus string
	}{
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mRepo.On("FindByDocumentID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "already completed skips provider",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				done := pending()
				done.Status = model.StatusCompleted
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(done, nil)
			},
			wantStatus: model.StatusCompleted,
		},
		{
			name: "provider still pending",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(pending(), nil)
				mSigner.On("AccessToken", ctx).Return("tok", nil)
				mSigner.On("EnvelopeStatus", ctx, "tok", "env-1").
					Return(&intellisign.Envelope{ID: "env-1", Status: "sent"}, nil)
			},
			wantStatus: model.StatusSent,
		},
		{
			name: "provider signed pulls file and completes",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(pending(), nil)
				mSigner.On("AccessToken", ctx).Return("tok", nil)
				mSigner.On("EnvelopeStatus", ctx, "tok", "env-1").
					Return(&intellisign.Envelope{ID: "env-1", Status: "Completed"}, nil)
				mSigner.On("DownloadCompleted", ctx, "tok", "env-1").
					Return(io.NopCloser(strings.NewReader("%PDF-signed")), int64(11), nil)
				mStore.On("Put", ctx, "doc-1/signed/signed.pdf", mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.ContentType == "application/pdf" && opt.Size == 11
				})).Return(storage.ObjectInfo{}, nil)

				signedAt := time.Now().UTC()
				completed := pending()
				completed.Status = model.StatusCompleted
				completed.SignedPath = "doc-1/signed/signed.pdf"
				completed.SignedAt = &signedAt
				mRepo.On("MarkCompleted", ctx, "doc-1", "doc-1/signed/signed.pdf", mock.AnythingOfType("time.Time")).
					Return(completed, nil)
			},
			wantStatus: model.StatusCompleted,
		},
		{
			name: "token failure keeps last state",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(pending(), nil)
				mSigner.On("AccessToken", ctx).Return("", errors.New("token fail"))
			},
			wantStatus: model.StatusSent,
		},
		{
			name: "status poll failure keeps last state",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(pending(), nil)
				mSigner.On("AccessToken", ctx).Return("tok", nil)
				mSigner.On("EnvelopeStatus", ctx, "tok", "env-1").
					Return(nil, &intellisign.APIError{Op: "envelope status", StatusCode: 503, Body: "down"})
			},
			wantStatus: model.StatusSent,
		},
		{
			name: "download failure keeps last state",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(pending(), nil)
				mSigner.On("AccessToken", ctx).Return("tok", nil)
				mSigner.On("EnvelopeStatus", ctx, "tok", "env-1").
					Return(&intellisign.Envelope{ID: "env-1", Status: "completed"}, nil)
				mSigner.On("DownloadCompleted", ctx, "tok", "env-1").
					Return(nil, int64(0), errors.New("download fail"))
			},
			wantStatus: model.StatusSent,
		},
		{
			name: "signed store failure keeps last state",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(pending(), nil)
				mSigner.On("AccessToken", ctx).Return("tok", nil)
				mSigner.On("EnvelopeStatus", ctx, "tok", "env-1").
					Return(&intellisign.Envelope{ID: "env-1", Status: "completed"}, nil)
				mSigner.On("DownloadCompleted", ctx, "tok", "env-1").
					Return(io.NopCloser(strings.NewReader("%PDF-signed")), int64(11), nil)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("store fail"))
			},
			wantStatus: model.StatusSent,
		},
		{
			name: "mark completed failure keeps last state",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository, mSigner *signerMocks.MockAPI) {
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(pending(), nil)
				mSigner.On("AccessToken", ctx).Return("tok", nil)
				mSigner.On("EnvelopeStatus", ctx, "tok", "env-1").
					Return(&intellisign.Envelope{ID: "env-1", Status: "completed"}, nil)
				mSigner.On("DownloadCompleted", ctx, "tok", "env-1").
					Return(io.NopCloser(strings.NewReader("%PDF-signed")), int64(11), nil)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, nil)
				mRepo.On("MarkCompleted", ctx, "doc-1", mock.Anything, mock.AnythingOfType("time.Time")).
					Return(nil, errors.New("db fail"))
			},
			wantStatus: model.StatusSent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockConsentRepository)
			mSigner := new(signerMocks.MockAPI)
			svc := newTestService(mStore, mRepo, mSigner)

			tt.setupMocks(mStore, mRepo, mSigner)

			c, err := svc.Status(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, c)
				assert.Equal(t, tt.wantStatus, c.Status)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
			mSigner.AssertExpectations(t)
		})
	}
}

func TestConsentService_Download(t *testing.T) {
	ctx := context.Background()

	completed := func() *model.Consent {
		signedAt := time.Now().UTC()
		return &model.Consent{
			DocumentID: "doc-1",
			ConsentID:  "consent-42",
			EnvelopeID: "env-1",
			Status:     model.StatusCompleted,
			SignedPath: "doc-1/signed/signed.pdf",
			SignedAt:   &signedAt,
		}
	}

	tests := []struct {
		name       string
		id         string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository)
		wantErr    error
		checkRes   func(t *testing.T, dl *ConsentDownload)
	}{
		{
			name: "happy path",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository) {
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(completed(), nil)
				mStore.On("Get", ctx, "doc-1/signed/signed.pdf").
					Return(io.NopCloser(strings.NewReader("%PDF-signed")), storage.ObjectInfo{
						Key:  "doc-1/signed/signed.pdf",
						Size: 11,
					}, nil)
			},
			checkRes: func(t *testing.T, dl *ConsentDownload) {
				assert.Equal(t, "consent-42", dl.Consent.ConsentID)
				assert.EqualValues(t, 11, dl.Size)
				assert.Equal(t, "application/pdf", dl.ContentType)

				b, err := io.ReadAll(dl.Body)
				assert.NoError(t, err)
				assert.Equal(t, "%PDF-signed", string(b))
				dl.Body.Close()
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   "missing",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository) {
				mRepo.On("FindByDocumentID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "not signed yet",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository) {
				pending := completed()
				pending.Status = model.StatusSent
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(pending, nil)
			},
			wantErr: ErrNotCompleted,
		},
		{
			name: "signed path empty",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository) {
				noPath := completed()
				noPath.SignedPath = ""
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(noPath, nil)
			},
			wantErr: ErrSignedFileMissing,
		},
		{
			name: "signed file missing in storage",
			id:   "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockConsentRepository) {
				mRepo.On("FindByDocumentID", ctx, "doc-1").Return(completed(), nil)
				mStore.On("Get", ctx, "doc-1/signed/signed.pdf").
					Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)
			},
			wantErr: ErrSignedFileMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockConsentRepository)
			svc := newTestService(mStore, mRepo, new(signerMocks.MockAPI))

			tt.setupMocks(mStore, mRepo)

			dl, err := svc.Download(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, dl)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, dl)
				}
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestConsentService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockConsentRepository)
		wantErr    error
		checkRes   func(t *testing.T, res *ConsentListResult)
	}{
		{
			name:   "happy path",
			limit:  10,
			offset: 0,
			setupMocks: func(mRepo *repoMocks.MockConsentRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Consent]{
						Items: []model.Consent{{DocumentID: "1"}, {DocumentID: "2"}},
						Total: 2,
					}, nil)
			},
			checkRes: func(t *testing.T, res *ConsentListResult) {
				assert.Equal(t, 2, len(res.Items))
				assert.Equal(t, 2, res.Total)
			},
		},
		{
			name:   "pagination boundary - zero limit uses default",
			limit:  0,
			offset: -1,
			setupMocks: func(mRepo *repoMocks.MockConsentRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Consent]{Items: []model.Consent{}, Total: 0}, nil)
			},
		},
		{
			name:  "repository error",
			limit: 10,
			setupMocks: func(mRepo *repoMocks.MockConsentRepository) {
				mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockConsentRepository)
			svc := NewConsentService(nil, mRepo, new(signerMocks.MockAPI), "User", time.UTC)

			tt.setupMocks(mRepo)

			res, err := svc.List(ctx, tt.limit, tt.offset)

			if tt.wantErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}
