package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"consentapi/internal/intellisign"
	"consentapi/internal/model"
	"consentapi/internal/pdf"
	"consentapi/internal/repository"
	"consentapi/internal/storage"
)

var (
	ErrSignerNotConfigured   = errors.New("intellisign is not configured")
	ErrMissingRequiredFields = errors.New("email and consentId are required")
	ErrDocumentRequired      = errors.New("send a PDF in 'file' or text in 'content'")
	ErrPDFOnly               = errors.New("only PDF is accepted in 'file'")
	ErrIDRequired            = errors.New("document id is required")
	ErrNotFound              = errors.New("consent not found")
	ErrNotCompleted          = errors.New("consent is not signed yet")
	ErrSignedFileMissing     = errors.New("signed file not available yet")
)

const (
	originalFilename = "consent.pdf"
	signedFilename   = "signed.pdf"
	pdfContentType   = "application/pdf"
)

// envelopeMessage is the body text signers see in the signature request email.
const envelopeMessage = "Please sign the consent term sent by the system."

// SendConsentInput carries the send flow inputs. Either File (an uploaded
// PDF) or Content (consent term text rendered to PDF) must be provided.
type SendConsentInput struct {
	ConsentID string
	Email     string
	Content   string
	File      io.Reader
	Filename  string
}

// ConsentListResult is the service-level DTO for paginated consents.
type ConsentListResult struct {
	Items []model.Consent `json:"data"`
	Total int             `json:"total"`
}

// ConsentDownload wraps the signed PDF stream with its consent record.
// Callers own Body and must close it.
type ConsentDownload struct {
	Consent     *model.Consent
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// ConsentService defines the use cases for consent e-signature flows.
type ConsentService interface {
	// Send stores the consent PDF, creates an Intellisign envelope with the
	// signer as recipient, dispatches it, and persists the consent record.
	Send(ctx context.Context, in SendConsentInput) (*model.Consent, error)

	// Status returns the consent, refreshing it from Intellisign first when
	// it is not yet completed. Refresh failures are logged, never returned;
	// the last known state wins.
	Status(ctx context.Context, documentID string) (*model.Consent, error)

	// Download returns the signed PDF stream for a completed consent.
	Download(ctx context.Context, documentID string) (*ConsentDownload, error)

	// List returns consents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ConsentListResult, error)
}

// consentService is a concrete implementation of ConsentService.
type consentService struct {
	store      storage.Storage
	repo       repository.ConsentRepository
	signer     intellisign.API
	signerName string
	loc        *time.Location
}

// NewConsentService constructs a new ConsentService. signerName is the
// display name given to envelope recipients; loc controls log timestamps.
func NewConsentService(store storage.Storage, repo repository.ConsentRepository, signer intellisign.API, signerName string, loc *time.Location) ConsentService {
	if loc == nil {
		loc = time.UTC
	}
	return &consentService{
		store:      store,
		repo:       repo,
		signer:     signer,
		signerName: signerName,
		loc:        loc,
	}
}

func (s *consentService) Send(ctx context.Context, in SendConsentInput) (*model.Consent, error) {
	if !s.signer.Configured() {
		return nil, ErrSignerNotConfigured
	}
	if in.Email == "" || in.ConsentID == "" {
		return nil, ErrMissingRequiredFields
	}
	if in.File == nil && in.Content == "" {
		return nil, ErrDocumentRequired
	}

	documentID := uuid.New().String()

	// Materialize the PDF once; it is written to storage and uploaded to
	// the provider from the same bytes.
	filename := originalFilename
	var data []byte
	if in.File != nil {
		if !strings.HasSuffix(strings.ToLower(in.Filename), ".pdf") {
			return nil, ErrPDFOnly
		}
		filename = filepath.Base(in.Filename)
		b, err := io.ReadAll(in.File)
		if err != nil {
			return nil, fmt.Errorf("read uploaded file: %w", err)
		}
		data = b
	} else {
		var buf bytes.Buffer
		if err := pdf.Render(in.Content, &buf); err != nil {
			return nil, fmt.Errorf("generate pdf: %w", err)
		}
		data = buf.Bytes()
	}

	key := path.Join(documentID, "original", filename)
	if _, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: pdfContentType,
		Metadata: map[string]string{
			"consent-id": in.ConsentID,
		},
	}); err != nil {
		return nil, fmt.Errorf("store original pdf: %w", err)
	}

	token, err := s.signer.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtain token: %w", err)
	}

	subject := "Consent - " + in.ConsentID
	envelopeID, err := s.signer.CreateEnvelope(ctx, token, subject, subject, envelopeMessage)
	if err != nil {
		return nil, fmt.Errorf("create envelope: %w", err)
	}

	if _, err := s.signer.AddDocument(ctx, token, envelopeID, filename, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add document: %w", err)
	}

	if err := s.signer.AddRecipient(ctx, token, envelopeID, intellisign.Recipient{
		Name:          s.signerName,
		Email:         in.Email,
		SignatureType: "simple",
	}); err != nil {
		return nil, fmt.Errorf("add recipient: %w", err)
	}

	if err := s.signer.SendEnvelope(ctx, token, envelopeID); err != nil {
		return nil, fmt.Errorf("send envelope: %w", err)
	}

	now := time.Now().UTC()
	consent := &model.Consent{
		DocumentID:   documentID,
		ConsentID:    in.ConsentID,
		SignerEmail:  in.Email,
		EnvelopeID:   envelopeID,
		Status:       model.StatusSent,
		OriginalPath: key,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	stored, err := s.repo.Create(ctx, consent)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// Status looks up the consent and lazily refreshes it against the provider.
func (s *consentService) Status(ctx context.Context, documentID string) (*model.Consent, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	c, err := s.repo.FindByDocumentID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if c.Status != model.StatusCompleted {
		c = s.refresh(ctx, c)
	}
	return c, nil
}

// refresh polls the provider and, when the envelope is signed, pulls the
// final PDF into storage and marks the consent completed. Any failure is
// logged and the previous state returned; the next status call retries.
func (s *consentService) refresh(ctx context.Context, c *model.Consent) *model.Consent {
	token, err := s.signer.AccessToken(ctx)
	if err != nil {
		s.logWarn(ctx, "consent_refresh_failed", c.DocumentID, err)
		return c
	}

	env, err := s.signer.EnvelopeStatus(ctx, token, c.EnvelopeID)
	if err != nil {
		s.logWarn(ctx, "consent_refresh_failed", c.DocumentID, err)
		return c
	}
	if !intellisign.IsSignedStatus(env.Status) {
		return c
	}

	rc, size, err := s.signer.DownloadCompleted(ctx, token, c.EnvelopeID)
	if err != nil {
		s.logWarn(ctx, "signed_download_failed", c.DocumentID, err)
		return c
	}
	defer rc.Close()

	key := path.Join(c.DocumentID, "signed", signedFilename)
	if _, err := s.store.Put(ctx, key, rc, storage.PutObjectOptions{
		Size:        size,
		ContentType: pdfContentType,
	}); err != nil {
		s.logWarn(ctx, "signed_store_failed", c.DocumentID, err)
		return c
	}

	updated, err := s.repo.MarkCompleted(ctx, c.DocumentID, key, time.Now().UTC())
	if err != nil {
		s.logWarn(ctx, "consent_update_failed", c.DocumentID, err)
		return c
	}
	return updated
}

func (s *consentService) Download(ctx context.Context, documentID string) (*ConsentDownload, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	c, err := s.repo.FindByDocumentID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.Status != model.StatusCompleted {
		return nil, ErrNotCompleted
	}
	if c.SignedPath == "" {
		return nil, ErrSignedFileMissing
	}

	rc, info, err := s.store.Get(ctx, c.SignedPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSignedFileMissing
		}
		return nil, fmt.Errorf("open signed pdf: %w", err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = pdfContentType
	}
	return &ConsentDownload{
		Consent:     c,
		Body:        rc,
		Size:        info.Size,
		ContentType: contentType,
	}, nil
}

// List returns paginated consents without exposing repository types.
func (s *consentService) List(ctx context.Context, limit, offset int) (*ConsentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ConsentListResult{Items: res.Items, Total: res.Total}, nil
}

// logWarn emits one JSON log line; refresh problems must not fail requests.
// The active trace id is included so log lines correlate with spans.
func (s *consentService) logWarn(ctx context.Context, event, documentID string, cause error) {
	entry := map[string]any{
		"ts":            time.Now().In(s.loc).Format(time.RFC3339Nano),
		"level":         "warn",
		"component":     "service",
		"event":         event,
		"document_id":   documentID,
		"error_message": cause.Error(),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		entry["trace_id"] = sc.TraceID().String()
	}

	b, err := json.Marshal(entry)
	if err != nil {
		log.Printf("failed to marshal service log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
