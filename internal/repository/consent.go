package repository

import (
	"context"
	"time"

	"consentapi/internal/model"
)

// ConsentRepository defines data access for consents using SQL queries only.
// No business logic here — strictly persistence operations.
type ConsentRepository interface {
	// Create inserts a new consent record.
	// The caller should provide required fields (e.g., DocumentID, CreatedAt) according to the database schema defaults.
	// Returns the stored consent (may include values set by the DB).
	Create(ctx context.Context, c *model.Consent) (*model.Consent, error)

	// FindByDocumentID returns a consent by its document ID.
	FindByDocumentID(ctx context.Context, documentID string) (*model.Consent, error)

	// MarkCompleted transitions a consent to the completed status, recording where
	// the signed file is stored and when it was signed. Returns the updated consent.
	MarkCompleted(ctx context.Context, documentID, signedPath string, signedAt time.Time) (*model.Consent, error)

	// List returns a paginated list of consents and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Consent], error)
}
