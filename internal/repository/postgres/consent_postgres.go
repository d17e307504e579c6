package postgres

import (
	"context"
	"database/sql"
	"time"

	"consentapi/internal/model"
	"consentapi/internal/repository"
)

// ConsentPostgres is a PostgreSQL implementation of repository.ConsentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ConsentPostgres struct {
	db *sql.DB
}

// NewConsentPostgres creates a new ConsentPostgres repository.
func NewConsentPostgres(db *sql.DB) *ConsentPostgres {
	return &ConsentPostgres{db: db}
}

var _ repository.ConsentRepository = (*ConsentPostgres)(nil)

// Create inserts a new consent row and returns the stored record.
func (r *ConsentPostgres) Create(ctx context.Context, c *model.Consent) (*model.Consent, error) {
	const q = `
		INSERT INTO consents (document_id, consent_id, signer_email, envelope_id, status, original_path, signed_path, signed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING document_id, consent_id, signer_email, envelope_id, status, original_path, signed_path, signed_at, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		c.DocumentID,
		c.ConsentID,
		c.SignerEmail,
		c.EnvelopeID,
		c.Status,
		c.OriginalPath,
		c.SignedPath,
		c.SignedAt,
		c.CreatedAt,
		c.UpdatedAt,
	)
	var out model.Consent
	if err := scanConsent(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByDocumentID fetches a single consent by its document ID.
func (r *ConsentPostgres) FindByDocumentID(ctx context.Context, documentID string) (*model.Consent, error) {
	const q = `
		SELECT document_id, consent_id, signer_email, envelope_id, status, original_path, signed_path, signed_at, created_at, updated_at
		FROM consents
		WHERE document_id = $1
	`
	row := r.db.QueryRowContext(ctx, q, documentID)
	var c model.Consent
	if err := scanConsent(row, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkCompleted sets the completed status along with the signed file location and timestamp.
func (r *ConsentPostgres) MarkCompleted(ctx context.Context, documentID, signedPath string, signedAt time.Time) (*model.Consent, error) {
	const q = `
		UPDATE consents
		SET status = 'completed', signed_path = $2, signed_at = $3, updated_at = now()
		WHERE document_id = $1
		RETURNING document_id, consent_id, signer_email, envelope_id, status, original_path, signed_path, signed_at, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q, documentID, signedPath, signedAt)
	var c model.Consent
	if err := scanConsent(row, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns consents using LIMIT/OFFSET pagination and a total count.
func (r *ConsentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Consent], error) {
	// Count total rows
	const qCount = `SELECT COUNT(*) FROM consents`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT document_id, consent_id, signer_email, envelope_id, status, original_path, signed_path, signed_at, created_at, updated_at
		FROM consents
		ORDER BY created_at DESC, document_id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Consent, 0)
	for rows.Next() {
		var c model.Consent
		if err := scanConsent(rows, &c); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Consent]{
		Items: items,
		Total: total,
	}, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsent(row rowScanner, c *model.Consent) error {
	return row.Scan(
		&c.DocumentID,
		&c.ConsentID,
		&c.SignerEmail,
		&c.EnvelopeID,
		&c.Status,
		&c.OriginalPath,
		&c.SignedPath,
		&c.SignedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}
