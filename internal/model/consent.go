package model

import "time"

// Consent represents one consent document sent out for electronic signature.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Consent struct {
	DocumentID   string     `json:"document_id"`
	ConsentID    string     `json:"consent_id"`
	SignerEmail  string     `json:"signer_email"`
	EnvelopeID   string     `json:"envelope_id"`
	Status       string     `json:"status"`
	OriginalPath string     `json:"original_path"`
	SignedPath   string     `json:"signed_path"`
	SignedAt     *time.Time `json:"signed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DownloadAvailable reports whether the signed PDF can be served.
// It is derived from the status; the download handler additionally checks
// that the blob still exists in storage.
func (c *Consent) DownloadAvailable() bool {
	return c.Status == StatusCompleted
}
