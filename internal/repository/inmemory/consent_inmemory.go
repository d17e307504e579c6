package inmemory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"consentapi/internal/model"
	"consentapi/internal/repository"
)

// ConsentInMemory is an in-process implementation of repository.ConsentRepository.
// It backs deployments that run without PostgreSQL; all state is lost on restart.
// Missing rows are reported as sql.ErrNoRows so callers handle both
// implementations identically.
type ConsentInMemory struct {
	mu       sync.RWMutex
	consents map[string]model.Consent
}

// NewConsentInMemory creates an empty in-memory consent repository.
func NewConsentInMemory() *ConsentInMemory {
	return &ConsentInMemory{consents: make(map[string]model.Consent)}
}

var _ repository.ConsentRepository = (*ConsentInMemory)(nil)

// Create stores a copy of the consent keyed by document ID.
func (r *ConsentInMemory) Create(_ context.Context, c *model.Consent) (*model.Consent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clone(*c)
	r.consents[c.DocumentID] = stored

	out := clone(stored)
	return &out, nil
}

// FindByDocumentID returns a copy of the stored consent, or sql.ErrNoRows.
func (r *ConsentInMemory) FindByDocumentID(_ context.Context, documentID string) (*model.Consent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.consents[documentID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := clone(c)
	return &out, nil
}

// MarkCompleted transitions the stored consent to completed, or returns sql.ErrNoRows.
func (r *ConsentInMemory) MarkCompleted(_ context.Context, documentID, signedPath string, signedAt time.Time) (*model.Consent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.consents[documentID]
	if !ok {
		return nil, sql.ErrNoRows
	}

	c.Status = model.StatusCompleted
	c.SignedPath = signedPath
	at := signedAt
	c.SignedAt = &at
	c.UpdatedAt = time.Now()
	r.consents[documentID] = c

	out := clone(c)
	return &out, nil
}

// List returns consents ordered by creation time descending with limit/offset pagination.
func (r *ConsentInMemory) List(_ context.Context, pq repository.PageQuery) (*repository.PageResult[model.Consent], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]model.Consent, 0, len(r.consents))
	for _, c := range r.consents {
		all = append(all, clone(c))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].DocumentID > all[j].DocumentID
	})

	total := len(all)
	start := pq.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + pq.Limit
	if pq.Limit <= 0 || end > total {
		end = total
	}

	return &repository.PageResult[model.Consent]{
		Items: all[start:end],
		Total: total,
	}, nil
}

// clone copies a consent including its SignedAt pointer so callers
// cannot mutate stored state through returned values.
func clone(c model.Consent) model.Consent {
	if c.SignedAt != nil {
		at := *c.SignedAt
		c.SignedAt = &at
	}
	return c
}
