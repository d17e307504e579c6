package model

// Package model contains domain models/data structures.
// No business logic here; orchestration lives in the service layer.

// Consent statuses. A consent only ever moves forward: sent -> completed.
const (
	StatusSent      = "sent"
	StatusCompleted = "completed"
)
