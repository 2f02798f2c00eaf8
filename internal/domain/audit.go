package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded for item mutations. The set is open-ended:
// CREATE_SAMPLE marks seeded data, and future free-form markers are
// stored as-is.
const (
	AuditActionCreate       = "CREATE"
	AuditActionUpdate       = "UPDATE"
	AuditActionDelete       = "DELETE"
	AuditActionToggle       = "TOGGLE"
	AuditActionCreateSample = "CREATE_SAMPLE"
)

// AuditUsernameFallback is recorded when no actor context is available.
const AuditUsernameFallback = "system"

// AuditRecord captures who did what to which item and when. Records are
// append-only: the core never mutates or deletes them. ItemID is nil for
// actions that have no surviving item to point at.
type AuditRecord struct {
	ID        uuid.UUID  `json:"id"`
	Action    string     `json:"action"`
	ItemID    *uuid.UUID `json:"item_id,omitempty"`
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewAuditRecord creates an audit record for the given action. An empty
// username falls back to the "system" sentinel.
func NewAuditRecord(action string, itemID *uuid.UUID, username string) (*AuditRecord, error) {
	if action == "" {
		return nil, ErrInvalidAuditAction
	}

	if username == "" {
		username = AuditUsernameFallback
	}

	return &AuditRecord{
		ID:        uuid.New(),
		Action:    action,
		ItemID:    itemID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}, nil
}
