package models

import "time"

// AuditAction tags the kind of state change an audit entry records.
type AuditAction string

const (
	AuditCreate   AuditAction = "create"
	AuditUpdate   AuditAction = "update"
	AuditDelete   AuditAction = "delete"
	AuditDownload AuditAction = "download"
	AuditEncrypt  AuditAction = "encrypt"
	AuditDecrypt  AuditAction = "decrypt"
	AuditShare    AuditAction = "share"
)

// AuditEntry is one append-only record of a state-changing action. Entries
// are never updated or deleted; DocumentID is empty for non-document
// actions and may dangle after the referenced document is removed.
type AuditEntry struct {
	ID         string
	DocumentID string
	UserID     string
	Action     AuditAction
	Details    string
	CreatedAt  time.Time
}
