package models

import "time"

// AccessLevel controls who may see a document besides its owner.
type AccessLevel string

const (
	AccessPrivate AccessLevel = "private"
	AccessShared  AccessLevel = "shared"
	AccessPublic  AccessLevel = "public"
)

func (a AccessLevel) Valid() bool {
	return a == AccessPrivate || a == AccessShared || a == AccessPublic
}

// DocumentStatus is the review state of a document. No transition graph is
// enforced; any authorized update may set any status.
type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "draft"
	StatusPending  DocumentStatus = "pending"
	StatusApproved DocumentStatus = "approved"
	StatusRejected DocumentStatus = "rejected"
)

func (s DocumentStatus) Valid() bool {
	return s == StatusDraft || s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Document is the metadata record for an uploaded file. The payload itself
// lives in blob storage under StorageKey.
type Document struct {
	ID   string
	Name string
	// Type is the lowercased filename extension, without the dot.
	Type string
	Size int64
	Tags []string
	// Encrypted is a lifecycle flag; payload crypto is handled elsewhere.
	Encrypted   bool
	AccessLevel AccessLevel
	Status      DocumentStatus
	// RequiredPrivilege is the minimum role for privilege-based access.
	// It is only consulted for private documents when the actor is
	// neither the owner nor an admin.
	RequiredPrivilege Role
	OwnerID           string
	// Content is extracted text, if any. Extraction failures are stored
	// here as text rather than failing the upload.
	Content    string
	StorageKey string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
