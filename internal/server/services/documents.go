package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/common"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/dbx"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/logging"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/blob"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/extract"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/policy"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/documents"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DocumentService owns the document lifecycle. Every access-sensitive
// operation re-evaluates policy.CanAccess; decisions are never cached.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
	extractor   extract.Extractor
	logger      logging.Logger
}

// NewDocumentService constructs a DocumentService with its collaborators.
func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, extractor extract.Extractor, logger logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		extractor:   extractor,
		logger:      logger.With("module", "documents"),
	}
}

// CreateDocumentRequest carries an upload. Zero-valued optional fields get
// defaults: AccessLevel private, RequiredPrivilege the creator's role.
type CreateDocumentRequest struct {
	Name              string
	Data              []byte
	Tags              []string
	AccessLevel       models.AccessLevel
	Encrypt           bool
	RequiredPrivilege models.Role
}

// Create stores the payload, extracts text content, and inserts the
// metadata record with status pending. Extraction failures are recorded as
// content text and never fail the upload; a blob store failure does.
func (s *DocumentService) Create(ctx context.Context, actor *models.User, req CreateDocumentRequest) (*models.Document, error) {
	if req.Name == "" || len(req.Data) == 0 {
		return nil, common.ErrorValidation
	}

	level := req.AccessLevel
	if level == "" {
		level = models.AccessPrivate
	}
	if !level.Valid() {
		return nil, common.ErrorValidation
	}

	privilege := req.RequiredPrivilege
	if privilege == "" {
		privilege = actor.Role
	}

	fileType := fileExtension(req.Name)

	key, err := s.blobs.Save(ctx, req.Data, fileType)
	if err != nil {
		return nil, fmt.Errorf("error saving payload: %w", err)
	}

	content, err := s.extractor.Extract(ctx, req.Data, fileType)
	if err != nil {
		// extraction failure becomes data, not an error
		content = fmt.Sprintf("Error extracting text: %v", err)
	}

	doc := &models.Document{
		ID:                uuid.New().String(),
		Name:              req.Name,
		Type:              fileType,
		Size:              int64(len(req.Data)),
		Tags:              req.Tags,
		Encrypted:         req.Encrypt,
		AccessLevel:       level,
		Status:            models.StatusPending,
		RequiredPrivilege: privilege,
		OwnerID:           actor.ID,
		Content:           content,
		StorageKey:        key,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Documents(tx).Create(ctx, doc); err != nil {
			return err
		}
		return appendAudit(ctx, s.repomanager.Audit(tx), actor, models.AuditCreate, doc.ID, "Document created.")
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns a document the actor may access. Reads are not audited.
func (s *DocumentService) Get(ctx context.Context, actor *models.User, id string) (*models.Document, error) {
	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(doc, actor) {
		return nil, common.ErrorForbidden
	}
	return doc, nil
}

// List applies the structural filter in storage, then keeps only the
// documents the actor may access. The policy pass always runs, even with an
// empty filter.
func (s *DocumentService) List(ctx context.Context, actor *models.User, f documents.Filter) ([]*models.Document, error) {
	docs, err := s.repomanager.Documents(s.db).Select(ctx, f)
	if err != nil {
		return nil, err
	}
	return filterAccessible(docs, actor), nil
}

// Download returns the document and its stored bytes and audits the export.
// A missing or unreadable payload is fatal for this operation.
func (s *DocumentService) Download(ctx context.Context, actor *models.User, id string) (*models.Document, []byte, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.blobs.Read(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading payload: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return appendAudit(ctx, s.repomanager.Audit(tx), actor, models.AuditDownload, doc.ID, "Document downloaded.")
	})
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// DocumentPatch mutates only the fields that are non-nil.
type DocumentPatch struct {
	Name              *string
	Tags              *[]string
	AccessLevel       *models.AccessLevel
	Status            *models.DocumentStatus
	Encrypted         *bool
	RequiredPrivilege *models.Role
}

// Update applies a partial patch and audits it, even when the patch changes
// nothing. Status carries no transition rules: any value is settable by any
// actor who passes the access check.
func (s *DocumentService) Update(ctx context.Context, actor *models.User, id string, patch DocumentPatch) (*models.Document, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, common.ErrorValidation
		}
		doc.Name = *patch.Name
	}
	if patch.Tags != nil {
		doc.Tags = *patch.Tags
	}
	if patch.AccessLevel != nil {
		if !patch.AccessLevel.Valid() {
			return nil, common.ErrorValidation
		}
		doc.AccessLevel = *patch.AccessLevel
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, common.ErrorValidation
		}
		doc.Status = *patch.Status
	}
	if patch.Encrypted != nil {
		doc.Encrypted = *patch.Encrypted
	}
	if patch.RequiredPrivilege != nil {
		if !patch.RequiredPrivilege.Valid() {
			return nil, common.ErrorValidation
		}
		doc.RequiredPrivilege = *patch.RequiredPrivilege
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Documents(tx).Update(ctx, doc); err != nil {
			return err
		}
		return appendAudit(ctx, s.repomanager.Audit(tx), actor, models.AuditUpdate, doc.ID, "Document updated.")
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the payload and the metadata record. A failed payload
// removal is logged and ignored; the record is deleted regardless. Audit
// entries referring to the document stay in place.
func (s *DocumentService) Delete(ctx context.Context, actor *models.User, id string) error {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, doc.StorageKey); err != nil {
		s.logger.Warn(ctx, "failed to remove payload", "document_id", doc.ID, "error", err.Error())
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Documents(tx).Delete(ctx, doc.ID); err != nil {
			return err
		}
		return appendAudit(ctx, s.repomanager.Audit(tx), actor, models.AuditDelete, doc.ID, "Document deleted.")
	})
}

// Encrypt marks the document encrypted. The operation is idempotent and
// audits every successful call, including repeats.
func (s *DocumentService) Encrypt(ctx context.Context, actor *models.User, id string) (*models.Document, error) {
	return s.setEncrypted(ctx, actor, id, true, models.AuditEncrypt, "Document encrypted.")
}

// Decrypt clears the encrypted flag. Same auditing rules as Encrypt.
func (s *DocumentService) Decrypt(ctx context.Context, actor *models.User, id string) (*models.Document, error) {
	return s.setEncrypted(ctx, actor, id, false, models.AuditDecrypt, "Document decrypted.")
}

func (s *DocumentService) setEncrypted(ctx context.Context, actor *models.User, id string, encrypted bool, action models.AuditAction, details string) (*models.Document, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	doc.Encrypted = encrypted

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Documents(tx).Update(ctx, doc); err != nil {
			return err
		}
		return appendAudit(ctx, s.repomanager.Audit(tx), actor, action, doc.ID, details)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Share transitions a private document to shared. The transition is
// one-directional and only the private→shared step is audited; sharing an
// already shared or public document is a silent no-op.
func (s *DocumentService) Share(ctx context.Context, actor *models.User, id string) (*models.Document, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if doc.AccessLevel != models.AccessPrivate {
		return doc, nil
	}

	doc.AccessLevel = models.AccessShared

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Documents(tx).Update(ctx, doc); err != nil {
			return err
		}
		return appendAudit(ctx, s.repomanager.Audit(tx), actor, models.AuditShare, doc.ID, "Document shared.")
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DocumentStats summarizes the whole repository for the dashboard.
type DocumentStats struct {
	TotalDocuments     int
	EncryptedDocuments int
	SharedDocuments    int
	PendingDocuments   int
	DocumentTypes      map[string]int
	AllTags            []string
}

// Stats aggregates counts across all documents.
func (s *DocumentService) Stats(ctx context.Context) (*DocumentStats, error) {
	docs, err := s.repomanager.Documents(s.db).Select(ctx, documents.Filter{})
	if err != nil {
		return nil, err
	}

	stats := &DocumentStats{
		TotalDocuments: len(docs),
		DocumentTypes:  map[string]int{},
	}
	tagSet := map[string]struct{}{}
	for _, doc := range docs {
		if doc.Encrypted {
			stats.EncryptedDocuments++
		}
		if doc.AccessLevel == models.AccessShared {
			stats.SharedDocuments++
		}
		if doc.Status == models.StatusPending {
			stats.PendingDocuments++
		}
		stats.DocumentTypes[doc.Type]++
		for _, tag := range doc.Tags {
			tagSet[tag] = struct{}{}
		}
	}
	stats.AllTags = make([]string, 0, len(tagSet))
	for tag := range tagSet {
		stats.AllTags = append(stats.AllTags, tag)
	}
	sort.Strings(stats.AllTags)
	return stats, nil
}

// Recent returns up to limit most recently updated documents the actor may
// access. limit defaults to 5.
func (s *DocumentService) Recent(ctx context.Context, actor *models.User, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = 5
	}
	docs, err := s.repomanager.Documents(s.db).SelectRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return filterAccessible(docs, actor), nil
}

func filterAccessible(docs []*models.Document, actor *models.User) []*models.Document {
	result := make([]*models.Document, 0, len(docs))
	for _, doc := range docs {
		if policy.CanAccess(doc, actor) {
			result = append(result, doc)
		}
	}
	return result
}

// fileExtension returns the lowercased extension of name without the dot.
func fileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
