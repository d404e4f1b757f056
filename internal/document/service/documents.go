package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dokumentporten/internal/auth"
	"dokumentporten/internal/document/models"
	"dokumentporten/internal/document/store"
	dErrors "dokumentporten/pkg/domain-errors"
)

// AccessValidator authorizes a principal for a single document or for an
// organization's documents of one type.
type AccessValidator interface {
	ValidateDocumentAccess(ctx context.Context, principal auth.Principal, doc *models.Document) error
	ValidateDocumentsOfTypeAccess(ctx context.Context, principal auth.Principal, orgNumber string, docType models.DocumentType) error
}

// DocumentService serves stored documents to authorized external readers.
type DocumentService struct {
	docs      store.DocumentStore
	validator AccessValidator
	log       *slog.Logger
}

func NewDocumentService(docs store.DocumentStore, validator AccessValidator, log *slog.Logger) *DocumentService {
	return &DocumentService{docs: docs, validator: validator, log: log}
}

// GetDocument returns the document metadata behind a share link, after
// authorizing the caller against the owning organization.
func (s *DocumentService) GetDocument(ctx context.Context, principal auth.Principal, linkID uuid.UUID) (*models.Document, error) {
	doc, err := s.docs.GetByLinkID(ctx, linkID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "document lookup failed")
	}
	if err := s.validator.ValidateDocumentAccess(ctx, principal, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns an organization's documents of one type, after a
// single list-level authorization check.
func (s *DocumentService) ListDocuments(ctx context.Context, principal auth.Principal, orgNumber string, docType models.DocumentType) ([]models.Document, error) {
	if err := s.validator.ValidateDocumentsOfTypeAccess(ctx, principal, orgNumber, docType); err != nil {
		return nil, err
	}
	docs, err := s.docs.GetByOrgAndType(ctx, orgNumber, docType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "document list failed")
	}
	return docs, nil
}

// MarkDocumentRead flags the document behind a share link as read.
func (s *DocumentService) MarkDocumentRead(ctx context.Context, principal auth.Principal, linkID uuid.UUID) error {
	doc, err := s.GetDocument(ctx, principal, linkID)
	if err != nil {
		return err
	}
	if doc.IsRead {
		return nil
	}
	doc.IsRead = true
	doc.Updated = time.Now()
	if err := s.docs.Update(ctx, *doc); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "mark read failed")
	}
	return nil
}

// GetDocumentContent returns the document and its raw content, marking the
// document as read on first retrieval. A failed read-flag update is logged
// and does not block delivery.
func (s *DocumentService) GetDocumentContent(ctx context.Context, principal auth.Principal, linkID uuid.UUID) (*models.Document, []byte, error) {
	doc, err := s.GetDocument(ctx, principal, linkID)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.docs.GetContent(ctx, doc.ID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "content lookup failed")
	}

	if !doc.IsRead {
		doc.IsRead = true
		doc.Updated = time.Now()
		if err := s.docs.Update(ctx, *doc); err != nil {
			s.log.ErrorContext(ctx, "failed to mark document read",
				"document_id", doc.DocumentID, "error", err)
		}
	}
	return doc, content, nil
}
