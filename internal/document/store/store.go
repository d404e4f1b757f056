// Package store persists documents and dialogs. Interfaces here are the call
// contracts; Postgres implementations live alongside an in-memory variant
// used by unit tests.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"dokumentporten/internal/document/models"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// DocumentStore is the persistence contract for documents and their content.
type DocumentStore interface {
	// Insert stores the document and its content, returning the persisted row.
	Insert(ctx context.Context, doc models.Document, content []byte) (models.Document, error)
	// Update persists status, read flag, transmission id and updated
	// timestamp. When the embedded dialog carries a remote id, the dialog
	// row is updated in the same transaction.
	Update(ctx context.Context, doc models.Document) error
	GetByLinkID(ctx context.Context, linkID uuid.UUID) (*models.Document, error)
	// GetByStatus returns up to limit documents with the given status,
	// oldest first.
	GetByStatus(ctx context.Context, status models.DocumentStatus, limit int) ([]models.Document, error)
	// GetByOrgAndType returns an organization's documents of one type,
	// newest first.
	GetByOrgAndType(ctx context.Context, orgNumber string, docType models.DocumentType) ([]models.Document, error)
	GetContent(ctx context.Context, documentRowID int64) ([]byte, error)
	ExistsByDocumentID(ctx context.Context, documentID uuid.UUID) (bool, error)
}

// DialogStore is the persistence contract for dialogs.
type DialogStore interface {
	Insert(ctx context.Context, dialog models.Dialog) (models.Dialog, error)
	// GetByFnrAndOrgNumber looks a dialog up by its natural key.
	GetByFnrAndOrgNumber(ctx context.Context, fnr, orgNumber string) (*models.Dialog, error)
	// GetAwaitingDeletion returns dialogs that still have a remote id and no
	// recorded deletion.
	GetAwaitingDeletion(ctx context.Context, limit int) ([]models.Dialog, error)
	// UpdateAfterDelete stamps delete_performed and writes the (possibly
	// cleared) remote id. When the remote id was cleared, the dialog's
	// documents are reset to RECEIVED so a later resend can rebuild state.
	UpdateAfterDelete(ctx context.Context, dialog models.Dialog) error
}
