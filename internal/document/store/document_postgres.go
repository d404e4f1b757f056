package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"dokumentporten/internal/document/models"
)

const selectDocWithDialogJoin = `
	SELECT doc.id, doc.document_id, doc.type, doc.content_type, doc.title,
	       doc.summary, doc.link_id, doc.status, doc.is_read,
	       doc.transmission_id, doc.created, doc.updated,
	       d.id, d.title, d.summary, d.fnr, d.org_number,
	       d.dialogporten_uuid, d.delete_performed, d.created, d.updated
	FROM document doc
	JOIN dialog d ON d.id = doc.dialog_id`

// PostgresDocumentStore persists documents in PostgreSQL.
type PostgresDocumentStore struct {
	db *sql.DB
}

// NewPostgresDocumentStore constructs a PostgreSQL-backed document store.
func NewPostgresDocumentStore(db *sql.DB) *PostgresDocumentStore {
	return &PostgresDocumentStore{db: db}
}

func (s *PostgresDocumentStore) Insert(ctx context.Context, doc models.Document, content []byte) (models.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Document{}, fmt.Errorf("begin insert document: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO document (
			document_id, type, content_type, title, summary,
			link_id, status, is_read, dialog_id, transmission_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created, updated`,
		doc.DocumentID, string(doc.Type), doc.ContentType, doc.Title, nullString(doc.Summary),
		doc.LinkID, string(doc.Status), doc.IsRead, doc.Dialog.ID, nullUUID(doc.TransmissionID),
	)
	inserted := doc
	if err := row.Scan(&inserted.ID, &inserted.Created, &inserted.Updated); err != nil {
		return models.Document{}, fmt.Errorf("insert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO document_content (id, content) VALUES ($1, $2)`,
		inserted.ID, content,
	); err != nil {
		return models.Document{}, fmt.Errorf("insert document content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Document{}, fmt.Errorf("commit insert document: %w", err)
	}
	return inserted, nil
}

func (s *PostgresDocumentStore) Update(ctx context.Context, doc models.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update document: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE document
		SET status = $1,
		    is_read = $2,
		    updated = $3,
		    transmission_id = $4
		WHERE id = $5`,
		string(doc.Status), doc.IsRead, doc.Updated, nullUUID(doc.TransmissionID), doc.ID,
	); err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if doc.Dialog.DialogportenUUID != nil {
		if _, err := tx.ExecContext(ctx, `
			UPDATE dialog
			SET dialogporten_uuid = $1,
			    updated = $2
			WHERE id = $3`,
			*doc.Dialog.DialogportenUUID, doc.Dialog.Updated, doc.Dialog.ID,
		); err != nil {
			return fmt.Errorf("update dialog remote id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update document: %w", err)
	}
	return nil
}

func (s *PostgresDocumentStore) GetByLinkID(ctx context.Context, linkID uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, selectDocWithDialogJoin+` WHERE doc.link_id = $1`, linkID)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document by link id: %w", err)
	}
	return doc, nil
}

func (s *PostgresDocumentStore) GetByStatus(ctx context.Context, status models.DocumentStatus, limit int) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		selectDocWithDialogJoin+` WHERE doc.status = $1 ORDER BY doc.created LIMIT $2`,
		string(status), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get documents by status: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (s *PostgresDocumentStore) GetByOrgAndType(ctx context.Context, orgNumber string, docType models.DocumentType) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		selectDocWithDialogJoin+` WHERE d.org_number = $1 AND doc.type = $2 ORDER BY doc.created DESC`,
		orgNumber, string(docType),
	)
	if err != nil {
		return nil, fmt.Errorf("get documents by org and type: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (s *PostgresDocumentStore) GetContent(ctx context.Context, documentRowID int64) ([]byte, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM document_content WHERE id = $1`, documentRowID,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document content: %w", err)
	}
	return content, nil
}

func (s *PostgresDocumentStore) ExistsByDocumentID(ctx context.Context, documentID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM document WHERE document_id = $1)`, documentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check document exists: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		doc            models.Document
		docType        string
		status         string
		summary        sql.NullString
		transmissionID uuid.NullUUID
		dialogSummary  sql.NullString
		dialogUUID     uuid.NullUUID
		deleted        sql.NullTime
	)
	err := row.Scan(
		&doc.ID, &doc.DocumentID, &docType, &doc.ContentType, &doc.Title,
		&summary, &doc.LinkID, &status, &doc.IsRead,
		&transmissionID, &doc.Created, &doc.Updated,
		&doc.Dialog.ID, &doc.Dialog.Title, &dialogSummary, &doc.Dialog.Fnr, &doc.Dialog.OrgNumber,
		&dialogUUID, &deleted, &doc.Dialog.Created, &doc.Dialog.Updated,
	)
	if err != nil {
		return nil, err
	}
	doc.Type = models.DocumentType(docType)
	doc.Status = models.DocumentStatus(status)
	doc.Summary = summary.String
	doc.Dialog.Summary = dialogSummary.String
	if transmissionID.Valid {
		id := transmissionID.UUID
		doc.TransmissionID = &id
	}
	if dialogUUID.Valid {
		id := dialogUUID.UUID
		doc.Dialog.DialogportenUUID = &id
	}
	if deleted.Valid {
		t := deleted.Time
		doc.Dialog.DeletePerformed = &t
	}
	return &doc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
