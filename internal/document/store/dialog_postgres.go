package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dokumentporten/internal/document/models"
)

const selectDialog = `
	SELECT id, title, summary, fnr, org_number, dialogporten_uuid,
	       delete_performed, created, updated
	FROM dialog`

// PostgresDialogStore persists dialogs in PostgreSQL.
type PostgresDialogStore struct {
	db *sql.DB
}

// NewPostgresDialogStore constructs a PostgreSQL-backed dialog store.
func NewPostgresDialogStore(db *sql.DB) *PostgresDialogStore {
	return &PostgresDialogStore{db: db}
}

func (s *PostgresDialogStore) Insert(ctx context.Context, dialog models.Dialog) (models.Dialog, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO dialog (title, summary, fnr, org_number, dialogporten_uuid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created, updated`,
		dialog.Title, nullString(dialog.Summary), dialog.Fnr, dialog.OrgNumber,
		nullUUID(dialog.DialogportenUUID),
	)
	inserted := dialog
	if err := row.Scan(&inserted.ID, &inserted.Created, &inserted.Updated); err != nil {
		return models.Dialog{}, fmt.Errorf("insert dialog: %w", err)
	}
	return inserted, nil
}

func (s *PostgresDialogStore) GetByFnrAndOrgNumber(ctx context.Context, fnr, orgNumber string) (*models.Dialog, error) {
	row := s.db.QueryRowContext(ctx,
		selectDialog+` WHERE fnr = $1 AND org_number = $2`, fnr, orgNumber,
	)
	dialog, err := scanDialog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dialog by fnr and org number: %w", err)
	}
	return dialog, nil
}

func (s *PostgresDialogStore) GetAwaitingDeletion(ctx context.Context, limit int) ([]models.Dialog, error) {
	rows, err := s.db.QueryContext(ctx,
		selectDialog+` WHERE delete_performed IS NULL AND dialogporten_uuid IS NOT NULL LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get dialogs awaiting deletion: %w", err)
	}
	defer rows.Close()

	var dialogs []models.Dialog
	for rows.Next() {
		dialog, err := scanDialog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dialog: %w", err)
		}
		dialogs = append(dialogs, *dialog)
	}
	return dialogs, rows.Err()
}

func (s *PostgresDialogStore) UpdateAfterDelete(ctx context.Context, dialog models.Dialog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update after delete: %w", err)
	}
	defer tx.Rollback()

	if dialog.DialogportenUUID == nil {
		// The remote dialog is gone for real; reset its documents so a
		// future resend can rebuild remote state from scratch.
		if _, err := tx.ExecContext(ctx, `
			UPDATE document
			SET transmission_id = NULL,
			    status = $1
			WHERE dialog_id = $2`,
			string(models.StatusReceived), dialog.ID,
		); err != nil {
			return fmt.Errorf("reset documents after delete: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE dialog
		SET dialogporten_uuid = $1,
		    updated = $2,
		    delete_performed = $3
		WHERE id = $4`,
		nullUUID(dialog.DialogportenUUID), dialog.Updated, time.Now(), dialog.ID,
	); err != nil {
		return fmt.Errorf("update dialog after delete: %w", err)
	}

	return tx.Commit()
}

func scanDialog(row rowScanner) (*models.Dialog, error) {
	var (
		dialog     models.Dialog
		summary    sql.NullString
		remoteUUID uuid.NullUUID
		deleted    sql.NullTime
	)
	err := row.Scan(
		&dialog.ID, &dialog.Title, &summary, &dialog.Fnr, &dialog.OrgNumber,
		&remoteUUID, &deleted, &dialog.Created, &dialog.Updated,
	)
	if err != nil {
		return nil, err
	}
	dialog.Summary = summary.String
	if remoteUUID.Valid {
		id := remoteUUID.UUID
		dialog.DialogportenUUID = &id
	}
	if deleted.Valid {
		t := deleted.Time
		dialog.DeletePerformed = &t
	}
	return &dialog, nil
}
