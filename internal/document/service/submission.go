package service

import (
	"context"
	"log/slog"

	"dokumentporten/internal/document/models"
	"dokumentporten/internal/document/store"
	"dokumentporten/internal/platform/metrics"
	dErrors "dokumentporten/pkg/domain-errors"
)

// SubmissionService persists incoming document submissions. It is shared by
// the internal HTTP endpoint and the broker consumer, so duplicate delivery
// of the same producer document id is tolerated on both paths.
type SubmissionService struct {
	docs    store.DocumentStore
	dialogs store.DialogStore
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewSubmissionService(docs store.DocumentStore, dialogs store.DialogStore, m *metrics.Metrics, log *slog.Logger) *SubmissionService {
	return &SubmissionService{docs: docs, dialogs: dialogs, metrics: m, log: log}
}

// Receive stores a submission, creating the person/organization dialog row
// on first contact and reusing it afterwards. A submission whose document id
// was already stored returns a bad-request error; consumers that retry
// delivery treat that as success.
func (s *SubmissionService) Receive(ctx context.Context, sub models.Submission) (*models.Document, error) {
	exists, err := s.docs.ExistsByDocumentID(ctx, sub.DocumentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "duplicate check failed")
	}
	if exists {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "document %s already received", sub.DocumentID)
	}

	dialog, err := s.dialogs.GetByFnrAndOrgNumber(ctx, sub.Fnr, sub.OrgNumber)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "dialog lookup failed")
	}
	if dialog == nil {
		created, err := s.dialogs.Insert(ctx, sub.ToDialog())
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "dialog insert failed")
		}
		dialog = &created
	}

	stored, err := s.docs.Insert(ctx, sub.ToDocument(*dialog), sub.Content)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "document insert failed")
	}

	s.metrics.DocumentsIngested.Inc()
	s.log.InfoContext(ctx, "document received",
		"document_id", stored.DocumentID, "type", stored.Type, "org_number", dialog.OrgNumber)
	return &stored, nil
}
