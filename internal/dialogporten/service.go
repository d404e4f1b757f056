package dialogporten

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dokumentporten/internal/document/models"
	"dokumentporten/internal/document/store"
	"dokumentporten/internal/platform/metrics"
	dErrors "dokumentporten/pkg/domain-errors"
)

const (
	defaultBatchSize  = 100
	defaultBatchDelay = 5 * time.Second
)

// Service drains stored documents into the dialog service and drains dialogs
// awaiting remote deletion. Both drains are strictly sequential so a dialog's
// create call always completes before any of its transmissions are appended.
type Service struct {
	client        DialogClient
	docs          store.DocumentStore
	dialogs       store.DialogStore
	metrics       *metrics.Metrics
	log           *slog.Logger
	publicIngress string
	apiOnly       bool

	batchSize  int
	batchDelay time.Duration
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration)
}

func NewService(client DialogClient, docs store.DocumentStore, dialogs store.DialogStore, m *metrics.Metrics, log *slog.Logger, publicIngress string, apiOnly bool) *Service {
	return &Service{
		client:        client,
		docs:          docs,
		dialogs:       dialogs,
		metrics:       m,
		log:           log,
		publicIngress: publicIngress,
		apiOnly:       apiOnly,
		batchSize:     defaultBatchSize,
		batchDelay:    defaultBatchDelay,
		now:           time.Now,
		sleep:         sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// SendPendingDocuments drains documents in RECEIVED state, oldest first.
// Per-document failures are logged and swallowed so one bad document cannot
// stall the queue; the document stays RECEIVED and is retried next cycle.
// Dialog ids assigned during this invocation are remembered in-memory so
// several documents for the same dialog produce one create call.
func (s *Service) SendPendingDocuments(ctx context.Context) error {
	assignedDialogIDs := make(map[int64]uuid.UUID)
	for {
		batch, err := s.docs.GetByStatus(ctx, models.StatusReceived, s.batchSize)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "fetch pending documents")
		}
		for i := range batch {
			if err := s.sendDocument(ctx, &batch[i], assignedDialogIDs); err != nil {
				s.metrics.DocumentSendFailures.Inc()
				s.log.ErrorContext(ctx, "document send failed",
					"document_id", batch[i].DocumentID, "error", err)
			}
		}
		if len(batch) < s.batchSize {
			return nil
		}
		s.sleep(ctx, s.batchDelay)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Service) sendDocument(ctx context.Context, doc *models.Document, assignedDialogIDs map[int64]uuid.UUID) error {
	expiresAt := attachmentExpiry(s.now())

	remoteID := doc.Dialog.DialogportenUUID
	if id, ok := assignedDialogIDs[doc.Dialog.ID]; ok {
		remoteID = &id
	}

	if remoteID == nil {
		req, err := NewCreateDialogRequest(doc.Dialog, *doc, s.publicIngress, s.apiOnly, expiresAt)
		if err != nil {
			return err
		}
		created, err := s.client.CreateDialog(ctx, req)
		if err != nil {
			return err
		}
		assignedDialogIDs[doc.Dialog.ID] = created
		doc.Dialog.DialogportenUUID = &created
		// The embedded transmission carries its own minted id; persist it
		// so the creating document is traceable like any appended one.
		doc.TransmissionID = &req.Transmissions[0].ID
		doc.Status = models.StatusCompleted
		doc.Updated = s.now()
		if err := s.docs.Update(ctx, *doc); err != nil {
			return err
		}
		s.metrics.DialogsCreated.Inc()
		return nil
	}

	transmission, err := NewTransmission(*doc, s.publicIngress, expiresAt)
	if err != nil {
		return err
	}
	transmissionID, err := s.client.AddTransmission(ctx, *remoteID, transmission)
	if err != nil {
		return err
	}
	doc.Dialog.DialogportenUUID = remoteID
	doc.TransmissionID = &transmissionID
	doc.Status = models.StatusCompleted
	doc.Updated = s.now()
	if err := s.docs.Update(ctx, *doc); err != nil {
		return err
	}
	s.metrics.TransmissionsCreated.Inc()
	return nil
}

// DeleteObsoleteDialogs drains dialogs that still hold a remote id and have
// no recorded deletion. Unlike the send drain, any unexpected outcome aborts
// the pass: a dangling remote reference is worse than a stalled delete run.
func (s *Service) DeleteObsoleteDialogs(ctx context.Context) error {
	for {
		batch, err := s.dialogs.GetAwaitingDeletion(ctx, s.batchSize)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "fetch dialogs awaiting deletion")
		}
		for i := range batch {
			if err := s.deleteDialog(ctx, batch[i]); err != nil {
				s.log.ErrorContext(ctx, "dialog delete failed",
					"dialog_id", batch[i].ID, "error", err)
				return err
			}
			s.metrics.DialogsDeleted.Inc()
		}
		if len(batch) < s.batchSize {
			return nil
		}
		s.sleep(ctx, s.batchDelay)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Service) deleteDialog(ctx context.Context, dialog models.Dialog) error {
	status, err := s.client.DeleteDialog(ctx, *dialog.DialogportenUUID)
	if err != nil {
		return err
	}
	switch {
	case status >= 200 && status <= 299:
		dialog.DialogportenUUID = nil
	case status == http.StatusNotFound || status == http.StatusGone:
		// Already gone remotely. The stale remote id is kept so a dialog
		// that once existed remains distinguishable from one never sent.
	default:
		return dErrors.NewUpstream("dialogporten.delete_dialog", status, fmt.Errorf("unexpected status"))
	}
	dialog.Updated = s.now()
	return s.dialogs.UpdateAfterDelete(ctx, dialog)
}

// attachmentExpiry returns the start of the day after now plus four months,
// the retention window granted to attachment links.
func attachmentExpiry(now time.Time) time.Time {
	d := now.AddDate(0, 4, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
