package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dokumentporten/internal/document/models"
	"dokumentporten/internal/platform/middleware"
	"dokumentporten/internal/transport/http/shared"
	dErrors "dokumentporten/pkg/domain-errors"
)

// Submitter accepts new document submissions.
type Submitter interface {
	Receive(ctx context.Context, sub models.Submission) (*models.Document, error)
}

// InternalHandler serves the cluster-internal submission endpoint. Network
// policy restricts who can reach it; it carries no bearer auth.
type InternalHandler struct {
	logger      *slog.Logger
	submissions Submitter
}

func NewInternal(submissions Submitter, logger *slog.Logger) *InternalHandler {
	return &InternalHandler{logger: logger, submissions: submissions}
}

// Register mounts the internal routes on the chi router.
func (h *InternalHandler) Register(r chi.Router) {
	r.Post("/internal/api/v1/documents", h.handleSubmit)
}

func (h *InternalHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var sub models.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validateSubmission(sub); err != nil {
		shared.WriteError(w, err)
		return
	}

	doc, err := h.submissions.Receive(ctx, sub)
	if err != nil {
		h.logger.ErrorContext(ctx, "document submission failed",
			"document_id", sub.DocumentID,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toDocumentResponse(*doc))
}

func validateSubmission(sub models.Submission) error {
	switch {
	case sub.DocumentID == uuid.Nil:
		return dErrors.New(dErrors.CodeBadRequest, "missing documentId")
	case sub.Fnr == "":
		return dErrors.New(dErrors.CodeBadRequest, "missing fnr")
	case sub.OrgNumber == "":
		return dErrors.New(dErrors.CodeBadRequest, "missing orgNumber")
	case sub.Title == "":
		return dErrors.New(dErrors.CodeBadRequest, "missing title")
	case len(sub.Content) == 0:
		return dErrors.New(dErrors.CodeBadRequest, "missing content")
	case sub.ContentType != "application/pdf" && sub.ContentType != "application/json":
		return dErrors.Newf(dErrors.CodeBadRequest, "unsupported content type %s", sub.ContentType)
	}
	if _, err := models.ParseDocumentType(string(sub.Type)); err != nil {
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown document type %s", sub.Type)
	}
	return nil
}
