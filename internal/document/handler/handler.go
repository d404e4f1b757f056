// Package handler exposes the document HTTP endpoints: the authenticated
// external read API and the cluster-internal submission API.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dokumentporten/internal/auth"
	"dokumentporten/internal/document/models"
	"dokumentporten/internal/platform/metrics"
	"dokumentporten/internal/platform/middleware"
	"dokumentporten/internal/transport/http/shared"
	dErrors "dokumentporten/pkg/domain-errors"
)

// Service defines the document operations the external API serves.
type Service interface {
	GetDocument(ctx context.Context, principal auth.Principal, linkID uuid.UUID) (*models.Document, error)
	GetDocumentContent(ctx context.Context, principal auth.Principal, linkID uuid.UUID) (*models.Document, []byte, error)
	ListDocuments(ctx context.Context, principal auth.Principal, orgNumber string, docType models.DocumentType) ([]models.Document, error)
	MarkDocumentRead(ctx context.Context, principal auth.Principal, linkID uuid.UUID) error
}

// Handler serves the external document API.
type Handler struct {
	logger   *slog.Logger
	docs     Service
	metrics  *metrics.Metrics
	resolver middleware.PrincipalResolver
}

func New(docs Service, resolver middleware.PrincipalResolver, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		docs:     docs,
		metrics:  m,
		resolver: resolver,
	}
}

// Register mounts the authenticated external routes under /api. Common
// middleware (recovery, request id, logging) is applied by the root router.
func (h *Handler) Register(r chi.Router) {
	docRouter := chi.NewRouter()
	docRouter.Use(middleware.RequireAuth(h.resolver, h.metrics, h.logger))
	docRouter.Get("/v1/documents", h.handleListDocuments)
	docRouter.Get("/v1/documents/{linkID}", h.handleGetDocument)
	docRouter.Get("/v1/documents/{linkID}/content", h.handleGetContent(false))
	docRouter.Put("/v1/documents/{linkID}/read", h.handleMarkRead)
	docRouter.Get("/v1/gui/documents/{linkID}/content", h.handleGetContent(true))

	r.Mount("/api", docRouter)
}

// documentResponse is the metadata view of a document. Content is served
// separately.
type documentResponse struct {
	DocumentID uuid.UUID           `json:"documentId"`
	Type       models.DocumentType `json:"type"`
	Title      string              `json:"title"`
	Summary    string              `json:"summary,omitempty"`
	LinkID     uuid.UUID           `json:"linkId"`
	OrgNumber  string              `json:"orgNumber"`
	IsRead     bool                `json:"isRead"`
	Created    time.Time           `json:"created"`
	Updated    time.Time           `json:"updated"`
}

func toDocumentResponse(doc models.Document) documentResponse {
	return documentResponse{
		DocumentID: doc.DocumentID,
		Type:       doc.Type,
		Title:      doc.Title,
		Summary:    doc.Summary,
		LinkID:     doc.LinkID,
		OrgNumber:  doc.Dialog.OrgNumber,
		IsRead:     doc.IsRead,
		Created:    doc.Created,
		Updated:    doc.Updated,
	}
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	orgNumber := r.URL.Query().Get("orgNumber")
	if orgNumber == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing orgNumber parameter"))
		return
	}
	docType, err := models.ParseDocumentType(r.URL.Query().Get("type"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown document type"))
		return
	}

	docs, err := h.docs.ListDocuments(ctx, principal, orgNumber, docType)
	if err != nil {
		h.logError(ctx, "list documents failed", err)
		shared.WriteError(w, err)
		return
	}
	response := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		response = append(response, toDocumentResponse(doc))
	}
	shared.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, linkID, ok := h.requestIdentity(w, r)
	if !ok {
		return
	}
	doc, err := h.docs.GetDocument(ctx, principal, linkID)
	if err != nil {
		h.logError(ctx, "get document failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toDocumentResponse(*doc))
}

// handleGetContent serves the stored bytes. The GUI variant renders inline
// in the browser; the API variant downloads as an attachment.
func (h *Handler) handleGetContent(inline bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		principal, linkID, ok := h.requestIdentity(w, r)
		if !ok {
			return
		}
		doc, content, err := h.docs.GetDocumentContent(ctx, principal, linkID)
		if err != nil {
			h.logError(ctx, "get document content failed", err)
			shared.WriteError(w, err)
			return
		}

		filename := doc.Type.DisplayName()
		switch doc.ContentType {
		case "application/pdf":
			filename += ".pdf"
		case "application/json":
			filename += ".json"
		}
		disposition := `attachment; filename="` + filename + `"`
		if inline {
			disposition = "inline"
		}
		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Content-Disposition", disposition)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, linkID, ok := h.requestIdentity(w, r)
	if !ok {
		return
	}
	if err := h.docs.MarkDocumentRead(ctx, principal, linkID); err != nil {
		h.logError(ctx, "mark document read failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requestIdentity extracts the authenticated principal and the link id path
// parameter, writing the error response itself when either is missing.
func (h *Handler) requestIdentity(w http.ResponseWriter, r *http.Request) (auth.Principal, uuid.UUID, bool) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return nil, uuid.Nil, false
	}
	linkID, err := uuid.Parse(chi.URLParam(r, "linkID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document link id"))
		return nil, uuid.Nil, false
	}
	return principal, linkID, true
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"error", err,
		"request_id", middleware.GetRequestID(ctx),
	)
}
