package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dokumentporten/internal/auth"
	"dokumentporten/internal/document/models"
	"dokumentporten/internal/document/store"
	dErrors "dokumentporten/pkg/domain-errors"
)

// allowAllValidator approves every request; denyValidator rejects every one.
type allowAllValidator struct{}

func (allowAllValidator) ValidateDocumentAccess(context.Context, auth.Principal, *models.Document) error {
	return nil
}

func (allowAllValidator) ValidateDocumentsOfTypeAccess(context.Context, auth.Principal, string, models.DocumentType) error {
	return nil
}

type denyValidator struct{}

func (denyValidator) ValidateDocumentAccess(context.Context, auth.Principal, *models.Document) error {
	return dErrors.New(dErrors.CodeForbidden, "access denied")
}

func (denyValidator) ValidateDocumentsOfTypeAccess(context.Context, auth.Principal, string, models.DocumentType) error {
	return dErrors.New(dErrors.CodeForbidden, "access denied")
}

func storedDocument(t *testing.T, docs *store.MemoryDocumentStore, dialogs *store.MemoryDialogStore) models.Document {
	t.Helper()
	dialog, err := dialogs.Insert(context.Background(), models.Dialog{
		Title: "Sykefraværsoppfølging", Fnr: "02019012345", OrgNumber: "910000001",
	})
	require.NoError(t, err)
	doc, err := docs.Insert(context.Background(), models.Document{
		DocumentID:  uuid.New(),
		Type:        models.TypeDialogmote,
		ContentType: "application/pdf",
		Title:       "Innkalling",
		LinkID:      uuid.New(),
		Status:      models.StatusReceived,
		Dialog:      dialog,
	}, []byte("pdf-bytes"))
	require.NoError(t, err)
	return doc
}

func TestDocumentService_GetDocument(t *testing.T) {
	dialogs := store.NewMemoryDialogStore()
	docs := store.NewMemoryDocumentStore(dialogs)
	dialogs.BindDocuments(docs)
	doc := storedDocument(t, docs, dialogs)
	svc := NewDocumentService(docs, allowAllValidator{}, slog.New(slog.DiscardHandler))

	found, err := svc.GetDocument(context.Background(), auth.UserPrincipal{Ident: "02019012345"}, doc.LinkID)
	require.NoError(t, err)
	assert.Equal(t, doc.DocumentID, found.DocumentID)

	_, err = svc.GetDocument(context.Background(), auth.UserPrincipal{}, uuid.New())
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestDocumentService_AccessDenied(t *testing.T) {
	dialogs := store.NewMemoryDialogStore()
	docs := store.NewMemoryDocumentStore(dialogs)
	dialogs.BindDocuments(docs)
	doc := storedDocument(t, docs, dialogs)
	svc := NewDocumentService(docs, denyValidator{}, slog.New(slog.DiscardHandler))

	_, err := svc.GetDocument(context.Background(), auth.UserPrincipal{}, doc.LinkID)
	assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))

	_, _, err = svc.GetDocumentContent(context.Background(), auth.UserPrincipal{}, doc.LinkID)
	assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))
}

func TestDocumentService_ContentMarksRead(t *testing.T) {
	dialogs := store.NewMemoryDialogStore()
	docs := store.NewMemoryDocumentStore(dialogs)
	dialogs.BindDocuments(docs)
	doc := storedDocument(t, docs, dialogs)
	svc := NewDocumentService(docs, allowAllValidator{}, slog.New(slog.DiscardHandler))

	returned, content, err := svc.GetDocumentContent(context.Background(), auth.UserPrincipal{}, doc.LinkID)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-bytes"), content)
	assert.True(t, returned.IsRead)

	stored, err := docs.GetByLinkID(context.Background(), doc.LinkID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
}

func TestDocumentService_MarkReadIdempotent(t *testing.T) {
	dialogs := store.NewMemoryDialogStore()
	docs := store.NewMemoryDocumentStore(dialogs)
	dialogs.BindDocuments(docs)
	doc := storedDocument(t, docs, dialogs)
	svc := NewDocumentService(docs, allowAllValidator{}, slog.New(slog.DiscardHandler))

	require.NoError(t, svc.MarkDocumentRead(context.Background(), auth.UserPrincipal{}, doc.LinkID))
	require.NoError(t, svc.MarkDocumentRead(context.Background(), auth.UserPrincipal{}, doc.LinkID))

	stored, err := docs.GetByLinkID(context.Background(), doc.LinkID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
}

func TestDocumentService_ListByOrgAndType(t *testing.T) {
	dialogs := store.NewMemoryDialogStore()
	docs := store.NewMemoryDocumentStore(dialogs)
	dialogs.BindDocuments(docs)
	doc := storedDocument(t, docs, dialogs)
	svc := NewDocumentService(docs, allowAllValidator{}, slog.New(slog.DiscardHandler))

	list, err := svc.ListDocuments(context.Background(), auth.UserPrincipal{}, "910000001", models.TypeDialogmote)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, doc.DocumentID, list[0].DocumentID)

	empty, err := svc.ListDocuments(context.Background(), auth.UserPrincipal{}, "910000001", models.TypeOppfolgingsplan)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
