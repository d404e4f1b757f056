package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dokumentporten/internal/document/models"
)

// MemoryDocumentStore is an in-memory DocumentStore for tests and local runs.
type MemoryDocumentStore struct {
	mu      sync.Mutex
	nextID  int64
	docs    map[int64]models.Document
	content map[int64][]byte
	dialogs *MemoryDialogStore
}

// NewMemoryDocumentStore creates a memory store. It shares dialog state with
// the given dialog store so document updates can propagate remote ids, the
// same way the Postgres implementation does through its join.
func NewMemoryDocumentStore(dialogs *MemoryDialogStore) *MemoryDocumentStore {
	return &MemoryDocumentStore{
		nextID:  1,
		docs:    make(map[int64]models.Document),
		content: make(map[int64][]byte),
		dialogs: dialogs,
	}
}

func (s *MemoryDocumentStore) Insert(_ context.Context, doc models.Document, content []byte) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.ID = s.nextID
	s.nextID++
	now := time.Now()
	doc.Created = now
	doc.Updated = now
	s.docs[doc.ID] = doc
	s.content[doc.ID] = content
	return doc, nil
}

func (s *MemoryDocumentStore) Update(_ context.Context, doc models.Document) error {
	s.mu.Lock()
	stored, ok := s.docs[doc.ID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	stored.Status = doc.Status
	stored.IsRead = doc.IsRead
	stored.Updated = doc.Updated
	stored.TransmissionID = doc.TransmissionID
	stored.Dialog = doc.Dialog
	s.docs[doc.ID] = stored
	s.mu.Unlock()

	if doc.Dialog.DialogportenUUID != nil && s.dialogs != nil {
		s.dialogs.setRemoteID(doc.Dialog.ID, *doc.Dialog.DialogportenUUID, doc.Dialog.Updated)
	}
	return nil
}

func (s *MemoryDocumentStore) GetByLinkID(_ context.Context, linkID uuid.UUID) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		if doc.LinkID == linkID {
			found := s.withDialog(doc)
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryDocumentStore) GetByStatus(_ context.Context, status models.DocumentStatus, limit int) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []models.Document
	for _, doc := range s.docs {
		if doc.Status == status {
			docs = append(docs, s.withDialog(doc))
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Created.Before(docs[j].Created) })
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *MemoryDocumentStore) GetByOrgAndType(_ context.Context, orgNumber string, docType models.DocumentType) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []models.Document
	for _, doc := range s.docs {
		joined := s.withDialog(doc)
		if joined.Dialog.OrgNumber == orgNumber && joined.Type == docType {
			docs = append(docs, joined)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Created.After(docs[j].Created) })
	return docs, nil
}

func (s *MemoryDocumentStore) GetContent(_ context.Context, documentRowID int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.content[documentRowID]
	if !ok {
		return nil, ErrNotFound
	}
	return content, nil
}

func (s *MemoryDocumentStore) ExistsByDocumentID(_ context.Context, documentID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		if doc.DocumentID == documentID {
			return true, nil
		}
	}
	return false, nil
}

// withDialog refreshes the embedded dialog from the dialog store, mimicking
// the SQL join.
func (s *MemoryDocumentStore) withDialog(doc models.Document) models.Document {
	if s.dialogs == nil {
		return doc
	}
	if dialog, ok := s.dialogs.get(doc.Dialog.ID); ok {
		doc.Dialog = dialog
	}
	return doc
}

func (s *MemoryDocumentStore) resetForDialog(dialogID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, doc := range s.docs {
		if doc.Dialog.ID == dialogID {
			doc.TransmissionID = nil
			doc.Status = models.StatusReceived
			s.docs[id] = doc
		}
	}
}

// MemoryDialogStore is an in-memory DialogStore for tests and local runs.
type MemoryDialogStore struct {
	mu      sync.Mutex
	nextID  int64
	dialogs map[int64]models.Dialog

	// docs is set by BindDocuments so UpdateAfterDelete can reset rows.
	docs *MemoryDocumentStore
}

func NewMemoryDialogStore() *MemoryDialogStore {
	return &MemoryDialogStore{nextID: 1, dialogs: make(map[int64]models.Dialog)}
}

// BindDocuments wires the document store used for post-delete resets.
func (s *MemoryDialogStore) BindDocuments(docs *MemoryDocumentStore) {
	s.docs = docs
}

func (s *MemoryDialogStore) Insert(_ context.Context, dialog models.Dialog) (models.Dialog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dialog.ID = s.nextID
	s.nextID++
	now := time.Now()
	dialog.Created = now
	dialog.Updated = now
	s.dialogs[dialog.ID] = dialog
	return dialog, nil
}

func (s *MemoryDialogStore) GetByFnrAndOrgNumber(_ context.Context, fnr, orgNumber string) (*models.Dialog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, dialog := range s.dialogs {
		if dialog.Fnr == fnr && dialog.OrgNumber == orgNumber {
			found := dialog
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryDialogStore) GetAwaitingDeletion(_ context.Context, limit int) ([]models.Dialog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dialogs []models.Dialog
	for _, dialog := range s.dialogs {
		if dialog.DialogportenUUID != nil && dialog.DeletePerformed == nil {
			dialogs = append(dialogs, dialog)
		}
	}
	sort.Slice(dialogs, func(i, j int) bool { return dialogs[i].ID < dialogs[j].ID })
	if len(dialogs) > limit {
		dialogs = dialogs[:limit]
	}
	return dialogs, nil
}

func (s *MemoryDialogStore) UpdateAfterDelete(_ context.Context, dialog models.Dialog) error {
	s.mu.Lock()
	stored, ok := s.dialogs[dialog.ID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	now := time.Now()
	stored.DialogportenUUID = dialog.DialogportenUUID
	stored.Updated = dialog.Updated
	stored.DeletePerformed = &now
	s.dialogs[dialog.ID] = stored
	s.mu.Unlock()

	if dialog.DialogportenUUID == nil && s.docs != nil {
		s.docs.resetForDialog(dialog.ID)
	}
	return nil
}

func (s *MemoryDialogStore) get(id int64) (models.Dialog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dialog, ok := s.dialogs[id]
	return dialog, ok
}

func (s *MemoryDialogStore) setRemoteID(id int64, remote uuid.UUID, updated time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dialog, ok := s.dialogs[id]; ok {
		dialog.DialogportenUUID = &remote
		dialog.Updated = updated
		s.dialogs[id] = dialog
	}
}
