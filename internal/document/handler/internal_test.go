package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dokumentporten/internal/document/models"
	dErrors "dokumentporten/pkg/domain-errors"
	"dokumentporten/pkg/testutil"
)

type fakeSubmitter struct {
	received []models.Submission
	err      error
}

func (f *fakeSubmitter) Receive(_ context.Context, sub models.Submission) (*models.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.received = append(f.received, sub)
	doc := sub.ToDocument(models.Dialog{ID: 1, Fnr: sub.Fnr, OrgNumber: sub.OrgNumber})
	return &doc, nil
}

func newInternalRouter(submitter *fakeSubmitter) chi.Router {
	h := NewInternal(submitter, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func sampleSubmission() models.Submission {
	return models.Submission{
		DocumentID:  uuid.New(),
		Type:        models.TypeDialogmote,
		Content:     []byte("%PDF-1.7"),
		ContentType: "application/pdf",
		Fnr:         "02019012345",
		FullName:    "Ola Nordmann",
		OrgNumber:   "910000001",
		Title:       "Innkalling til dialogmøte",
	}
}

func TestSubmit(t *testing.T) {
	submitter := &fakeSubmitter{}
	router := newInternalRouter(submitter)

	sub := sampleSubmission()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/internal/api/v1/documents", sub)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusCreated)
	require.Len(t, submitter.received, 1)
	assert.Equal(t, sub.DocumentID, submitter.received[0].DocumentID)

	got := testutil.UnmarshalResponse[documentResponse](t, rr)
	assert.Equal(t, sub.DocumentID, got.DocumentID)
	assert.NotEqual(t, uuid.Nil, got.LinkID)
	assert.Equal(t, "910000001", got.OrgNumber)
}

func TestSubmit_Validation(t *testing.T) {
	mutate := map[string]func(*models.Submission){
		"missing documentId":       func(s *models.Submission) { s.DocumentID = uuid.Nil },
		"missing fnr":              func(s *models.Submission) { s.Fnr = "" },
		"missing orgNumber":        func(s *models.Submission) { s.OrgNumber = "" },
		"missing title":            func(s *models.Submission) { s.Title = "" },
		"missing content":          func(s *models.Submission) { s.Content = nil },
		"unsupported content type": func(s *models.Submission) { s.ContentType = "text/html" },
		"unknown document type":    func(s *models.Submission) { s.Type = "SYKMELDING" },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			submitter := &fakeSubmitter{}
			router := newInternalRouter(submitter)

			sub := sampleSubmission()
			fn(&sub)
			req := testutil.NewJSONRequest(t, http.MethodPost, "/internal/api/v1/documents", sub)
			rr := testutil.DoRequest(router, req)

			testutil.AssertStatus(t, rr, http.StatusBadRequest)
			testutil.AssertErrorCode(t, rr, "bad_request")
			assert.Empty(t, submitter.received)
		})
	}
}

func TestSubmit_MalformedBody(t *testing.T) {
	router := newInternalRouter(&fakeSubmitter{})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/internal/api/v1/documents", "not an object")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestSubmit_Duplicate(t *testing.T) {
	sub := sampleSubmission()
	submitter := &fakeSubmitter{err: dErrors.Newf(dErrors.CodeBadRequest, "document %s already received", sub.DocumentID)}
	router := newInternalRouter(submitter)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/internal/api/v1/documents", sub)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	assert.Contains(t, rr.Body.String(), "already received")
}
