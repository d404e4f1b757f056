package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentStatus tracks a document through the delivery pipeline.
type DocumentStatus string

const (
	StatusReceived  DocumentStatus = "RECEIVED"
	StatusPending   DocumentStatus = "PENDING"
	StatusCompleted DocumentStatus = "COMPLETED"
	StatusError     DocumentStatus = "ERROR"
)

// DocumentType is the closed set of document kinds this service distributes.
type DocumentType string

const (
	TypeDialogmote      DocumentType = "DIALOGMOTE"
	TypeOppfolgingsplan DocumentType = "OPPFOLGINGSPLAN"
	TypeUndefined       DocumentType = "UNDEFINED"
)

// ParseDocumentType validates a raw type string.
func ParseDocumentType(raw string) (DocumentType, error) {
	switch DocumentType(raw) {
	case TypeDialogmote, TypeOppfolgingsplan, TypeUndefined:
		return DocumentType(raw), nil
	default:
		return "", fmt.Errorf("unknown document type %q", raw)
	}
}

// DisplayName is the human readable name used in attachment file names.
func (t DocumentType) DisplayName() string {
	switch t {
	case TypeDialogmote:
		return "Dialogmøte"
	case TypeOppfolgingsplan:
		return "Oppfølgingsplan"
	default:
		return "Dokument"
	}
}

// Dialog groups all documents for one (employee, organization) pair. It maps
// to exactly one remote dialog once delivered.
type Dialog struct {
	ID               int64
	Title            string
	Summary          string
	Fnr              string
	OrgNumber        string
	DialogportenUUID *uuid.UUID
	DeletePerformed  *time.Time
	Created          time.Time
	Updated          time.Time
}

// Document is one inbound submission. Immutable after insert except for
// status, read flag, transmission id and timestamps.
type Document struct {
	ID             int64
	DocumentID     uuid.UUID
	Type           DocumentType
	ContentType    string
	Title          string
	Summary        string
	LinkID         uuid.UUID
	Status         DocumentStatus
	IsRead         bool
	Dialog         Dialog
	TransmissionID *uuid.UUID
	Created        time.Time
	Updated        time.Time
}

// Submission is the inbound payload from internal producers (HTTP or Kafka).
type Submission struct {
	DocumentID  uuid.UUID    `json:"documentId"`
	Type        DocumentType `json:"type"`
	Content     []byte       `json:"content"`
	ContentType string       `json:"contentType"`
	Fnr         string       `json:"fnr"`
	FullName    string       `json:"fullName,omitempty"`
	OrgNumber   string       `json:"orgNumber"`
	Title       string       `json:"title"`
	Summary     string       `json:"summary,omitempty"`
}

// ToDocument builds the RECEIVED document row for this submission.
func (s Submission) ToDocument(dialog Dialog) Document {
	return Document{
		DocumentID:  s.DocumentID,
		Type:        s.Type,
		ContentType: s.ContentType,
		Title:       s.Title,
		Summary:     s.Summary,
		LinkID:      uuid.New(),
		Status:      StatusReceived,
		Dialog:      dialog,
	}
}

// ToDialog builds the dialog row created for the first submission of an
// (fnr, orgNumber) pair.
func (s Submission) ToDialog() Dialog {
	nameOrFnr := s.FullName
	if nameOrFnr == "" {
		nameOrFnr = s.Fnr
	}
	titleEnding := ""
	if birthDate, ok := FnrToBirthDate(s.Fnr); ok {
		titleEnding = fmt.Sprintf("(f. %s)", birthDate.Format("02.01.2006"))
	} else if s.FullName != "" {
		titleEnding = fmt.Sprintf("(%s)", s.Fnr)
	}
	title := strings.TrimSpace(fmt.Sprintf("Sykefraværsoppfølging for %s %s", nameOrFnr, titleEnding))
	summary := fmt.Sprintf(
		"Her finner du alle dialogmøtebrev fra Nav og oppfølgingsplaner utarbeidet av nærmeste leder for %s.\n"+
			"Innholdet er tilgjengelig i 4 måneder fra delingsdatoen.", nameOrFnr)
	return Dialog{
		Title:     title,
		Summary:   summary,
		Fnr:       s.Fnr,
		OrgNumber: s.OrgNumber,
	}
}

// FnrToBirthDate extracts a birth date from an identification number carrying
// a ddMMyy prefix. Numbers without a parseable date yield ok == false.
func FnrToBirthDate(fnr string) (time.Time, bool) {
	if len(fnr) < 6 {
		return time.Time{}, false
	}
	birthDate, err := time.Parse("020106", fnr[:6])
	if err != nil {
		return time.Time{}, false
	}
	return birthDate, true
}
