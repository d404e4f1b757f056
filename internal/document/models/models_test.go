package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFnrToBirthDate(t *testing.T) {
	t.Run("parses ddMMyy prefix", func(t *testing.T) {
		birthDate, ok := FnrToBirthDate("02019012345")
		require.True(t, ok)
		assert.Equal(t, time.Date(1990, time.January, 2, 0, 0, 0, 0, time.UTC), birthDate)
	})

	t.Run("rejects impossible date", func(t *testing.T) {
		_, ok := FnrToBirthDate("32139012345")
		assert.False(t, ok)
	})

	t.Run("rejects short input", func(t *testing.T) {
		_, ok := FnrToBirthDate("0201")
		assert.False(t, ok)
	})
}

func TestSubmissionToDialog(t *testing.T) {
	t.Run("title with name and birth date", func(t *testing.T) {
		dialog := Submission{Fnr: "02019012345", FullName: "Kari Nordmann", OrgNumber: "910000001"}.ToDialog()
		assert.Equal(t, "Sykefraværsoppfølging for Kari Nordmann (f. 02.01.1990)", dialog.Title)
		assert.Contains(t, dialog.Summary, "Kari Nordmann")
		assert.Equal(t, "910000001", dialog.OrgNumber)
	})

	t.Run("falls back to fnr when name is missing", func(t *testing.T) {
		dialog := Submission{Fnr: "02019012345", OrgNumber: "910000001"}.ToDialog()
		assert.Equal(t, "Sykefraværsoppfølging for 02019012345 (f. 02.01.1990)", dialog.Title)
	})

	t.Run("synthetic id without parseable date", func(t *testing.T) {
		dialog := Submission{Fnr: "99999912345", FullName: "Kari Nordmann"}.ToDialog()
		assert.Equal(t, "Sykefraværsoppfølging for Kari Nordmann (99999912345)", dialog.Title)
	})
}

func TestSubmissionToDocument(t *testing.T) {
	sub := Submission{
		DocumentID:  uuid.New(),
		Type:        TypeOppfolgingsplan,
		ContentType: "application/json",
		Title:       "Oppfølgingsplan",
		Fnr:         "02019012345",
		OrgNumber:   "910000001",
	}
	dialog := Dialog{ID: 42}

	doc := sub.ToDocument(dialog)
	assert.Equal(t, sub.DocumentID, doc.DocumentID)
	assert.Equal(t, StatusReceived, doc.Status)
	assert.Equal(t, int64(42), doc.Dialog.ID)
	assert.NotEqual(t, uuid.Nil, doc.LinkID)
	assert.NotEqual(t, sub.DocumentID, doc.LinkID, "public link id must not leak the natural id")
}

func TestParseDocumentType(t *testing.T) {
	for _, valid := range []string{"DIALOGMOTE", "OPPFOLGINGSPLAN", "UNDEFINED"} {
		parsed, err := ParseDocumentType(valid)
		assert.NoError(t, err)
		assert.Equal(t, DocumentType(valid), parsed)
	}
	_, err := ParseDocumentType("NOTAT")
	assert.Error(t, err)
}

func TestDocumentTypeDisplayName(t *testing.T) {
	assert.Equal(t, "Dialogmøte", TypeDialogmote.DisplayName())
	assert.Equal(t, "Oppfølgingsplan", TypeOppfolgingsplan.DisplayName())
	assert.Equal(t, "Dokument", TypeUndefined.DisplayName())
}
