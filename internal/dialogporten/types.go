// Package dialogporten delivers stored documents to the external dialog
// service: payload construction, the serviceowner API client and the
// background send/delete orchestration.
package dialogporten

import (
	"time"

	"github.com/google/uuid"

	"dokumentporten/internal/document/models"
	dErrors "dokumentporten/pkg/domain-errors"
)

// ServiceResource is the Altinn resource every created dialog is filed under.
const ServiceResource = "urn:altinn:resource:nav_syfo_dialog"

const (
	dialogExternalReference = "syfo-dokumentporten"
	transmissionInformation = "Information"
	actorServiceOwner       = "ServiceOwner"
	mediaTypePlainText      = "text/plain"
	languageNorwegian       = "nb"

	consumerTypeAPI = "Api"
	consumerTypeGUI = "Gui"
)

// Party formats an organization number as a dialog party urn.
func Party(orgNumber string) string {
	return "urn:altinn:organization:identifier-no:" + orgNumber
}

type ContentValueItem struct {
	LanguageCode string `json:"languageCode"`
	Value        string `json:"value"`
}

type ContentValue struct {
	Value     []ContentValueItem `json:"value"`
	MediaType string             `json:"mediaType,omitempty"`
}

func plainText(value string) ContentValue {
	return ContentValue{
		Value:     []ContentValueItem{{LanguageCode: languageNorwegian, Value: value}},
		MediaType: mediaTypePlainText,
	}
}

type Content struct {
	Title   ContentValue `json:"title"`
	Summary ContentValue `json:"summary"`
}

type Sender struct {
	ActorType string `json:"actorType"`
}

type AttachmentURL struct {
	URL          string `json:"url"`
	ConsumerType string `json:"consumerType"`
	MediaType    string `json:"mediaType,omitempty"`
}

type Attachment struct {
	DisplayName []ContentValueItem `json:"displayName"`
	ExpiresAt   time.Time          `json:"expiresAt"`
	Urls        []AttachmentURL    `json:"urls"`
}

type Transmission struct {
	ID                uuid.UUID    `json:"id"`
	Type              string       `json:"type"`
	ExtendedType      string       `json:"extendedType"`
	ExternalReference string       `json:"externalReference"`
	Sender            Sender       `json:"sender"`
	Content           Content      `json:"content"`
	Attachments       []Attachment `json:"attachments"`
}

type CreateDialogRequest struct {
	ServiceResource   string         `json:"serviceResource"`
	Party             string         `json:"party"`
	ExternalReference string         `json:"externalReference"`
	IsAPIOnly         bool           `json:"isApiOnly"`
	Content           Content        `json:"content"`
	Transmissions     []Transmission `json:"transmissions"`
}

// NewCreateDialogRequest builds the dialog creation payload for the first
// document delivered to an (fnr, orgNumber) pair. The document rides along
// as the dialog's initial transmission.
func NewCreateDialogRequest(dialog models.Dialog, doc models.Document, publicIngress string, apiOnly bool, expiresAt time.Time) (CreateDialogRequest, error) {
	transmission, err := NewTransmission(doc, publicIngress, expiresAt)
	if err != nil {
		return CreateDialogRequest{}, err
	}
	return CreateDialogRequest{
		ServiceResource:   ServiceResource,
		Party:             Party(dialog.OrgNumber),
		ExternalReference: dialogExternalReference,
		IsAPIOnly:         apiOnly,
		Content: Content{
			Title:   plainText(dialog.Title),
			Summary: plainText(dialog.Summary),
		},
		Transmissions: []Transmission{transmission},
	}, nil
}

// NewTransmission builds the transmission payload for one document. The
// transmission id is minted here, a time-ordered uuid the dialog service
// accepts as the transmission's identity, so it is known before the remote
// call and can be persisted on the document. The producer's document id
// becomes the external reference so deliveries stay traceable across both
// systems.
func NewTransmission(doc models.Document, publicIngress string, expiresAt time.Time) (Transmission, error) {
	displayName, err := attachmentDisplayName(doc)
	if err != nil {
		return Transmission{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Transmission{}, dErrors.Wrap(err, dErrors.CodeInternal, "mint transmission id")
	}
	return Transmission{
		ID:                id,
		Type:              transmissionInformation,
		ExtendedType:      string(doc.Type),
		ExternalReference: doc.DocumentID.String(),
		Sender:            Sender{ActorType: actorServiceOwner},
		Content: Content{
			Title:   plainText(doc.Title),
			Summary: plainText(doc.Summary),
		},
		Attachments: []Attachment{{
			DisplayName: []ContentValueItem{{LanguageCode: languageNorwegian, Value: displayName}},
			ExpiresAt:   expiresAt,
			Urls: []AttachmentURL{
				{
					URL:          publicIngress + "/api/v1/documents/" + doc.LinkID.String() + "/content",
					ConsumerType: consumerTypeAPI,
					MediaType:    doc.ContentType,
				},
				{
					URL:          publicIngress + "/api/v1/gui/documents/" + doc.LinkID.String() + "/content",
					ConsumerType: consumerTypeGUI,
				},
			},
		}},
	}, nil
}

func attachmentDisplayName(doc models.Document) (string, error) {
	switch doc.ContentType {
	case "application/pdf":
		return doc.Type.DisplayName() + ".pdf", nil
	case "application/json":
		return doc.Type.DisplayName() + ".json", nil
	default:
		return "", dErrors.Newf(dErrors.CodeInternal, "unsupported content type %s", doc.ContentType)
	}
}
