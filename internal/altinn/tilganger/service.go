package tilganger

import (
	"context"
	"log/slog"

	"dokumentporten/internal/auth"
	"dokumentporten/internal/document/models"
	dErrors "dokumentporten/pkg/domain-errors"
)

// RequiredResourceByDocumentType maps each distributable document type to the
// Altinn resource a caller must hold to read it.
var RequiredResourceByDocumentType = map[models.DocumentType]string{
	models.TypeOppfolgingsplan: "nav_syfo_oppfolgingsplan",
	models.TypeDialogmote:      "nav_syfo_dialogmote",
}

// Service validates citizen access to organizations through the
// access-grants collaborator.
type Service struct {
	client Fetcher
	log    *slog.Logger
}

func NewService(client Fetcher, log *slog.Logger) *Service {
	return &Service{client: client, log: log}
}

// ValidateAccessToOrganization checks that the citizen holds the resource
// required for the document type in the given organization. Collaborator
// failures are logged server-side and surfaced as generic internal errors.
func (s *Service) ValidateAccessToOrganization(ctx context.Context, user auth.UserPrincipal, orgNumber string, docType models.DocumentType) error {
	requiredResource, ok := RequiredResourceByDocumentType[docType]
	if !ok {
		return dErrors.Newf(dErrors.CodeInternal, "unknown document type %s", docType)
	}

	grants, err := s.client.FetchTilganger(ctx, user)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to fetch access grants",
			"org_number", orgNumber, "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch access grants")
	}

	if !grants.HasResource(orgNumber, requiredResource) {
		return dErrors.Newf(dErrors.CodeForbidden, "no access to organization %s", orgNumber)
	}
	return nil
}
