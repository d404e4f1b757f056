// Package service holds the document domain logic: access validation for
// external readers and intake of new submissions.
package service

import (
	"context"
	"log/slog"

	"dokumentporten/internal/altinn/pdp"
	"dokumentporten/internal/altinn/tilganger"
	"dokumentporten/internal/auth"
	"dokumentporten/internal/document/models"
	"dokumentporten/internal/ereg"
	dErrors "dokumentporten/pkg/domain-errors"
)

//go:generate mockgen -source=validation.go -destination=mocks/validation_mocks.go -package=mocks

// GrantValidator checks a citizen's access grants for an organization.
type GrantValidator interface {
	ValidateAccessToOrganization(ctx context.Context, user auth.UserPrincipal, orgNumber string, docType models.DocumentType) error
}

// OrganizationGetter resolves an organization and its legal-unit hierarchy.
type OrganizationGetter interface {
	GetOrganization(ctx context.Context, orgNumber string) (*ereg.Organisasjon, error)
}

// ResourceAuthorizer asks the policy decision point for a resource access
// verdict.
type ResourceAuthorizer interface {
	HasAccessToResource(ctx context.Context, subject pdp.Subject, orgNumbers []string, resource string) (bool, error)
}

// ValidationService decides whether a resolved principal may read documents
// belonging to an organization.
type ValidationService struct {
	grants GrantValidator
	orgs   OrganizationGetter
	pdp    ResourceAuthorizer
	log    *slog.Logger
}

func NewValidationService(grants GrantValidator, orgs OrganizationGetter, authorizer ResourceAuthorizer, log *slog.Logger) *ValidationService {
	return &ValidationService{grants: grants, orgs: orgs, pdp: authorizer, log: log}
}

// ValidateDocumentAccess authorizes read access to a single document.
func (v *ValidationService) ValidateDocumentAccess(ctx context.Context, principal auth.Principal, doc *models.Document) error {
	return v.ValidateDocumentsOfTypeAccess(ctx, principal, doc.Dialog.OrgNumber, doc.Type)
}

// ValidateDocumentsOfTypeAccess authorizes access to documents of one type
// within an organization. Dispatch is exhaustive over the principal variants.
func (v *ValidationService) ValidateDocumentsOfTypeAccess(ctx context.Context, principal auth.Principal, orgNumber string, docType models.DocumentType) error {
	switch p := principal.(type) {
	case auth.UserPrincipal:
		return v.grants.ValidateAccessToOrganization(ctx, p, orgNumber, docType)
	case auth.SystemPrincipal:
		return v.validateSystemAccess(ctx, p, orgNumber, docType)
	default:
		return dErrors.New(dErrors.CodeInternal, "unknown principal variant")
	}
}

// validateSystemAccess runs the two mandatory, ordered checks for machine
// callers: the organization hierarchy gate (skipped only when the token's
// organization is the requested one) followed by the policy decision.
func (v *ValidationService) validateSystemAccess(ctx context.Context, principal auth.SystemPrincipal, orgNumber string, docType models.DocumentType) error {
	tokenOrg, err := auth.OrgNumber(principal.Ident)
	if err != nil {
		return err
	}

	if tokenOrg != orgNumber {
		org, err := v.orgs.GetOrganization(ctx, orgNumber)
		if err != nil {
			return err
		}
		if !org.BelongsToLegalUnit(tokenOrg) {
			v.log.WarnContext(ctx, "organization mismatch",
				"token_org", tokenOrg, "requested_org", orgNumber)
			return dErrors.New(dErrors.CodeForbidden, "access denied, invalid organization")
		}
	}

	requiredResource, ok := tilganger.RequiredResourceByDocumentType[docType]
	if !ok {
		return dErrors.Newf(dErrors.CodeInternal, "could not find resource for document type %s", docType)
	}

	ownerOrg, err := auth.OrgNumber(principal.SystemOwner)
	if err != nil {
		return err
	}

	permitted, err := v.pdp.HasAccessToResource(ctx,
		pdp.SystemSubject(principal.SystemUserID),
		[]string{tokenOrg, ownerOrg},
		requiredResource,
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "policy decision failed")
	}
	if !permitted {
		return dErrors.Newf(dErrors.CodeForbidden, "access denied to resource %s for system user %s", requiredResource, principal.SystemUserID)
	}
	return nil
}
