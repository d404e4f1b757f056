package ereg

import (
	"context"

	dErrors "dokumentporten/pkg/domain-errors"
)

// Service wraps the registry client with the error mapping the API layer
// expects: upstream failures become generic internal errors, an unknown
// organization is a bad request.
type Service struct {
	client Getter
}

func NewService(client Getter) *Service {
	return &Service{client: client}
}

func (s *Service) GetOrganization(ctx context.Context, orgNumber string) (*Organisasjon, error) {
	org, err := s.client.GetOrganisasjon(ctx, orgNumber)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not get organization")
	}
	if org == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unable to look up the organization")
	}
	return org, nil
}
