package pdp

import "context"

// Service answers yes/no access questions on top of the raw PDP decisions.
type Service struct {
	client Authorizer
}

func NewService(client Authorizer) *Service {
	return &Service{client: client}
}

// HasAccessToResource reports whether the subject is permitted to access the
// resource in the context of any of the given organizations.
func (s *Service) HasAccessToResource(ctx context.Context, subject Subject, orgNumbers []string, resource string) (bool, error) {
	decision, err := s.client.Authorize(ctx, subject, orgNumbers, resource)
	if err != nil {
		return false, err
	}
	return decision.Permitted(), nil
}
