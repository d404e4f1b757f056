package texas

// OrganizationID is an organization identifier as issued by Maskinporten,
// in the form authority + number (e.g. "0192:889640782").
type OrganizationID struct {
	Authority string `json:"authority"`
	ID        string `json:"ID"`
}

// AuthorizationDetail is one entry of the authorization_details claim of a
// Maskinporten system-user token.
type AuthorizationDetail struct {
	Type          string         `json:"type"`
	SystemUserOrg OrganizationID `json:"systemuser_org"`
	SystemUserID  []string       `json:"systemuser_id"`
	SystemID      string         `json:"system_id"`
}

// IntrospectionResponse is the claim set returned by the token broker's
// introspection endpoint. Inactive tokens carry only Active and Error.
type IntrospectionResponse struct {
	Active               bool                  `json:"active"`
	Error                string                `json:"error,omitempty"`
	Pid                  string                `json:"pid,omitempty"`
	Acr                  string                `json:"acr,omitempty"`
	Azp                  string                `json:"azp,omitempty"`
	Exp                  int64                 `json:"exp,omitempty"`
	Iat                  int64                 `json:"iat,omitempty"`
	Iss                  string                `json:"iss,omitempty"`
	Jti                  string                `json:"jti,omitempty"`
	Sub                  string                `json:"sub,omitempty"`
	AuthorizationDetails []AuthorizationDetail `json:"authorization_details,omitempty"`
	Consumer             *OrganizationID       `json:"consumer,omitempty"`
	Supplier             *OrganizationID       `json:"supplier,omitempty"`
	Scope                string                `json:"scope,omitempty"`
}

const systemUserGrantType = "urn:altinn:systemuser"

// IsSystemUser reports whether the token carries a delegated Altinn
// system-user grant.
func (r *IntrospectionResponse) IsSystemUser() bool {
	return len(r.AuthorizationDetails) > 0 && r.AuthorizationDetails[0].Type == systemUserGrantType
}

// SystemUserOrganization returns the organization number the system user acts
// for, or "" if the token is not a system-user token.
func (r *IntrospectionResponse) SystemUserOrganization() string {
	if !r.IsSystemUser() {
		return ""
	}
	return r.AuthorizationDetails[0].SystemUserOrg.ID
}

// SystemUserID returns the system-user uuid, or "" if absent.
func (r *IntrospectionResponse) SystemUserID() string {
	if !r.IsSystemUser() || len(r.AuthorizationDetails[0].SystemUserID) == 0 {
		return ""
	}
	return r.AuthorizationDetails[0].SystemUserID[0]
}
