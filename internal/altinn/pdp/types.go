package pdp

import "encoding/json"

// Decision is the outcome of a policy evaluation.
type Decision string

const (
	DecisionPermit        Decision = "Permit"
	DecisionDeny          Decision = "Deny"
	DecisionNotApplicable Decision = "NotApplicable"
	DecisionIndeterminate Decision = "Indeterminate"
)

// Subject identifies who is asking for access. The attribute id encodes the
// subject kind, so the set of constructors below is the closed variant set.
type Subject struct {
	AttributeID string
	ID          string
}

// PersonSubject is an individual identified by national identity number.
func PersonSubject(id string) Subject {
	return Subject{AttributeID: "urn:altinn:person:identifier-no", ID: id}
}

// SystemSubject is a registered system user identified by uuid.
func SystemSubject(id string) Subject {
	return Subject{AttributeID: "urn:altinn:systemuser:uuid", ID: id}
}

// Request is the XACML-JSON request envelope the PDP expects.
type Request struct {
	Request xacmlRequest `json:"request"`
}

type xacmlRequest struct {
	ReturnPolicyIDList bool            `json:"returnPolicyIdList"`
	AccessSubject      []xacmlCategory `json:"accessSubject"`
	Action             []xacmlCategory `json:"action"`
	Resource           []xacmlCategory `json:"resource"`
}

type xacmlCategory struct {
	Attribute []xacmlAttribute `json:"attribute"`
}

type xacmlAttribute struct {
	AttributeID string `json:"attributeId"`
	Value       string `json:"value"`
	DataType    string `json:"dataType,omitempty"`
}

func (r Request) String() string {
	out, _ := json.Marshal(r)
	return string(out)
}

// NewRequest builds an authorization request asking whether the subject may
// access the named resource in the context of each candidate organization.
func NewRequest(subject Subject, orgNumbers []string, resource string) Request {
	resources := make([]xacmlCategory, 0, len(orgNumbers))
	for _, orgNumber := range dedupe(orgNumbers) {
		resources = append(resources, xacmlCategory{
			Attribute: []xacmlAttribute{
				{AttributeID: "urn:altinn:resource", Value: resource},
				{AttributeID: "urn:altinn:organization:identifier-no", Value: orgNumber},
			},
		})
	}
	return Request{
		Request: xacmlRequest{
			ReturnPolicyIDList: true,
			AccessSubject: []xacmlCategory{{
				Attribute: []xacmlAttribute{
					{AttributeID: subject.AttributeID, Value: subject.ID},
				},
			}},
			Action: []xacmlCategory{{
				Attribute: []xacmlAttribute{
					{
						AttributeID: "urn:oasis:names:tc:xacml:1.0:action:action-id",
						Value:       "access",
						DataType:    "http://www.w3.org/2001/XMLSchema#string",
					},
				},
			}},
			Resource: resources,
		},
	}
}

// Response is the PDP's decision list, one entry per resource category.
type Response struct {
	Response []DecisionResult `json:"response"`
}

type DecisionResult struct {
	Decision Decision `json:"decision"`
}

// Permitted reports whether the first decision is Permit.
func (r *Response) Permitted() bool {
	return len(r.Response) > 0 && r.Response[0].Decision == DecisionPermit
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
