package domainerrors

import "fmt"

// UpstreamError marks a failed call to an external collaborator. It carries
// the HTTP status returned by the upstream so boundary code can reclassify it,
// while the detail stays out of client-visible messages.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream %s: status %d", e.Op, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstream creates an UpstreamError for the named operation.
func NewUpstream(op string, status int, err error) *UpstreamError {
	return &UpstreamError{Op: op, Status: status, Err: err}
}
