package domain

import "errors"

// Severity classifies how the pipeline reacts when a stage run fails.
type Severity int

const (
	// SeverityFatal aborts the pipeline run.
	SeverityFatal Severity = iota
	// SeverityContinue logs the error and keeps running downstream stages.
	SeverityContinue
)

// FailurePolicy maps error kinds to severities. Error kinds not registered
// with Continue are fatal, so a new error path has to be opted in explicitly
// before the pipeline will swallow it.
type FailurePolicy struct {
	continued []error
}

// NewFailurePolicy creates an empty policy where every error is fatal.
func NewFailurePolicy() *FailurePolicy {
	return &FailurePolicy{}
}

// Continue registers error kinds that are logged and survived.
func (p *FailurePolicy) Continue(targets ...error) *FailurePolicy {
	p.continued = append(p.continued, targets...)
	return p
}

// Classify returns the severity for the given error.
func (p *FailurePolicy) Classify(err error) Severity {
	for _, target := range p.continued {
		if errors.Is(err, target) {
			return SeverityContinue
		}
	}
	return SeverityFatal
}

// DefaultFailurePolicy returns the policy the pipeline runs with: transpile
// errors, a bundle that never appears and a bundle that exits non-zero are
// logged and survived; everything else aborts the run.
func DefaultFailurePolicy() *FailurePolicy {
	return NewFailurePolicy().Continue(
		ErrTranspileFailed,
		ErrBundleNotReady,
		ErrBundleRunFailed,
	)
}
