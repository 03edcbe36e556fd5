package interviews

import "context"

// The recruitment CRUD side owns applications and jobs; this engine
// only resolves references through these read-only directories.

type ApplicationRef struct {
	ID             string
	JobID          string
	ApplicantName  string
	ApplicantEmail string
}

type ApplicationDirectory interface {
	// Find returns nil when the application id does not resolve.
	Find(ctx context.Context, applicationID string) (*ApplicationRef, error)
}

type JobRef struct {
	ID            string
	Title         string
	ResearchGroup string
}

type JobDirectory interface {
	// Find returns nil when the job id does not resolve.
	Find(ctx context.Context, jobID string) (*JobRef, error)
}

type txnRunner interface {
	RunTxn(ctx context.Context, do func(ctx context.Context) error) error
}
