package models

import "context"

type ProcessesRepo interface {
	// Create registers the scheduling context for a job.
	// At most one process per job may exist.
	Create(ctx context.Context, jobID string, now int64) (*InterviewProcess, error)

	Find(ctx context.Context, id string) (*InterviewProcess, error)

	FindByJob(ctx context.Context, jobID string) (*InterviewProcess, error)
}

type InterviewProcess struct {
	ID        string `json:"id"         bson:"_id,omitempty"`
	JobID     string `json:"job_id"     bson:"job_id"`
	CreatedAt int64  `json:"created_at" bson:"created_at"`
}

const (
	ProcessFieldJobID     = "job_id"
	ProcessFieldCreatedAt = "created_at"
)
