package storage

import (
	"context"

	"github.com/samims/contactrelay/internal/model"
)

// SubmissionStorage persists contact submissions.
type SubmissionStorage interface {
	Ping(ctx context.Context) error
	Save(ctx context.Context, s model.Submission) (model.StoredSubmission, error)
}
