package database

import "context"

type DatabaseService interface {
	CreateDatabase(ctx context.Context) error
	DoesDatabaseExist(ctx context.Context) bool
	Close() error

	// CreateSubmission persists a new submission and returns its generated ID.
	// Returns ErrDuplicateEmail if a submission with the same email already exists.
	CreateSubmission(ctx context.Context, submission *Submission) (string, error)
	// GetSubmissionByEmail returns nil without error if no submission uses the email.
	GetSubmissionByEmail(ctx context.Context, email string) (*Submission, error)
}
