package database

import (
	"errors"
	"strings"
	"time"
)

// ErrDuplicateEmail is returned when a submission reuses an email that is already stored
var ErrDuplicateEmail = errors.New("email already exists")

type Submission struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" validate:"required,min=2,max=50"`
	Age       int       `db:"age" json:"age" validate:"min=1,max=120"`
	Email     string    `db:"email" json:"email" validate:"required,simpleemail"`
	Date      time.Time `db:"date" json:"date" validate:"required"`
	Picture   string    `db:"picture" json:"picture"` // public path of the stored file, e.g. /uploads/<name>
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NormalizeEmail is the canonical form emails are stored and compared in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
