package database

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestSubmission(email string) *Submission {
	return &Submission{
		Name:      "Ann",
		Age:       30,
		Email:     email,
		Date:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Picture:   "/uploads/1700000000000-abcdefghijklm.jpg",
		CreatedAt: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}

// runDatabaseServiceTests exercises behavior every DatabaseService implementation must share
func runDatabaseServiceTests(t *testing.T, newDB func(t *testing.T) DatabaseService) {
	t.Run("DoesDatabaseExist", func(t *testing.T) {
		ds := newDB(t)
		if !ds.DoesDatabaseExist(context.Background()) {
			t.Fatalf("expected DoesDatabaseExist to return true")
		}
	})

	t.Run("CreateDatabase is idempotent", func(t *testing.T) {
		ds := newDB(t)
		if err := ds.CreateDatabase(context.Background()); err != nil {
			t.Fatalf("second CreateDatabase error: %v", err)
		}
	})

	t.Run("CreateAndGet", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()

		in := newTestSubmission("ann@example.com")
		id, err := ds.CreateSubmission(ctx, in)
		if err != nil {
			t.Fatalf("CreateSubmission error: %v", err)
		}
		if id == "" || in.ID != id {
			t.Fatalf("expected ID to be generated and set, got %q / %q", id, in.ID)
		}

		got, err := ds.GetSubmissionByEmail(ctx, "ann@example.com")
		if err != nil {
			t.Fatalf("GetSubmissionByEmail error: %v", err)
		}
		if got == nil {
			t.Fatal("expected submission, got nil")
		}
		if got.ID != id || got.Name != "Ann" || got.Age != 30 || got.Email != "ann@example.com" {
			t.Errorf("unexpected submission: %+v", got)
		}
		if got.Picture != in.Picture {
			t.Errorf("picture = %q, want %q", got.Picture, in.Picture)
		}
		if !got.Date.Equal(in.Date) {
			t.Errorf("date = %v, want %v", got.Date, in.Date)
		}
		if !got.CreatedAt.Equal(in.CreatedAt) {
			t.Errorf("createdAt = %v, want %v", got.CreatedAt, in.CreatedAt)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		ds := newDB(t)
		got, err := ds.GetSubmissionByEmail(context.Background(), "nobody@example.com")
		if err != nil {
			t.Fatalf("GetSubmissionByEmail error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil for unknown email, got %+v", got)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()

		if _, err := ds.CreateSubmission(ctx, newTestSubmission("ann@example.com")); err != nil {
			t.Fatalf("first CreateSubmission error: %v", err)
		}
		_, err := ds.CreateSubmission(ctx, newTestSubmission("  ANN@Example.com "))
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}

		// A different address is still accepted
		if _, err := ds.CreateSubmission(ctx, newTestSubmission("bob@example.com")); err != nil {
			t.Fatalf("CreateSubmission for other email error: %v", err)
		}
	})

	t.Run("LookupIsCaseInsensitive", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()
		if _, err := ds.CreateSubmission(ctx, newTestSubmission("Mixed@Example.com")); err != nil {
			t.Fatalf("CreateSubmission error: %v", err)
		}
		got, err := ds.GetSubmissionByEmail(ctx, "mixed@example.COM")
		if err != nil || got == nil {
			t.Fatalf("expected submission, got %+v / %v", got, err)
		}
		if got.Email != "mixed@example.com" {
			t.Errorf("expected normalized email, got %q", got.Email)
		}
	})
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ann@Example.COM\t"); got != "ann@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNewDatabase_Unsupported(t *testing.T) {
	if _, err := NewDatabase(context.Background(), "postgres", "whatever"); err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}
