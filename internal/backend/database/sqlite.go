package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" opens its own database, so stay on a single one
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		email TEXT NOT NULL COLLATE NOCASE,
		date TEXT NOT NULL,
		picture TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_email ON submissions (email)`)
	return err
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist(ctx context.Context) bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.PingContext(ctx)
	return err == nil
}

func (s *SQLiteDatabase) CreateSubmission(ctx context.Context, submission *Submission) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO submissions (id, name, age, email, date, picture, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id,
		submission.Name,
		submission.Age,
		NormalizeEmail(submission.Email),
		submission.Date.UTC().Format(sqliteTimeLayout),
		submission.Picture,
		submission.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to insert submission: %w", err)
	}

	submission.ID = id
	return id, nil
}

func (s *SQLiteDatabase) GetSubmissionByEmail(ctx context.Context, email string) (*Submission, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, age, email, date, picture, created_at FROM submissions WHERE email = ?",
		NormalizeEmail(email))

	var submission Submission
	var date, createdAt string
	err := row.Scan(&submission.ID, &submission.Name, &submission.Age, &submission.Email, &date, &submission.Picture, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if submission.Date, err = time.Parse(sqliteTimeLayout, date); err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", date, err)
	}
	if submission.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("invalid stored created_at %q: %w", createdAt, err)
	}
	return &submission, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	// Without extended result codes only the primary code is reported
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
}
