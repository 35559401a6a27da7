package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/jo-hoe/profileform/internal/backend/database"
	"github.com/jo-hoe/profileform/internal/backend/uploads"
)

// Upload is a picture received with a submission
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// SubmissionForm holds the raw form values of a submission
type SubmissionForm struct {
	Name    string
	Age     string
	Email   string
	Date    string
	Picture *Upload
}

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	storage         *uploads.DiskStorage
	validate        *validator.Validate
	now             func() time.Time
}

func NewCoreService(config *ServiceConfig) *CoreService {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		slog.Error("failed to initialize database service", "error", err)
		panic(err)
	}
	return &CoreService{
		config:          config,
		databaseService: databaseService,
		storage:         uploads.NewDiskStorage(config.Uploads.Directory, config.Uploads.PublicPath),
		validate:        newSubmissionValidator(),
		now:             time.Now,
	}
}

// Submit validates the form, stores the picture and persists the submission.
// Rejected input is reported as *ValidationError; a reused email as database.ErrDuplicateEmail.
func (service *CoreService) Submit(ctx context.Context, form SubmissionForm) (*database.Submission, error) {
	if err := service.checkPicture(form.Picture); err != nil {
		return nil, err
	}

	submission, err := newSubmission(form)
	if err != nil {
		return nil, err
	}
	if err := validateSubmission(service.validate, submission); err != nil {
		return nil, err
	}

	picturePath, err := service.storage.Save(form.Picture.Filename, form.Picture.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store picture: %w", err)
	}
	submission.Picture = picturePath
	submission.CreatedAt = service.now().UTC()

	if _, err := service.databaseService.CreateSubmission(ctx, submission); err != nil {
		// Do not keep pictures without a record
		if deleteErr := service.storage.Delete(picturePath); deleteErr != nil {
			slog.Error("failed to remove orphaned picture", "picture", picturePath, "error", deleteErr)
		}
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	slog.Info("submission saved", "id", submission.ID, "picture", submission.Picture)
	return submission, nil
}

func (service *CoreService) checkPicture(picture *Upload) error {
	if picture == nil || picture.Content == nil {
		return &ValidationError{"pic", "Picture is required"}
	}
	if !strings.HasPrefix(strings.ToLower(picture.ContentType), "image/") {
		return &ValidationError{"pic", "Only image files are allowed"}
	}
	if picture.Size > service.config.Uploads.MaxFileSize {
		return &ValidationError{"pic", fmt.Sprintf("File size exceeds %s", formatSize(service.config.Uploads.MaxFileSize))}
	}
	return nil
}

func formatSize(bytes int64) string {
	const mb = 1024 * 1024
	if bytes%mb == 0 {
		return fmt.Sprintf("%dMB", bytes/mb)
	}
	return fmt.Sprintf("%d bytes", bytes)
}

// GetSubmissionByEmail returns nil if no submission uses the email
func (service *CoreService) GetSubmissionByEmail(ctx context.Context, email string) (*database.Submission, error) {
	return service.databaseService.GetSubmissionByEmail(ctx, email)
}

// Ready reports whether the database answers
func (service *CoreService) Ready(ctx context.Context) bool {
	return service.databaseService.DoesDatabaseExist(ctx)
}

func (service *CoreService) UploadDirectory() string {
	return service.storage.Directory()
}

func (service *CoreService) UploadPublicPath() string {
	return service.storage.PublicPath()
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	databaseService, err := database.NewDatabase(ctx, config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}
