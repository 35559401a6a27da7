package backend

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/profileform/internal/backend/database"
	"github.com/jo-hoe/profileform/internal/core"

	"github.com/labstack/echo/v4"
)

const (
	SubmitPath = "/api/submit"
	ProbePath  = "/probe"

	msgSaved          = "Form data saved successfully"
	msgEmailExists    = "Email already exists"
	msgSaveFailed     = "Error saving form data"
	msgInvalidForm    = "Invalid form data"
	msgServiceDown    = "Service unavailable"
	maxMultipartBytes = 32 << 20
)

type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET(ProbePath, s.probeHandler)

	e.POST(SubmitPath, s.submitHandler)

	// Stored pictures are public
	e.Static(s.coreService.UploadPublicPath(), s.coreService.UploadDirectory())
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	if !s.coreService.Ready(ctx.Request().Context()) {
		return ctx.JSON(http.StatusServiceUnavailable, errorResponse{Error: msgServiceDown})
	}
	return ctx.String(http.StatusOK, "API Service is running")
}

func (s *APIService) submitHandler(ctx echo.Context) error {
	if err := ctx.Request().ParseMultipartForm(maxMultipartBytes); err != nil {
		return respondError(ctx, http.StatusBadRequest, msgInvalidForm, err)
	}

	form := core.SubmissionForm{
		Name:  ctx.FormValue("name"),
		Age:   ctx.FormValue("age"),
		Email: ctx.FormValue("email"),
		Date:  ctx.FormValue("date"),
	}

	file, err := ctx.FormFile("pic")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// reported by the core service as a missing picture
	case err != nil:
		return respondError(ctx, http.StatusBadRequest, msgInvalidForm, err)
	default:
		src, err := file.Open()
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, msgSaveFailed, err)
		}
		defer func() {
			if cerr := src.Close(); cerr != nil {
				slog.Error("submitHandler: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
			}
		}()
		form.Picture = &core.Upload{
			Filename:    file.Filename,
			ContentType: file.Header.Get(echo.HeaderContentType),
			Size:        file.Size,
			Content:     src,
		}
	}

	submission, err := s.coreService.Submit(ctx.Request().Context(), form)
	if err != nil {
		var validationErr *core.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return respondError(ctx, http.StatusBadRequest, validationErr.Message, err)
		case errors.Is(err, database.ErrDuplicateEmail):
			return respondError(ctx, http.StatusBadRequest, msgEmailExists, err)
		default:
			message := err.Error()
			if message == "" {
				message = msgSaveFailed
			}
			return respondError(ctx, http.StatusInternalServerError, message, err)
		}
	}

	slog.Debug("submitHandler: submission stored", "id", submission.ID)
	return ctx.JSON(http.StatusCreated, messageResponse{Message: msgSaved})
}

func respondError(ctx echo.Context, status int, message string, err error) error {
	if status >= http.StatusInternalServerError {
		slog.Error("submitHandler: request failed", "status", status, "error", err)
	} else {
		slog.Debug("submitHandler: request rejected", "status", status, "error", err)
	}
	return ctx.JSON(status, errorResponse{Error: message})
}
