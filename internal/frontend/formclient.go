package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	SubmitPath = "/api/submit"

	fallbackErrorMessage   = "Submission failed"
	fallbackSuccessMessage = "Form submitted successfully!"
	defaultClientTimeout   = 30 * time.Second
)

// FormFields are the text fields of the profile form
type FormFields struct {
	Name  string
	Age   string
	Email string
	Date  string
}

// SubmitError carries the error message returned by the server
type SubmitError struct {
	Status  int
	Message string
}

func (e *SubmitError) Error() string {
	return e.Message
}

type serverResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// FormClient posts profile forms to the submission endpoint
type FormClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewFormClient(baseURL string, httpClient *http.Client) *FormClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultClientTimeout}
	}
	return &FormClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Submit sends the fields and picture as multipart form and returns the server's message
func (c *FormClient) Submit(ctx context.Context, fields FormFields, picture *File) (string, error) {
	if picture == nil || len(picture.Data) == 0 {
		return "", ErrNoPicture
	}

	body, contentType, err := encodeForm(fields, picture)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SubmitPath, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit form: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Error("failed to close response body", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed serverResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := parsed.Error
		if decodeErr != nil || message == "" {
			message = fallbackErrorMessage
		}
		slog.Debug("form submission rejected", "status", resp.StatusCode, "error", message)
		return "", &SubmitError{Status: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("invalid response from server: %w", decodeErr)
	}
	if parsed.Message == "" {
		return fallbackSuccessMessage, nil
	}
	return parsed.Message, nil
}

func encodeForm(fields FormFields, picture *File) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, field := range []struct{ name, value string }{
		{"name", fields.Name},
		{"age", fields.Age},
		{"email", fields.Email},
		{"date", fields.Date},
	} {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pic"; filename="%s"`, escapeQuotes(picture.Name)))
	header.Set("Content-Type", picture.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create picture part: %w", err)
	}
	if _, err := part.Write(picture.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write picture: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// DisplayMessage is the status line shown after a submission attempt
func DisplayMessage(message string, err error) string {
	if err == nil {
		return message
	}
	var submitErr *SubmitError
	if errors.As(err, &submitErr) {
		return "Error: " + submitErr.Message
	}
	return "Error: " + err.Error()
}
