package frontend

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
)

type State int

const (
	StateIdle State = iota
	StateImageSelected
	StateCropping
	StateCropped
	StateSubmitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateImageSelected:
		return "ImageSelected"
	case StateCropping:
		return "Cropping"
	case StateCropped:
		return "Cropped"
	case StateSubmitted:
		return "Submitted"
	case StateCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrNotImage  = errors.New("Only image files are allowed")
	ErrNoPicture = errors.New("Please upload and crop a picture")
)

// TransitionError is returned when an operation is not allowed in the session's current state
type TransitionError struct {
	Operation string
	State     State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Operation, e.State)
}

// Session tracks one image from selection through cropping to submission.
// A Session is not safe for concurrent use.
type Session struct {
	processor *Processor
	state     State

	sourceName    string
	sourceData    []byte
	source        image.Image
	displayWidth  int
	displayHeight int
	crop          Crop
	completedCrop *Crop
	cropped       *File
}

func NewSession(processor *Processor) *Session {
	if processor == nil {
		processor = NewProcessor()
	}
	return &Session{processor: processor}
}

func (s *Session) State() State {
	return s.state
}

// Crop returns the crop currently shown to the user
func (s *Session) Crop() Crop {
	return s.crop
}

// Cropped returns the last confirmed crop result, nil before Confirm
func (s *Session) Cropped() *File {
	return s.cropped
}

// SelectImage accepts a new source file. Selecting again while cropping starts over.
func (s *Session) SelectImage(name, contentType string, data []byte) error {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return ErrNotImage
	}
	if len(data) == 0 {
		return errors.New("selected file is empty")
	}

	s.reset()
	s.sourceName = name
	s.sourceData = data
	s.transition(StateImageSelected)
	return nil
}

// Load decodes the selected image and shows it at the given displayed size with the default crop.
// A non-positive displayed size means the image is shown at its natural size.
func (s *Session) Load(displayWidth, displayHeight int) error {
	if s.state != StateImageSelected {
		return &TransitionError{"load image", s.state}
	}

	img, err := s.processor.Decode(s.sourceData)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", s.sourceName, err)
	}
	if displayWidth <= 0 || displayHeight <= 0 {
		displayWidth, displayHeight = img.Bounds().Dx(), img.Bounds().Dy()
	}

	s.source = img
	s.displayWidth = displayWidth
	s.displayHeight = displayHeight
	s.crop = DefaultCrop(displayWidth, displayHeight)
	completed := s.crop
	s.completedCrop = &completed
	s.transition(StateCropping)
	return nil
}

// UpdateCrop records a crop change; complete marks the end of a drag.
// Changing the crop after Confirm discards the cropped result.
func (s *Session) UpdateCrop(crop Crop, complete bool) error {
	if s.state != StateCropping && s.state != StateCropped {
		return &TransitionError{"update crop", s.state}
	}
	if err := crop.validate(); err != nil {
		return err
	}
	if err := crop.ToPixels(s.displayWidth, s.displayHeight).validateWithin(s.displayWidth, s.displayHeight); err != nil {
		return err
	}

	s.crop = crop
	if complete {
		completed := crop
		s.completedCrop = &completed
	}
	if s.state == StateCropped {
		s.cropped = nil
		s.transition(StateCropping)
	}
	return nil
}

// Confirm crops the image with the last completed crop
func (s *Session) Confirm() (*File, error) {
	if s.state != StateCropping {
		return nil, &TransitionError{"confirm crop", s.state}
	}
	if s.completedCrop == nil || s.completedCrop.IsEmpty() {
		return nil, ErrNoPicture
	}

	file, err := s.processor.Crop(s.source, s.displayWidth, s.displayHeight, *s.completedCrop)
	if err != nil {
		return nil, err
	}
	s.cropped = file
	s.transition(StateCropped)
	return file, nil
}

// Cancel discards the selected image and any crop
func (s *Session) Cancel() {
	if s.state == StateIdle {
		return
	}
	s.transition(StateCancelled)
	s.reset()
}

// Submit posts the form with the cropped picture. On success the session is cleared;
// on failure it stays Cropped so the user can retry.
func (s *Session) Submit(ctx context.Context, client *FormClient, fields FormFields) (string, error) {
	if s.state != StateCropped || s.cropped == nil {
		return "", ErrNoPicture
	}

	message, err := client.Submit(ctx, fields, s.cropped)
	if err != nil {
		return "", err
	}

	s.transition(StateSubmitted)
	s.reset()
	return message, nil
}

func (s *Session) reset() {
	s.sourceName = ""
	s.sourceData = nil
	s.source = nil
	s.displayWidth = 0
	s.displayHeight = 0
	s.crop = Crop{}
	s.completedCrop = nil
	s.cropped = nil
	s.transition(StateIdle)
}

func (s *Session) transition(to State) {
	if s.state == to {
		return
	}
	slog.Debug("crop session transition", "from", s.state.String(), "to", to.String())
	s.state = to
}
