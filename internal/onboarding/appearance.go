package onboarding

import (
	"context"
	"errors"
	"strings"

	"github.com/mirastory/mira/internal/logger"
	"github.com/mirastory/mira/internal/profile"
)

// ErrExtractionInFlight is returned while a previous extraction is pending.
var ErrExtractionInFlight = errors.New("appearance extraction already in progress")

// ErrNoPhoto is returned when extraction is started without a photo path.
var ErrNoPhoto = errors.New("no photo selected")

// Extraction is the guard returned by BeginExtraction.
type Extraction struct {
	seq       uint64
	PhotoPath string
}

// AppearanceError wraps a failed extraction with its display category.
type AppearanceError struct {
	Kind ErrorKind
	Err  error
}

func (e *AppearanceError) Error() string {
	return "extract appearance: " + e.Err.Error()
}

func (e *AppearanceError) Unwrap() error {
	return e.Err
}

// BeginExtraction selects the photo method and marks an extraction as
// pending. Its busy flag is independent of the submission guard.
func (s *State) BeginExtraction(photoPath string) (*Extraction, error) {
	photoPath = strings.TrimSpace(photoPath)
	if photoPath == "" {
		return nil, ErrNoPhoto
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil, ErrDisposed
	}
	if s.extracting {
		return nil, ErrExtractionInFlight
	}

	s.extracting = true
	s.extractSeq++
	s.appearanceMethod = profile.AppearancePhoto
	return &Extraction{seq: s.extractSeq, PhotoPath: photoPath}, nil
}

// FinishExtraction applies the outcome of x. Success stores the description;
// failure reverts the method to unset so the parent can type one instead.
// Stale or post-Dispose completions are ignored and return false.
func (s *State) FinishExtraction(x *Extraction, description string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if x == nil || s.disposed || !s.extracting || x.seq != s.extractSeq {
		return false
	}

	s.extracting = false
	if err != nil {
		s.appearanceMethod = ""
		return true
	}
	s.appearanceMethod = profile.AppearancePhoto
	s.appearanceDescription = description
	return true
}

// ExtractAppearance runs one extraction synchronously through extractor.
func (s *State) ExtractAppearance(ctx context.Context, extractor profile.AppearanceExtractor, photoPath string) error {
	x, err := s.BeginExtraction(photoPath)
	if err != nil {
		return err
	}

	desc, callErr := extractor.ExtractAppearance(ctx, x.PhotoPath)
	if !s.FinishExtraction(x, desc, callErr) {
		return ErrDisposed
	}
	if callErr != nil {
		kind := ClassifyAppearanceError(callErr)
		logger.Warn("Appearance extraction failed (%s): %v", kind, callErr)
		return &AppearanceError{Kind: kind, Err: callErr}
	}
	return nil
}
