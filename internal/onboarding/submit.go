package onboarding

import (
	"context"
	"errors"

	"github.com/mirastory/mira/internal/logger"
	"github.com/mirastory/mira/internal/profile"
)

var (
	// ErrNotAtReview is returned when submitting from any step but the last.
	ErrNotAtReview = errors.New("profile can only be submitted from the review step")
	// ErrSubmitInFlight is returned while a previous submission is pending.
	ErrSubmitInFlight = errors.New("profile submission already in progress")
	// ErrCompleted is returned after a submission already succeeded.
	ErrCompleted = errors.New("profile already created")
	// ErrDisposed is returned once the hosting flow has been torn down.
	ErrDisposed = errors.New("wizard has been closed")
	// ErrNoProfile is returned when the service reports success without a profile.
	ErrNoProfile = errors.New("profile service returned no profile")
)

// Submission is the guard returned by BeginSubmit. Only the holder of the
// current submission can clear the submitting flag.
type Submission struct {
	seq     uint64
	Request profile.CreateRequest
}

// Send makes the single CreateChildProfile call for sub. A nil profile
// without an error is reported as ErrNoProfile.
func (sub *Submission) Send(ctx context.Context, creator profile.Creator) (*profile.Profile, error) {
	created, err := creator.CreateChildProfile(ctx, sub.Request)
	if err == nil && created == nil {
		return nil, ErrNoProfile
	}
	return created, err
}

// BeginSubmit marks the wizard as submitting and returns the request to
// send. It fails without side effects when not on the review step, when a
// submission is already pending, after success, or after Dispose.
func (s *State) BeginSubmit() (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.disposed:
		return nil, ErrDisposed
	case s.completed != nil:
		return nil, ErrCompleted
	case s.step != LastStep:
		return nil, ErrNotAtReview
	case s.submitting:
		return nil, ErrSubmitInFlight
	}

	s.submitting = true
	s.submitSeq++
	return &Submission{seq: s.submitSeq, Request: s.requestLocked()}, nil
}

// FinishSubmit records the outcome of sub. The submitting flag is cleared on
// success and failure alike; on success the created profile is kept and the
// flow is complete. Completions for a stale submission or after Dispose are
// ignored and FinishSubmit returns false.
func (s *State) FinishSubmit(sub *Submission, created *profile.Profile, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub == nil || s.disposed || !s.submitting || sub.seq != s.submitSeq {
		return false
	}

	s.submitting = false
	if err == nil {
		s.completed = created
	}
	return true
}

// Submit runs one full submission against creator: BeginSubmit, exactly one
// CreateChildProfile call, FinishSubmit. Failures come back as *SubmitError
// and leave the wizard on the review step with its data intact, so calling
// Submit again retries with the same request.
func (s *State) Submit(ctx context.Context, creator profile.Creator) (*profile.Profile, error) {
	sub, err := s.BeginSubmit()
	if err != nil {
		return nil, err
	}

	logger.Debug("Submitting profile for %q", sub.Request.Name)
	created, callErr := sub.Send(ctx, creator)
	if !s.FinishSubmit(sub, created, callErr) {
		logger.Debug("Dropping submission result for closed wizard")
		return nil, ErrDisposed
	}

	if callErr != nil {
		serr := NewSubmitError(callErr)
		logger.Warn("Profile submission failed (%s): %v", serr.Kind, callErr)
		return nil, serr
	}
	return created, nil
}

// Dispose marks the wizard as torn down. Pending submissions and extractions
// are abandoned; their completions will be ignored.
func (s *State) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
}

// Disposed reports whether Dispose has been called.
func (s *State) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
