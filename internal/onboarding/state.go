package onboarding

import (
	"strings"
	"sync"

	"github.com/mirastory/mira/internal/profile"
)

// Options configure a new wizard. OwnerID and PreferredLanguage are passed
// through to the profile service untouched.
type Options struct {
	OwnerID           string
	PreferredLanguage string
	DefaultAge        int // Clamped to the accepted age range; 0 means profile.DefaultAge
}

// State is the wizard record. It is owned by a single host (a TUI model or
// a headless driver); the mutex only exists because a pending submission
// completes on another goroutine.
type State struct {
	mu sync.Mutex

	ownerID  string
	language string

	step Step

	name                  string
	avatar                profile.AvatarType
	age                   int
	gender                profile.Gender
	appearanceMethod      profile.AppearanceMethod
	appearanceDescription string
	genres                map[string]bool
	notes                 string

	submitting bool
	submitSeq  uint64
	extracting bool
	extractSeq uint64
	completed  *profile.Profile
	disposed   bool
}

// New returns a wizard at StepName with every optional field empty.
func New(opts Options) *State {
	age := opts.DefaultAge
	if age == 0 {
		age = profile.DefaultAge
	}
	return &State{
		ownerID:  opts.OwnerID,
		language: opts.PreferredLanguage,
		step:     StepName,
		avatar:   profile.DefaultAvatar,
		age:      clampAge(age),
		genres:   make(map[string]bool),
	}
}

func clampAge(age int) int {
	return max(profile.MinAge, min(profile.MaxAge, age))
}

// CurrentStep returns the current step.
func (s *State) CurrentStep() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// CanProceed reports whether the primary action is enabled on the current
// step. It has no side effects.
func (s *State) CanProceed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canProceedLocked()
}

func (s *State) canProceedLocked() bool {
	switch s.step {
	case StepName:
		return strings.TrimSpace(s.name) != ""
	case StepAge:
		return true
	case StepGender:
		return s.gender != ""
	case StepAppearance, StepGenres, StepNotes:
		return true
	case StepReview:
		return !s.submitting
	}
	return false
}

// Advance moves to the next step when the current one can proceed and is not
// the last. It reports whether the step changed. This is the only way the
// step increases.
func (s *State) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canProceedLocked() || s.step >= LastStep {
		return false
	}
	s.step++
	return true
}

// Retreat moves to the previous step without any validation. Entered data is
// kept. It reports whether the step changed.
func (s *State) Retreat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step <= StepName {
		return false
	}
	s.step--
	return true
}

// HasOptionalData reports whether the current optional step has its own
// field filled in. It only selects the button label.
func (s *State) HasOptionalData() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasOptionalDataLocked()
}

func (s *State) hasOptionalDataLocked() bool {
	switch s.step {
	case StepAppearance:
		return strings.TrimSpace(s.appearanceDescription) != ""
	case StepGenres:
		return len(s.genres) > 0
	case StepNotes:
		return strings.TrimSpace(s.notes) != ""
	}
	return false
}

// PrimaryActionLabel returns LabelCreateProfile on the review step,
// LabelSkip on an empty optional step and LabelContinue otherwise.
func (s *State) PrimaryActionLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.step == LastStep:
		return LabelCreateProfile
	case IsOptionalStep(s.step) && !s.hasOptionalDataLocked():
		return LabelSkip
	default:
		return LabelContinue
	}
}

// IsSubmitting reports whether a profile creation call is in flight.
func (s *State) IsSubmitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// IsExtracting reports whether an appearance extraction is in flight.
func (s *State) IsExtracting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extracting
}

// Completed returns the created profile once a submission succeeded.
func (s *State) Completed() *profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Field mutations. None of them move the current step.

// SetName sets the child's name as typed (trimmed only on submit).
func (s *State) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// SetAvatar selects an avatar. Unknown avatars are ignored.
func (s *State) SetAvatar(a profile.AvatarType) bool {
	if !a.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatar = a
	return true
}

// SetAge sets the age, clamped to the accepted range.
func (s *State) SetAge(age int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.age = clampAge(age)
}

// SetGender sets the gender. The empty value clears it.
func (s *State) SetGender(g profile.Gender) bool {
	if g != "" && !g.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gender = g
	return true
}

// SetAppearanceMethod selects manual or photo entry. The empty value clears it.
func (s *State) SetAppearanceMethod(m profile.AppearanceMethod) bool {
	if !m.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appearanceMethod = m
	return true
}

// SetAppearanceDescription sets the free-text appearance description.
func (s *State) SetAppearanceDescription(desc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appearanceDescription = desc
}

// ToggleGenre flips a catalog genre in or out of the favorites and reports
// whether it is now selected. Unknown genres are ignored.
func (s *State) ToggleGenre(id string) bool {
	if !profile.IsGenre(id) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.genres[id] {
		delete(s.genres, id)
		return false
	}
	s.genres[id] = true
	return true
}

// SelectGenre adds id to the selection. Unlike ToggleGenre it never
// deselects, so repeating an id is harmless.
func (s *State) SelectGenre(id string) bool {
	if !profile.IsGenre(id) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genres[id] = true
	return true
}

// SetNotes sets the notes for the storyteller.
func (s *State) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
}

// Content returns the current step's view of the state.
func (s *State) Content() StepContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contentLocked(s.step)
}

// ContentFor returns the view of an arbitrary step, e.g. for a progress
// sidebar. Invalid steps return nil.
func (s *State) ContentFor(step Step) StepContent {
	if !step.Valid() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contentLocked(step)
}

func (s *State) contentLocked(step Step) StepContent {
	switch step {
	case StepName:
		return NameContent{Name: s.name, Avatar: s.avatar}
	case StepAge:
		return AgeContent{Age: s.age}
	case StepGender:
		return GenderContent{Gender: s.gender}
	case StepAppearance:
		return AppearanceContent{
			Method:      s.appearanceMethod,
			Description: s.appearanceDescription,
			Extracting:  s.extracting,
		}
	case StepGenres:
		return GenresContent{Selected: s.genreListLocked()}
	case StepNotes:
		return NotesContent{Notes: s.notes}
	case StepReview:
		return ReviewContent{Request: s.requestLocked(), Submitting: s.submitting}
	}
	return nil
}

func (s *State) genreListLocked() []string {
	out := make([]string, 0, len(s.genres))
	for _, g := range profile.Genres {
		if s.genres[g] {
			out = append(out, g)
		}
	}
	return out
}

// Request returns the payload a submission would send right now.
func (s *State) Request() profile.CreateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestLocked()
}

func (s *State) requestLocked() profile.CreateRequest {
	return profile.CreateRequest{
		OwnerID:               s.ownerID,
		Name:                  strings.TrimSpace(s.name),
		Age:                   s.age,
		Gender:                s.gender,
		AvatarType:            s.avatar,
		AppearanceMethod:      s.appearanceMethod,
		AppearanceDescription: nonEmpty(s.appearanceDescription),
		FavoriteGenres:        s.genreListLocked(),
		ParentNotes:           nonEmpty(s.notes),
		PreferredLanguage:     s.language,
	}
}

// nonEmpty returns nil for blank text, otherwise a pointer to the trimmed text.
func nonEmpty(text string) *string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}
