package onboarding

import "github.com/mirastory/mira/internal/profile"

// StepContent is the closed set of per-step views of the wizard state.
// Each variant carries only the fields its step edits, so renderers switch on
// the type instead of on step numbers.
type StepContent interface {
	Step() Step
}

// NameContent is the content of StepName.
type NameContent struct {
	Name   string
	Avatar profile.AvatarType
}

// AgeContent is the content of StepAge.
type AgeContent struct {
	Age int
}

// GenderContent is the content of StepGender. Gender is empty until chosen.
type GenderContent struct {
	Gender profile.Gender
}

// AppearanceContent is the content of StepAppearance.
type AppearanceContent struct {
	Method      profile.AppearanceMethod
	Description string
	Extracting  bool
}

// GenresContent is the content of StepGenres. Selected is in catalog order.
type GenresContent struct {
	Selected []string
}

// NotesContent is the content of StepNotes.
type NotesContent struct {
	Notes string
}

// ReviewContent is the content of StepReview: the exact request that
// submitting would send.
type ReviewContent struct {
	Request    profile.CreateRequest
	Submitting bool
}

func (NameContent) Step() Step       { return StepName }
func (AgeContent) Step() Step        { return StepAge }
func (GenderContent) Step() Step     { return StepGender }
func (AppearanceContent) Step() Step { return StepAppearance }
func (GenresContent) Step() Step     { return StepGenres }
func (NotesContent) Step() Step      { return StepNotes }
func (ReviewContent) Step() Step     { return StepReview }
