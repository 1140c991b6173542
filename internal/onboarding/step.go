// Package onboarding implements the child-profile creation wizard as a
// framework-independent state machine.
//
// The wizard walks a fixed, linear sequence of seven steps. Steps 0-2 are
// required and gate Advance on their field; steps 3-5 are optional and always
// pass; step 6 is the review step from which the profile is submitted. Views
// read State.Content and PrimaryActionLabel and feed user input back through
// the setters, Advance, Retreat and the submission guards.
package onboarding

// Step is the zero-based position in the wizard.
type Step int

const (
	StepName       Step = iota // Child name and avatar
	StepAge                    // Age picker
	StepGender                 // Gender choice
	StepAppearance             // Appearance description (optional)
	StepGenres                 // Favorite genres (optional)
	StepNotes                  // Notes for the storyteller (optional)
	StepReview                 // Summary and submit
)

// TotalSteps is the fixed number of steps in the wizard.
const TotalSteps = 7

// LastStep is the terminal review step.
const LastStep = Step(TotalSteps - 1)

var stepNames = [TotalSteps]string{
	"name",
	"age",
	"gender",
	"appearance",
	"genres",
	"notes",
	"review",
}

// String returns a stable lowercase identifier for the step.
func (s Step) String() string {
	if s < 0 || int(s) >= TotalSteps {
		return "unknown"
	}
	return stepNames[s]
}

// Valid reports whether s is inside [0, TotalSteps).
func (s Step) Valid() bool {
	return s >= 0 && int(s) < TotalSteps
}

// IsOptionalStep reports whether step may always be passed without data.
// The set is fixed and never derived from the entered values.
func IsOptionalStep(step Step) bool {
	return step == StepAppearance || step == StepGenres || step == StepNotes
}

// Primary action labels. Views localize these; the state machine only
// decides which one applies.
const (
	LabelContinue      = "Continue"
	LabelSkip          = "Skip"
	LabelCreateProfile = "Create Profile"
)
