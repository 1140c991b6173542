package wizard

import (
	"github.com/mirastory/mira/internal/onboarding"
	"github.com/mirastory/mira/internal/profile"
)

// SubmitResultMsg carries the outcome of a profile creation call.
type SubmitResultMsg struct {
	sub     *onboarding.Submission
	Profile *profile.Profile
	Err     error
}

// ExtractionResultMsg carries the outcome of a photo appearance extraction.
type ExtractionResultMsg struct {
	x           *onboarding.Extraction
	Description string
	Err         error
}

// NotesEditedMsg is sent when the external editor exits.
type NotesEditedMsg struct {
	Content string
	Err     error
}
