package i18n

// Message keys. Every key must exist in the base locale.
const (
	KeyWizardTitle = "wizard.title"
	KeyStepOf      = "wizard.step_of"

	KeyStepName       = "step.name"
	KeyStepAge        = "step.age"
	KeyStepGender     = "step.gender"
	KeyStepAppearance = "step.appearance"
	KeyStepGenres     = "step.genres"
	KeyStepNotes      = "step.notes"
	KeyStepReview     = "step.review"

	KeyPromptName       = "prompt.name"
	KeyPromptAge        = "prompt.age"
	KeyPromptGender     = "prompt.gender"
	KeyPromptAppearance = "prompt.appearance"
	KeyPromptPhoto      = "prompt.photo"
	KeyPromptGenres     = "prompt.genres"
	KeyPromptNotes      = "prompt.notes"
	KeyPromptReview     = "prompt.review"

	KeyLabelBack          = "label.back"
	KeyLabelCancel        = "label.cancel"
	KeyLabelContinue      = "label.continue"
	KeyLabelSkip          = "label.skip"
	KeyLabelCreateProfile = "label.create_profile"
	KeyLabelSubmitting    = "label.submitting"
	KeyLabelExtracting    = "label.extracting"

	KeyErrorNetwork    = "error.network"
	KeyErrorAuth       = "error.auth"
	KeyErrorValidation = "error.validation"
	KeyErrorFormat     = "error.format"
	KeyErrorUnknown    = "error.unknown"
	KeyHintRetry       = "hint.retry"

	KeyCreated = "result.created"
)
