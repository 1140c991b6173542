// Package wizard is the terminal front end for child-profile onboarding.
// It renders one onboarding step at a time and forwards every edit to an
// onboarding.State, which owns the data and the submit guard.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mirastory/mira/internal/i18n"
	"github.com/mirastory/mira/internal/logger"
	"github.com/mirastory/mira/internal/onboarding"
	"github.com/mirastory/mira/internal/profile"
	"github.com/mirastory/mira/internal/tui/theme"
)

// Options configures a wizard run.
type Options struct {
	State     *onboarding.State
	Creator   profile.Creator
	Extractor profile.AppearanceExtractor // nil disables photo extraction
	Localizer *i18n.Localizer
}

// Model is the Bubbletea model for the onboarding wizard.
type Model struct {
	ctx       context.Context
	state     *onboarding.State
	creator   profile.Creator
	extractor profile.AppearanceExtractor
	loc       *i18n.Localizer

	width  int
	height int

	nameInput  textinput.Model
	photoInput textinput.Model
	descInput  textarea.Model
	notesInput textarea.Model

	cursor     int  // list cursor on gender and genre steps
	enterPhoto bool // appearance step is asking for a photo path
	toast      *Toast
	cancelled  bool
	finished   bool
}

// New builds a wizard model around opts.State.
func New(ctx context.Context, opts Options) *Model {
	loc := opts.Localizer
	if loc == nil {
		loc = i18n.New("")
	}

	m := &Model{
		ctx:        ctx,
		state:      opts.State,
		creator:    opts.Creator,
		extractor:  opts.Extractor,
		loc:        loc,
		width:      80,
		height:     24,
		nameInput:  newTextInput(loc.T(i18n.KeyPromptName), profile.MaxNameLength),
		photoInput: newTextInput(loc.T(i18n.KeyPromptPhoto), 0),
		descInput:  newTextArea(4),
		notesInput: newTextArea(5),
		toast:      NewToast(),
	}
	m.syncInputs()
	return m
}

// Run shows the wizard until the profile is created or the user cancels.
// It returns nil without error on cancel.
func Run(ctx context.Context, opts Options) (*profile.Profile, error) {
	if opts.State == nil || opts.Creator == nil {
		return nil, errors.New("wizard: state and creator are required")
	}
	defer opts.State.Dispose()

	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	wm, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if wm.cancelled {
		return nil, nil
	}
	return wm.state.Completed(), nil
}

func newTextInput(placeholder string, limit int) textinput.Model {
	t := theme.Current()
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "› "
	if limit > 0 {
		input.CharLimit = limit
	}
	input.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	input.SetWidth(50)
	return input
}

func newTextArea(height int) textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(height)
	// enter is the wizard's primary action; ctrl+j breaks lines instead.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))

	styles := textarea.DefaultDarkStyles()
	styles.Cursor.Color = lipgloss.Color(theme.Current().Secondary)
	ta.SetStyles(styles)
	return ta
}

// Init focuses the input of the first step.
func (m *Model) Init() tea.Cmd {
	return m.focusCurrent()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeInputs()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		return m, m.updateFocused(msg)

	case SubmitResultMsg:
		return m.handleSubmitResult(msg)

	case ExtractionResultMsg:
		return m, m.handleExtractionResult(msg)

	case NotesEditedMsg:
		if msg.Err != nil {
			logger.Warn("Notes editor failed: %v", msg.Err)
			return m, nil
		}
		m.state.SetNotes(strings.TrimRight(msg.Content, "\n"))
		m.notesInput.SetValue(m.state.ContentFor(onboarding.StepNotes).(onboarding.NotesContent).Notes)
		return m, nil

	case ToastDismissMsg:
		return m, m.toast.Update(msg)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.cancel()
	case "esc":
		if m.enterPhoto {
			m.enterPhoto = false
			m.photoInput.Blur()
			return m, nil
		}
		if m.state.CurrentStep() == onboarding.StepName {
			return m.cancel()
		}
		if m.state.IsSubmitting() {
			return m, nil
		}
		m.toast.Hide()
		m.state.Retreat()
		return m, m.focusCurrent()
	case "enter":
		if m.enterPhoto {
			return m, m.startExtraction()
		}
		return m, m.primaryAction()
	case "r":
		if m.toast.CanRetry() && m.state.CurrentStep() == onboarding.LastStep {
			logger.Info("Retrying profile submission")
			return m, m.startSubmit()
		}
	}

	if cmd, handled := m.handleStepKey(msg); handled {
		return m, cmd
	}
	return m, m.updateFocused(msg)
}

func (m *Model) cancel() (tea.Model, tea.Cmd) {
	m.cancelled = true
	m.state.Dispose()
	return m, tea.Quit
}

// primaryAction advances, or submits on the review step. It does nothing
// while the step cannot proceed, which includes an in-flight submission.
func (m *Model) primaryAction() tea.Cmd {
	if !m.state.CanProceed() {
		return nil
	}
	if m.state.CurrentStep() == onboarding.LastStep {
		return m.startSubmit()
	}
	m.state.Advance()
	return m.focusCurrent()
}

func (m *Model) startSubmit() tea.Cmd {
	sub, err := m.state.BeginSubmit()
	if err != nil {
		logger.Debug("Submit ignored: %v", err)
		return nil
	}
	m.toast.Hide()

	ctx, creator := m.ctx, m.creator
	logger.Info("Submitting child profile %q", sub.Request.Name)
	return func() tea.Msg {
		created, err := sub.Send(ctx, creator)
		return SubmitResultMsg{sub: sub, Profile: created, Err: err}
	}
}

func (m *Model) handleSubmitResult(msg SubmitResultMsg) (tea.Model, tea.Cmd) {
	if !m.state.FinishSubmit(msg.sub, msg.Profile, msg.Err) {
		logger.Debug("Dropped stale submission result")
		return m, nil
	}
	if msg.Err != nil {
		kind := onboarding.ClassifySubmitError(msg.Err)
		logger.Warn("Profile submission failed (%s): %v", kind, msg.Err)
		return m, m.toast.ShowError(m.errorMessage(kind), m.loc.T(i18n.KeyHintRetry), true)
	}
	m.finished = true
	logger.Info("Created child profile %s", msg.Profile.ID)
	return m, tea.Quit
}

func (m *Model) startExtraction() tea.Cmd {
	if m.extractor == nil {
		return nil
	}
	x, err := m.state.BeginExtraction(m.photoInput.Value())
	if err != nil {
		logger.Debug("Extraction ignored: %v", err)
		return nil
	}
	m.enterPhoto = false
	m.photoInput.Blur()

	ctx, extractor := m.ctx, m.extractor
	return func() tea.Msg {
		desc, err := extractor.ExtractAppearance(ctx, x.PhotoPath)
		return ExtractionResultMsg{x: x, Description: desc, Err: err}
	}
}

func (m *Model) handleExtractionResult(msg ExtractionResultMsg) tea.Cmd {
	if !m.state.FinishExtraction(msg.x, msg.Description, msg.Err) {
		return nil
	}
	if msg.Err != nil {
		kind := onboarding.ClassifyAppearanceError(msg.Err)
		logger.Warn("Appearance extraction failed (%s): %v", kind, msg.Err)
		return m.toast.ShowError(m.errorMessage(kind), "", false)
	}
	m.descInput.SetValue(msg.Description)
	if m.state.CurrentStep() == onboarding.StepAppearance {
		return m.descInput.Focus()
	}
	return nil
}

func (m *Model) errorMessage(kind onboarding.ErrorKind) string {
	switch kind {
	case onboarding.ErrorNetwork:
		return m.loc.T(i18n.KeyErrorNetwork)
	case onboarding.ErrorAuth:
		return m.loc.T(i18n.KeyErrorAuth)
	case onboarding.ErrorValidation:
		return m.loc.T(i18n.KeyErrorValidation)
	case onboarding.ErrorFormat:
		return m.loc.T(i18n.KeyErrorFormat)
	default:
		return m.loc.T(i18n.KeyErrorUnknown)
	}
}

// syncInputs copies state values into the text widgets.
func (m *Model) syncInputs() {
	name := m.state.ContentFor(onboarding.StepName).(onboarding.NameContent)
	m.nameInput.SetValue(name.Name)
	appearance := m.state.ContentFor(onboarding.StepAppearance).(onboarding.AppearanceContent)
	m.descInput.SetValue(appearance.Description)
	notes := m.state.ContentFor(onboarding.StepNotes).(onboarding.NotesContent)
	m.notesInput.SetValue(notes.Notes)
}

// focusCurrent focuses the text widget of the current step and blurs the rest.
func (m *Model) focusCurrent() tea.Cmd {
	m.nameInput.Blur()
	m.photoInput.Blur()
	m.descInput.Blur()
	m.notesInput.Blur()
	m.enterPhoto = false
	m.cursor = 0

	switch c := m.state.Content().(type) {
	case onboarding.NameContent:
		return m.nameInput.Focus()
	case onboarding.GenderContent:
		for i, g := range profile.Genders {
			if g == c.Gender {
				m.cursor = i
			}
		}
	case onboarding.AppearanceContent:
		if c.Method == profile.AppearanceManual || c.Description != "" {
			return m.descInput.Focus()
		}
	case onboarding.NotesContent:
		return m.notesInput.Focus()
	}
	return nil
}

// updateFocused forwards msg to the focused text widget and mirrors its
// value into the state.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.enterPhoto:
		m.photoInput, cmd = m.photoInput.Update(msg)
	case m.nameInput.Focused():
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.state.SetName(m.nameInput.Value())
	case m.descInput.Focused():
		m.descInput, cmd = m.descInput.Update(msg)
		m.state.SetAppearanceDescription(m.descInput.Value())
	case m.notesInput.Focused():
		m.notesInput, cmd = m.notesInput.Update(msg)
		m.state.SetNotes(m.notesInput.Value())
	}
	return cmd
}

func (m *Model) resizeInputs() {
	w := m.contentWidth() - 6
	m.nameInput.SetWidth(w)
	m.photoInput.SetWidth(w)
	m.descInput.SetWidth(w)
	m.notesInput.SetWidth(w)
}

func (m *Model) contentWidth() int {
	w := m.width - 10
	if w < 60 {
		w = 60
	}
	if w > 100 {
		w = 100
	}
	return w
}

// Cancelled reports whether the user left the wizard without creating a profile.
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Finished reports whether a profile was created.
func (m *Model) Finished() bool {
	return m.finished
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.render())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render draws the modal: title, progress, step body, buttons, hints and
// the notification line.
func (m *Model) render() string {
	s := theme.Current().S()
	step := m.state.CurrentStep()
	width := m.contentWidth()

	sections := []string{
		s.Title.Render(m.loc.T(i18n.KeyWizardTitle)),
		s.Subtitle.Render(m.loc.T(i18n.KeyStepOf, int(step)+1, onboarding.TotalSteps, m.stepTitle(step))),
		m.renderProgress(),
		"",
		m.renderStep(width - 6),
		"",
	}

	bar := NewButtonBar(navButtons(m.backLabel(), m.primaryLabel(), m.state.CanProceed()))
	bar.SetWidth(width - 6)
	sections = append(sections, bar.Render(), "", m.renderHints())

	if toast := m.toast.View(width - 6); toast != "" {
		sections = append(sections, "", toast)
	}

	return s.Modal.Width(width).Render(strings.Join(sections, "\n"))
}

// renderProgress draws one segment per step, blending the done segments
// from primary to secondary.
func (m *Model) renderProgress() string {
	t := theme.Current()
	current := int(m.state.CurrentStep())
	var b strings.Builder
	for i := 0; i < onboarding.TotalSteps; i++ {
		color := t.BgSurface1
		if i <= current {
			color = theme.InterpolateColor(t.Primary, t.Secondary, float64(i)/float64(onboarding.TotalSteps-1))
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("━━━━"))
		if i < onboarding.TotalSteps-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (m *Model) stepTitle(step onboarding.Step) string {
	switch step {
	case onboarding.StepName:
		return m.loc.T(i18n.KeyStepName)
	case onboarding.StepAge:
		return m.loc.T(i18n.KeyStepAge)
	case onboarding.StepGender:
		return m.loc.T(i18n.KeyStepGender)
	case onboarding.StepAppearance:
		return m.loc.T(i18n.KeyStepAppearance)
	case onboarding.StepGenres:
		return m.loc.T(i18n.KeyStepGenres)
	case onboarding.StepNotes:
		return m.loc.T(i18n.KeyStepNotes)
	default:
		return m.loc.T(i18n.KeyStepReview)
	}
}

func (m *Model) backLabel() string {
	if m.state.CurrentStep() == onboarding.StepName {
		return m.loc.T(i18n.KeyLabelCancel)
	}
	return m.loc.T(i18n.KeyLabelBack)
}

// primaryLabel localizes the state's primary label and swaps in the
// progress text while a submission is pending.
func (m *Model) primaryLabel() string {
	if m.state.IsSubmitting() {
		return m.loc.T(i18n.KeyLabelSubmitting)
	}
	switch m.state.PrimaryActionLabel() {
	case onboarding.LabelCreateProfile:
		return m.loc.T(i18n.KeyLabelCreateProfile)
	case onboarding.LabelSkip:
		return m.loc.T(i18n.KeyLabelSkip)
	default:
		return m.loc.T(i18n.KeyLabelContinue)
	}
}
