package wizard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/mirastory/mira/internal/i18n"
	"github.com/mirastory/mira/internal/onboarding"
	"github.com/mirastory/mira/internal/profile"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.Writer.Profile = colorprofile.Ascii
}

type stubCreator struct {
	mu    sync.Mutex
	err   error
	calls []profile.CreateRequest
}

func (s *stubCreator) CreateChildProfile(ctx context.Context, req profile.CreateRequest) (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &profile.Profile{ID: "p-1", Name: req.Name, OwnerID: req.OwnerID}, nil
}

type stubExtractor struct {
	desc string
	err  error
}

func (s *stubExtractor) ExtractAppearance(ctx context.Context, photoPath string) (string, error) {
	return s.desc, s.err
}

func newTestModel(t *testing.T, creator profile.Creator, extractor profile.AppearanceExtractor) *Model {
	t.Helper()
	state := onboarding.New(onboarding.Options{OwnerID: "parent-1", PreferredLanguage: "en"})
	m := New(context.Background(), Options{
		State:     state,
		Creator:   creator,
		Extractor: extractor,
		Localizer: i18n.New("en"),
	})
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func press(m *Model, msg tea.KeyPressMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		press(m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

var (
	keyEnter = tea.KeyPressMsg{Code: tea.KeyEnter}
	keyEsc   = tea.KeyPressMsg{Code: tea.KeyEscape}
	keyDown  = tea.KeyPressMsg{Code: tea.KeyDown}
	keyUp    = tea.KeyPressMsg{Code: tea.KeyUp}
	keySpace = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	keyCtrlC = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	keyR     = tea.KeyPressMsg{Code: 'r', Text: "r"}
)

// walkToReview fills the required steps and skips the optional ones.
func walkToReview(t *testing.T, m *Model) {
	t.Helper()
	typeText(m, "Mia")
	press(m, keyEnter)
	press(m, keyEnter)
	press(m, keyDown)
	press(m, keySpace)
	press(m, keyEnter)
	press(m, keyEnter)
	press(m, keyEnter)
	press(m, keyEnter)
	require.Equal(t, onboarding.StepReview, m.state.CurrentStep())
}

func rendered(m *Model) string {
	return ansi.Strip(m.render())
}

func TestNameStep_RequiresName(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, nil)

	press(m, keyEnter)
	require.Equal(t, onboarding.StepName, m.state.CurrentStep())

	typeText(m, "Mia")
	require.Equal(t, "Mia", m.state.Request().Name)
	press(m, keyEnter)
	require.Equal(t, onboarding.StepAge, m.state.CurrentStep())
}

func TestNameStep_ArrowsCycleAvatar(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, nil)

	press(m, keyDown)
	require.Equal(t, profile.Avatars[1], m.state.Request().AvatarType)
	press(m, keyUp)
	press(m, keyUp)
	require.Equal(t, profile.Avatars[len(profile.Avatars)-1], m.state.Request().AvatarType)
}

func TestEscOnFirstStepCancels(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, nil)

	cmd := press(m, keyEsc)
	require.True(t, m.Cancelled())
	require.True(t, m.state.Disposed())
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCtrlCCancelsFromAnyStep(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, nil)
	typeText(m, "Mia")
	press(m, keyEnter)

	cmd := press(m, keyCtrlC)
	require.True(t, m.Cancelled())
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEscRetreatsAndKeepsData(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, nil)
	typeText(m, "Mia")
	press(m, keyEnter)
	press(m, tea.KeyPressMsg{Code: tea.KeyRight})
	require.Equal(t, 6, m.state.Request().Age)

	press(m, keyEsc)
	require.Equal(t, onboarding.StepName, m.state.CurrentStep())
	require.Equal(t, "Mia", m.nameInput.Value())
	require.Equal(t, 6, m.state.Request().Age)
}

func TestGenderStep_SpaceSelects(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, nil)
	typeText(m, "Mia")
	press(m, keyEnter)
	press(m, keyEnter)

	press(m, keyEnter)
	require.Equal(t, onboarding.StepGender, m.state.CurrentStep(), "no gender chosen yet")

	press(m, keyDown)
	press(m, keySpace)
	require.Equal(t, profile.GenderGirl, m.state.Request().Gender)
	press(m, keyEnter)
	require.Equal(t, onboarding.StepAppearance, m.state.CurrentStep())
}

func TestGenresStep_LabelFollowsSelection(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, nil)
	walkToReview(t, m)
	press(m, keyEsc)
	press(m, keyEsc)
	require.Equal(t, onboarding.StepGenres, m.state.CurrentStep())

	require.Contains(t, rendered(m), "Skip")
	press(m, keySpace)
	require.Equal(t, []string{profile.Genres[0]}, m.state.Request().FavoriteGenres)
	require.Contains(t, rendered(m), "Continue")
}

func TestSubmit_DisablesPrimaryWhileInFlight(t *testing.T) {
	creator := &stubCreator{}
	m := newTestModel(t, creator, nil)
	walkToReview(t, m)
	require.Contains(t, rendered(m), "Create Profile")

	cmd := press(m, keyEnter)
	require.NotNil(t, cmd)
	require.True(t, m.state.IsSubmitting())
	require.Contains(t, rendered(m), "Creating…")

	require.Nil(t, press(m, keyEnter), "second press does nothing")

	msg := cmd()
	_, quit := m.Update(msg)
	require.True(t, m.Finished())
	require.IsType(t, tea.QuitMsg{}, quit())
	require.Len(t, creator.calls, 1)
	require.Equal(t, "p-1", m.state.Completed().ID)
}

func TestSubmit_FailureShowsRetry(t *testing.T) {
	creator := &stubCreator{err: &profile.Error{Kind: profile.KindNetwork, Err: errors.New("nats: no responders")}}
	m := newTestModel(t, creator, nil)
	walkToReview(t, m)

	cmd := press(m, keyEnter)
	m.Update(cmd())

	require.False(t, m.state.IsSubmitting())
	require.Equal(t, onboarding.StepReview, m.state.CurrentStep())
	require.True(t, m.toast.CanRetry())
	out := rendered(m)
	require.Contains(t, out, "Couldn't reach the story service")
	require.Contains(t, out, "press r to retry")

	creator.err = nil
	retry := press(m, keyR)
	require.NotNil(t, retry)
	m.Update(retry())

	require.True(t, m.Finished())
	require.Len(t, creator.calls, 2)
	require.Equal(t, creator.calls[0], creator.calls[1])
}

func TestSubmit_EscIgnoredWhileInFlight(t *testing.T) {
	creator := &stubCreator{err: errors.New("connection refused")}
	m := newTestModel(t, creator, nil)
	walkToReview(t, m)

	cmd := press(m, keyEnter)
	require.Nil(t, press(m, keyEsc))
	require.Equal(t, onboarding.StepReview, m.state.CurrentStep())

	m.Update(cmd())
	require.Equal(t, onboarding.StepReview, m.state.CurrentStep())
	require.True(t, m.toast.CanRetry())

	creator.err = nil
	retry := press(m, keyR)
	require.NotNil(t, retry)
	m.Update(retry())
	require.True(t, m.Finished())
	require.Len(t, creator.calls, 2)
	require.Equal(t, creator.calls[0], creator.calls[1])
}

type nilCreator struct{}

func (nilCreator) CreateChildProfile(ctx context.Context, req profile.CreateRequest) (*profile.Profile, error) {
	return nil, nil
}

func TestSubmit_NilProfileShowsError(t *testing.T) {
	m := newTestModel(t, nilCreator{}, nil)
	walkToReview(t, m)

	cmd := press(m, keyEnter)
	require.NotPanics(t, func() { m.Update(cmd()) })
	require.False(t, m.Finished())
	require.Equal(t, onboarding.StepReview, m.state.CurrentStep())
	require.True(t, m.toast.CanRetry())
}

func TestSubmit_LateResultAfterCancelIsDropped(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, nil)
	walkToReview(t, m)

	cmd := press(m, keyEnter)
	press(m, keyCtrlC)
	m.Update(cmd())

	require.False(t, m.Finished())
	require.Nil(t, m.state.Completed())
}

func TestAppearance_PhotoExtraction(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, &stubExtractor{desc: "red hair, freckles"})
	typeText(m, "Mia")
	press(m, keyEnter)
	press(m, keyEnter)
	press(m, keySpace)
	press(m, keyEnter)
	require.Equal(t, onboarding.StepAppearance, m.state.CurrentStep())

	press(m, tea.KeyPressMsg{Code: 'p', Text: "p"})
	require.True(t, m.enterPhoto)
	typeText(m, "/tmp/mia.png")
	cmd := press(m, keyEnter)
	require.NotNil(t, cmd)
	require.True(t, m.state.IsExtracting())
	require.Contains(t, rendered(m), "Reading photo")

	m.Update(cmd())
	require.False(t, m.state.IsExtracting())
	c := m.state.Content().(onboarding.AppearanceContent)
	require.Equal(t, profile.AppearancePhoto, c.Method)
	require.Equal(t, "red hair, freckles", c.Description)
	require.Equal(t, "red hair, freckles", m.descInput.Value())
}

func TestAppearance_ExtractionFailureShowsToast(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, &stubExtractor{err: profile.ErrUnsupportedPhoto})
	typeText(m, "Mia")
	press(m, keyEnter)
	press(m, keyEnter)
	press(m, keySpace)
	press(m, keyEnter)

	press(m, tea.KeyPressMsg{Code: 'p', Text: "p"})
	typeText(m, "/tmp/notes.txt")
	m.Update(press(m, keyEnter)())

	require.Equal(t, profile.AppearanceMethod(""), m.state.Content().(onboarding.AppearanceContent).Method)
	require.True(t, m.toast.IsVisible())
	require.False(t, m.toast.CanRetry())
	require.Contains(t, rendered(m), "photo format")
}

func TestAppearance_ManualTyping(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, nil)
	typeText(m, "Mia")
	press(m, keyEnter)
	press(m, keyEnter)
	press(m, keySpace)
	press(m, keyEnter)

	press(m, tea.KeyPressMsg{Code: 'p', Text: "p"})
	require.False(t, m.enterPhoto, "photo is unavailable without an extractor")

	press(m, tea.KeyPressMsg{Code: 'm', Text: "m"})
	typeText(m, "tall")
	c := m.state.Content().(onboarding.AppearanceContent)
	require.Equal(t, profile.AppearanceManual, c.Method)
	require.Equal(t, "tall", c.Description)
	require.Contains(t, rendered(m), "Continue")
}

func TestNotesEditedMsg(t *testing.T) {
	m := newTestModel(t, &stubCreator{}, nil)
	m.Update(NotesEditedMsg{Content: "loves trains\n"})
	require.Equal(t, "loves trains", m.notesInput.Value())
	require.Equal(t, "loves trains", *m.state.Request().ParentNotes)

	m.Update(NotesEditedMsg{Err: errors.New("no editor")})
	require.Equal(t, "loves trains", m.notesInput.Value())
}

func TestOpenNotesEditor_UsesEditorEnv(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("EDITOR", script)
	t.Setenv("TMPDIR", dir)

	require.NotNil(t, openNotesEditor("notes"))
}

func TestToast_StaleDismissIgnored(t *testing.T) {
	toast := NewToast()
	first := toast.ShowInfo("one")
	require.NotNil(t, first)
	toast.ShowError("two", "", true)

	toast.Update(ToastDismissMsg{id: 1})
	require.True(t, toast.IsVisible())
	require.Equal(t, "two", toast.Message())

	toast.Update(ToastDismissMsg{id: 2})
	require.False(t, toast.IsVisible())
	require.Empty(t, toast.View(80))
}

func TestButtonBar(t *testing.T) {
	bar := NewButtonBar(navButtons("← Back", "Continue", false))
	bar.SetWidth(40)
	require.Equal(t, ButtonDisabled, bar.Buttons()[1].State)

	out := ansi.Strip(bar.Render())
	require.Contains(t, out, "← Back")
	require.Contains(t, out, "Continue")
	require.Empty(t, NewButtonBar(nil).Render())
}

func TestRenderHintBar(t *testing.T) {
	require.Equal(t, "enter next • esc back", ansi.Strip(renderHintBar("enter", "next", "esc", "back")))
	require.Empty(t, renderHintBar("odd"))
}

func TestCycleAvatarWraps(t *testing.T) {
	last := profile.Avatars[len(profile.Avatars)-1]
	require.Equal(t, profile.Avatars[0], cycleAvatar(last, 1))
	require.Equal(t, last, cycleAvatar(profile.Avatars[0], -1))
	require.Equal(t, profile.Avatars[1], cycleAvatar("dragon", 1))
}

func TestReviewMarkdown(t *testing.T) {
	notes := "shy at first"
	md := reviewMarkdown(profile.CreateRequest{
		Name:           "Mia",
		Age:            6,
		Gender:         profile.GenderGirl,
		AvatarType:     "fox",
		FavoriteGenres: []string{"ocean", "space"},
		ParentNotes:    &notes,
	}, i18n.New("en"))

	require.Contains(t, md, "## Mia")
	require.Contains(t, md, "ocean, space")
	require.Contains(t, md, "shy at first")
	require.Contains(t, md, "**Appearance:** —")
}
