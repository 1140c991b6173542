package onboarding

import (
	"testing"

	"github.com/mirastory/mira/internal/profile"
	"github.com/stretchr/testify/require"
)

func newTestState() *State {
	return New(Options{OwnerID: "parent-1", PreferredLanguage: "en"})
}

// stateAt walks a fresh wizard to step with the required fields filled.
func stateAt(t *testing.T, step Step) *State {
	t.Helper()
	s := newTestState()
	s.SetName("Mia")
	s.SetGender(profile.GenderGirl)
	for s.CurrentStep() < step {
		require.True(t, s.Advance(), "advance from %s", s.CurrentStep())
	}
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := newTestState()
	require.Equal(t, StepName, s.CurrentStep())
	require.False(t, s.IsSubmitting())
	require.Equal(t, NameContent{Name: "", Avatar: profile.DefaultAvatar}, s.Content())
	require.Equal(t, AgeContent{Age: profile.DefaultAge}, s.ContentFor(StepAge))
	require.Equal(t, GenderContent{}, s.ContentFor(StepGender))
	require.Nil(t, s.ContentFor(Step(TotalSteps)))
}

func TestNew_DefaultAgeClamped(t *testing.T) {
	require.Equal(t, AgeContent{Age: profile.MaxAge}, New(Options{DefaultAge: 40}).ContentFor(StepAge))
	require.Equal(t, AgeContent{Age: profile.MinAge}, New(Options{DefaultAge: -1}).ContentFor(StepAge))
	require.Equal(t, AgeContent{Age: 8}, New(Options{DefaultAge: 8}).ContentFor(StepAge))
}

func TestCanProceed_RequiredSteps(t *testing.T) {
	t.Run("name", func(t *testing.T) {
		s := newTestState()
		require.False(t, s.CanProceed(), "empty name")
		s.SetName("  ")
		require.False(t, s.CanProceed(), "whitespace name")
		s.SetName("Mia")
		require.True(t, s.CanProceed())
		require.True(t, s.Advance())
		require.Equal(t, StepAge, s.CurrentStep())
	})

	t.Run("age always passes", func(t *testing.T) {
		s := stateAt(t, StepAge)
		require.True(t, s.CanProceed())
	})

	t.Run("gender", func(t *testing.T) {
		s := newTestState()
		s.SetName("Mia")
		s.Advance()
		s.Advance()
		require.Equal(t, StepGender, s.CurrentStep())
		require.False(t, s.CanProceed())
		require.False(t, s.Advance(), "blocked without gender")
		require.Equal(t, StepGender, s.CurrentStep())

		require.True(t, s.SetGender(profile.GenderGirl))
		require.True(t, s.CanProceed())
		require.True(t, s.Advance())
		require.Equal(t, StepAppearance, s.CurrentStep())
	})
}

func TestCanProceed_OptionalStepsAlwaysPass(t *testing.T) {
	for _, step := range []Step{StepAppearance, StepGenres, StepNotes} {
		t.Run(step.String(), func(t *testing.T) {
			s := stateAt(t, step)
			require.True(t, s.CanProceed(), "empty")

			s.SetAppearanceDescription("curly hair")
			s.ToggleGenre("space")
			s.SetNotes("afraid of the dark")
			require.True(t, s.CanProceed(), "filled")
		})
	}
}

func TestIsOptionalStep(t *testing.T) {
	for step := Step(0); step < TotalSteps; step++ {
		want := step == 3 || step == 4 || step == 5
		require.Equal(t, want, IsOptionalStep(step), "step %d", step)
	}
}

func TestAdvanceRetreat_RoundTrip(t *testing.T) {
	for step := StepName; step < LastStep; step++ {
		s := stateAt(t, step)
		s.SetNotes("notes")
		before := s.Request()

		require.True(t, s.Advance())
		require.True(t, s.Retreat())
		require.Equal(t, step, s.CurrentStep())
		require.Equal(t, before, s.Request(), "navigation never touches data")
	}
}

func TestRetreat_AtFirstStepIsNoop(t *testing.T) {
	s := newTestState()
	require.False(t, s.Retreat())
	require.Equal(t, StepName, s.CurrentStep())
}

func TestAdvance_AtLastStepIsNoop(t *testing.T) {
	s := stateAt(t, LastStep)
	require.False(t, s.Advance())
	require.Equal(t, LastStep, s.CurrentStep())
}

func TestClearingNameLaterDoesNotBlockForwardSteps(t *testing.T) {
	s := stateAt(t, StepGenres)
	s.SetName("")

	require.True(t, s.CanProceed(), "only step 0 checks the name")
	require.True(t, s.Advance())
	require.True(t, s.Advance())
	require.Equal(t, LastStep, s.CurrentStep())
	require.Equal(t, "", s.Request().Name)

	for s.Retreat() {
	}
	require.Equal(t, StepName, s.CurrentStep())
	require.False(t, s.CanProceed())
	require.Equal(t, profile.GenderGirl, s.Request().Gender, "data survives the trip back")
}

func TestPrimaryActionLabel(t *testing.T) {
	tests := []struct {
		step  Step
		fill  func(*State)
		label string
	}{
		{StepName, nil, LabelContinue},
		{StepAge, nil, LabelContinue},
		{StepGender, nil, LabelContinue},
		{StepAppearance, nil, LabelSkip},
		{StepAppearance, func(s *State) { s.SetAppearanceDescription("   ") }, LabelSkip},
		{StepAppearance, func(s *State) { s.SetAppearanceDescription("green eyes") }, LabelContinue},
		{StepGenres, nil, LabelSkip},
		{StepGenres, func(s *State) { s.ToggleGenre("adventure") }, LabelContinue},
		{StepNotes, nil, LabelSkip},
		{StepNotes, func(s *State) { s.SetNotes("loves dragons") }, LabelContinue},
		{StepReview, nil, LabelCreateProfile},
		{StepReview, func(s *State) { s.SetNotes("x") }, LabelCreateProfile},
	}

	for _, tt := range tests {
		t.Run(tt.step.String()+"/"+tt.label, func(t *testing.T) {
			s := stateAt(t, tt.step)
			if tt.fill != nil {
				tt.fill(s)
			}
			require.Equal(t, tt.label, s.PrimaryActionLabel())
		})
	}
}

func TestGenresStep_SkipThenContinue(t *testing.T) {
	s := stateAt(t, StepGenres)
	require.Equal(t, LabelSkip, s.PrimaryActionLabel())
	require.True(t, s.ToggleGenre("adventure"))
	require.Equal(t, LabelContinue, s.PrimaryActionLabel())
	require.False(t, s.ToggleGenre("adventure"))
	require.Equal(t, LabelSkip, s.PrimaryActionLabel())
	require.False(t, s.ToggleGenre("horror"), "unknown genres are ignored")
	require.Equal(t, GenresContent{Selected: []string{}}, s.Content())
}

func TestSelectGenre_IsIdempotent(t *testing.T) {
	s := stateAt(t, StepGenres)
	require.True(t, s.SelectGenre("space"))
	require.True(t, s.SelectGenre("space"))
	require.False(t, s.SelectGenre("horror"))
	require.Equal(t, GenresContent{Selected: []string{"space"}}, s.Content())
	require.Equal(t, StepGenres, s.CurrentStep())
}

func TestHasOptionalData_OnlyForOwnStep(t *testing.T) {
	s := stateAt(t, StepAppearance)
	s.ToggleGenre("ocean")
	s.SetNotes("hello")
	require.False(t, s.HasOptionalData(), "other steps' data does not count")

	s.Advance()
	require.True(t, s.HasOptionalData())
}

func TestFieldMutationsKeepStep(t *testing.T) {
	s := stateAt(t, StepGenres)
	s.SetName("Leo")
	s.SetAge(9)
	s.SetGender(profile.GenderBoy)
	s.SetAvatar("fox")
	s.SetAppearanceMethod(profile.AppearanceManual)
	s.SetAppearanceDescription("tall")
	s.SetNotes("n")
	require.Equal(t, StepGenres, s.CurrentStep())
}

func TestSetters_RejectUnknownValues(t *testing.T) {
	s := newTestState()
	require.False(t, s.SetAvatar("dragon"))
	require.False(t, s.SetGender("other"))
	require.False(t, s.SetAppearanceMethod("sketch"))
	require.Equal(t, NameContent{Avatar: profile.DefaultAvatar}, s.Content())

	s.SetAge(99)
	require.Equal(t, AgeContent{Age: profile.MaxAge}, s.ContentFor(StepAge))
}

func TestContent_Variants(t *testing.T) {
	s := stateAt(t, StepName)
	want := []StepContent{
		NameContent{Name: "Mia", Avatar: profile.DefaultAvatar},
		AgeContent{Age: profile.DefaultAge},
		GenderContent{Gender: profile.GenderGirl},
		AppearanceContent{},
		GenresContent{Selected: []string{}},
		NotesContent{},
	}
	for i, w := range want {
		got := s.Content()
		require.Equal(t, w, got)
		require.Equal(t, Step(i), got.Step())
		s.Advance()
	}
	review, ok := s.Content().(ReviewContent)
	require.True(t, ok)
	require.Equal(t, "Mia", review.Request.Name)
	require.False(t, review.Submitting)
}

func TestRequest_Aggregation(t *testing.T) {
	s := New(Options{OwnerID: "parent-1", PreferredLanguage: "es", DefaultAge: 7})
	s.SetName("  Mia  ")
	s.SetAvatar("owl")
	s.SetGender(profile.GenderGirl)
	s.SetAppearanceMethod(profile.AppearanceManual)
	s.SetAppearanceDescription("   ")
	s.ToggleGenre("space")
	s.ToggleGenre("adventure")
	s.SetNotes(" scared of thunder ")

	req := s.Request()
	require.Equal(t, "parent-1", req.OwnerID)
	require.Equal(t, "Mia", req.Name)
	require.Equal(t, 7, req.Age)
	require.Equal(t, profile.GenderGirl, req.Gender)
	require.Equal(t, profile.AvatarType("owl"), req.AvatarType)
	require.Equal(t, profile.AppearanceManual, req.AppearanceMethod)
	require.Nil(t, req.AppearanceDescription, "blank description becomes null")
	require.Equal(t, []string{"adventure", "space"}, req.FavoriteGenres, "catalog order")
	require.NotNil(t, req.ParentNotes)
	require.Equal(t, "scared of thunder", *req.ParentNotes)
	require.Equal(t, "es", req.PreferredLanguage)
}

func TestStepString(t *testing.T) {
	require.Equal(t, "name", StepName.String())
	require.Equal(t, "review", StepReview.String())
	require.Equal(t, "unknown", Step(-1).String())
	require.Equal(t, StepReview, LastStep)
}
