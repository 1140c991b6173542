package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mirastory/mira/internal/config"
	"github.com/mirastory/mira/internal/i18n"
	"github.com/mirastory/mira/internal/logger"
	"github.com/mirastory/mira/internal/onboarding"
	"github.com/mirastory/mira/internal/profile"
	"github.com/mirastory/mira/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var onboardFlags struct {
	headless   bool
	name       string
	age        int
	gender     string
	avatar     string
	genres     []string
	appearance string
	photo      string
	notes      string
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create a child profile",
	Long: `Walk through the seven onboarding steps and create a child profile.

By default the steps are shown in a full-screen wizard. With --headless the
same steps are filled from flags and submitted without a terminal UI.`,
	RunE: runOnboard,
}

func init() {
	f := onboardCmd.Flags()
	f.BoolVar(&onboardFlags.headless, "headless", false, "Fill the steps from flags instead of the wizard")
	f.StringVar(&onboardFlags.name, "name", "", "Child's name")
	f.IntVar(&onboardFlags.age, "age", 0, "Age in years (3-12, default from config)")
	f.StringVar(&onboardFlags.gender, "gender", "", "boy, girl or unspecified")
	f.StringVar(&onboardFlags.avatar, "avatar", "", "Avatar (default bear)")
	f.StringSliceVar(&onboardFlags.genres, "genre", nil, "Favorite genre (repeatable)")
	f.StringVar(&onboardFlags.appearance, "appearance", "", "Appearance description")
	f.StringVar(&onboardFlags.photo, "photo", "", "Photo to extract the appearance from")
	f.StringVar(&onboardFlags.notes, "notes", "", "Notes for the storyteller")
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	state := newState(cfg)
	loc := i18n.New(cfg.PreferredLanguage)
	extractor := appearanceExtractor(cfg)

	var created *profile.Profile
	if onboardFlags.headless {
		created, err = headlessOnboard(ctx, state, store, extractor, onboardInput{
			name:       onboardFlags.name,
			age:        onboardFlags.age,
			gender:     onboardFlags.gender,
			avatar:     onboardFlags.avatar,
			genres:     onboardFlags.genres,
			appearance: onboardFlags.appearance,
			photo:      onboardFlags.photo,
			notes:      onboardFlags.notes,
		})
	} else {
		created, err = wizard.Run(ctx, wizard.Options{
			State:     state,
			Creator:   store,
			Extractor: extractor,
			Localizer: loc,
		})
	}
	if err != nil {
		return err
	}
	if created == nil {
		fmt.Println("Onboarding cancelled.")
		return nil
	}

	fmt.Println(loc.T(i18n.KeyCreated, created.Name))
	fmt.Printf("  id:     %s\n  handle: %s\n", created.ID, created.Handle)
	return nil
}

func newState(cfg *config.Config) *onboarding.State {
	return onboarding.New(onboarding.Options{
		OwnerID:           cfg.OwnerID,
		PreferredLanguage: cfg.PreferredLanguage,
		DefaultAge:        cfg.DefaultAge,
	})
}

// onboardInput is the headless equivalent of what the wizard collects.
type onboardInput struct {
	name       string
	age        int
	gender     string
	avatar     string
	genres     []string
	appearance string
	photo      string
	notes      string
}

// headlessOnboard fills state from in, walks it to the review step and
// submits once.
func headlessOnboard(ctx context.Context, state *onboarding.State, creator profile.Creator, extractor profile.AppearanceExtractor, in onboardInput) (*profile.Profile, error) {
	defer state.Dispose()

	state.SetName(in.name)
	if in.age != 0 {
		state.SetAge(in.age)
	}
	if !state.SetGender(profile.Gender(in.gender)) {
		return nil, fmt.Errorf("unknown gender %q", in.gender)
	}
	if in.avatar != "" && !state.SetAvatar(profile.AvatarType(in.avatar)) {
		return nil, fmt.Errorf("unknown avatar %q", in.avatar)
	}
	for _, g := range in.genres {
		if !profile.IsGenre(g) {
			return nil, fmt.Errorf("unknown genre %q", g)
		}
		state.SelectGenre(g)
	}
	state.SetNotes(in.notes)

	switch {
	case in.photo != "":
		if extractor == nil {
			return nil, profile.ErrExtractionUnavailable
		}
		if err := state.ExtractAppearance(ctx, extractor, in.photo); err != nil {
			return nil, err
		}
	case in.appearance != "":
		state.SetAppearanceMethod(profile.AppearanceManual)
		state.SetAppearanceDescription(in.appearance)
	}

	for state.CurrentStep() != onboarding.LastStep {
		step := state.CurrentStep()
		if !state.Advance() {
			return nil, fmt.Errorf("step %s is incomplete", step)
		}
		logger.Debug("Headless onboarding passed step %s", step)
	}

	created, err := state.Submit(ctx, creator)
	if err != nil {
		var serr *onboarding.SubmitError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("%s error: %w", serr.Kind, serr.Err)
		}
		return nil, err
	}
	return created, nil
}
