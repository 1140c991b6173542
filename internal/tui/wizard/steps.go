package wizard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mirastory/mira/internal/i18n"
	"github.com/mirastory/mira/internal/onboarding"
	"github.com/mirastory/mira/internal/profile"
	"github.com/mirastory/mira/internal/tui/theme"
)

// handleStepKey applies keys that belong to the current step. It reports
// false for keys the focused text widget should receive instead.
func (m *Model) handleStepKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	key := msg.String()

	switch c := m.state.Content().(type) {
	case onboarding.NameContent:
		switch key {
		case "up":
			m.state.SetAvatar(cycleAvatar(c.Avatar, -1))
			return nil, true
		case "down":
			m.state.SetAvatar(cycleAvatar(c.Avatar, 1))
			return nil, true
		}

	case onboarding.AgeContent:
		switch key {
		case "up", "right", "+":
			m.state.SetAge(c.Age + 1)
			return nil, true
		case "down", "left", "-":
			m.state.SetAge(c.Age - 1)
			return nil, true
		}

	case onboarding.GenderContent:
		return m.moveOrSelect(key, len(profile.Genders), func(i int) {
			m.state.SetGender(profile.Genders[i])
		})

	case onboarding.AppearanceContent:
		return m.handleAppearanceKey(key, c)

	case onboarding.GenresContent:
		return m.moveOrSelect(key, len(profile.Genres), func(i int) {
			m.state.ToggleGenre(profile.Genres[i])
		})

	case onboarding.NotesContent:
		if key == "ctrl+e" {
			return openNotesEditor(c.Notes), true
		}
	}
	return nil, false
}

// moveOrSelect drives a vertical list: up/down move the cursor and space
// applies choose to the item under it.
func (m *Model) moveOrSelect(key string, n int, choose func(int)) (tea.Cmd, bool) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil, true
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
		return nil, true
	case "space":
		choose(m.cursor)
		return nil, true
	}
	return nil, false
}

func (m *Model) handleAppearanceKey(key string, c onboarding.AppearanceContent) (tea.Cmd, bool) {
	if c.Extracting || m.enterPhoto {
		return nil, false
	}

	if m.descInput.Focused() {
		if key == "tab" && m.extractor != nil {
			m.descInput.Blur()
			return m.askForPhoto(), true
		}
		return nil, false
	}

	switch key {
	case "m":
		m.state.SetAppearanceMethod(profile.AppearanceManual)
		return m.descInput.Focus(), true
	case "p":
		if m.extractor == nil {
			return nil, true
		}
		return m.askForPhoto(), true
	}
	return nil, false
}

func (m *Model) askForPhoto() tea.Cmd {
	m.enterPhoto = true
	m.photoInput.SetValue("")
	return m.photoInput.Focus()
}

func cycleAvatar(current profile.AvatarType, delta int) profile.AvatarType {
	n := len(profile.Avatars)
	idx := 0
	for i, a := range profile.Avatars {
		if a == current {
			idx = i
			break
		}
	}
	return profile.Avatars[((idx+delta)%n+n)%n]
}

// renderStep draws the body of the current step.
func (m *Model) renderStep(width int) string {
	s := theme.Current().S()
	var b strings.Builder

	line := func(text string) {
		b.WriteString(text)
		b.WriteString("\n")
	}

	switch c := m.state.Content().(type) {
	case onboarding.NameContent:
		line(s.Text.Render(m.loc.T(i18n.KeyPromptName)))
		line(m.nameInput.View())
		line("")
		var avatars []string
		for _, a := range profile.Avatars {
			if a == c.Avatar {
				avatars = append(avatars, s.Selected.Render("["+string(a)+"]"))
			} else {
				avatars = append(avatars, s.Muted.Render(string(a)))
			}
		}
		line(strings.Join(avatars, " "))

	case onboarding.AgeContent:
		line(s.Text.Render(m.loc.T(i18n.KeyPromptAge)))
		line("")
		line(s.Selected.Render(fmt.Sprintf("‹ %d ›", c.Age)) +
			s.Muted.Render(fmt.Sprintf("   (%d–%d)", profile.MinAge, profile.MaxAge)))

	case onboarding.GenderContent:
		line(s.Text.Render(m.loc.T(i18n.KeyPromptGender)))
		line("")
		for i, g := range profile.Genders {
			line(m.listRow(i, g == c.Gender, "●", "○", string(g)))
		}

	case onboarding.AppearanceContent:
		line(s.Text.Render(m.loc.T(i18n.KeyPromptAppearance)))
		line("")
		switch {
		case c.Extracting:
			line(s.Muted.Render(m.loc.T(i18n.KeyLabelExtracting)))
		case m.enterPhoto:
			line(s.Muted.Render(m.loc.T(i18n.KeyPromptPhoto)))
			line(m.photoInput.View())
		case c.Method == "" && c.Description == "" && !m.descInput.Focused():
			line(renderHintBar("m", string(profile.AppearanceManual)))
			if m.extractor != nil {
				line(renderHintBar("p", string(profile.AppearancePhoto)))
			}
		default:
			line(m.descInput.View())
		}

	case onboarding.GenresContent:
		line(s.Text.Render(m.loc.T(i18n.KeyPromptGenres)))
		line("")
		selected := make(map[string]bool, len(c.Selected))
		for _, g := range c.Selected {
			selected[g] = true
		}
		for i, g := range profile.Genres {
			line(m.listRow(i, selected[g], "[x]", "[ ]", g))
		}

	case onboarding.NotesContent:
		line(s.Text.Render(m.loc.T(i18n.KeyPromptNotes)))
		line("")
		line(m.notesInput.View())

	case onboarding.ReviewContent:
		line(s.Text.Render(m.loc.T(i18n.KeyPromptReview)))
		line("")
		line(renderMarkdown(reviewMarkdown(c.Request, m.loc), width-4))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) listRow(i int, on bool, onMark, offMark, label string) string {
	s := theme.Current().S()
	cursor := "  "
	if i == m.cursor {
		cursor = s.Cursor.Render("› ")
	}
	if on {
		return cursor + s.Selected.Render(onMark+" "+label)
	}
	return cursor + s.Text.Render(offMark+" "+label)
}

func (m *Model) renderHints() string {
	back := "back"
	if m.state.CurrentStep() == onboarding.StepName {
		back = "cancel"
	}

	switch m.state.CurrentStep() {
	case onboarding.StepName:
		return renderHintBar("↑↓", "avatar", "enter", "next", "esc", back)
	case onboarding.StepAge:
		return renderHintBar("←→", "age", "enter", "next", "esc", back)
	case onboarding.StepGender, onboarding.StepGenres:
		return renderHintBar("↑↓", "move", "space", "select", "enter", "next", "esc", back)
	case onboarding.StepAppearance:
		if m.enterPhoto {
			return renderHintBar("enter", "extract", "esc", "cancel")
		}
		if m.extractor != nil {
			return renderHintBar("m", "manual", "p/tab", "photo", "enter", "next", "esc", back)
		}
		return renderHintBar("m", "manual", "enter", "next", "esc", back)
	case onboarding.StepNotes:
		return renderHintBar("ctrl+e", "editor", "ctrl+j", "newline", "enter", "next", "esc", back)
	default:
		if m.toast.CanRetry() {
			return renderHintBar("r", "retry", "enter", "create", "esc", back)
		}
		return renderHintBar("enter", "create", "esc", back)
	}
}
