package wizard

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"
	"github.com/mirastory/mira/internal/i18n"
	"github.com/mirastory/mira/internal/profile"
)

// reviewMarkdown summarizes req as a markdown document.
func reviewMarkdown(req profile.CreateRequest, loc *i18n.Localizer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", orDash(req.Name))
	fmt.Fprintf(&b, "- **%s:** %d\n", loc.T(i18n.KeyStepAge), req.Age)
	fmt.Fprintf(&b, "- **%s:** %s\n", loc.T(i18n.KeyStepGender), orDash(string(req.Gender)))
	fmt.Fprintf(&b, "- **Avatar:** %s\n", req.AvatarType)

	appearance := "—"
	if req.AppearanceDescription != nil {
		appearance = *req.AppearanceDescription
	}
	if req.AppearanceMethod != "" {
		appearance = fmt.Sprintf("%s _(%s)_", appearance, req.AppearanceMethod)
	}
	fmt.Fprintf(&b, "- **%s:** %s\n", loc.T(i18n.KeyStepAppearance), appearance)

	genres := "—"
	if len(req.FavoriteGenres) > 0 {
		genres = strings.Join(req.FavoriteGenres, ", ")
	}
	fmt.Fprintf(&b, "- **%s:** %s\n", loc.T(i18n.KeyStepGenres), genres)

	if req.ParentNotes != nil {
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", loc.T(i18n.KeyStepNotes), *req.ParentNotes)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// renderMarkdown renders markdown with glamour, falling back to the raw text.
func renderMarkdown(content string, width int) string {
	if width > 100 {
		width = 100
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}
