package main

import (
	"context"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/mirastory/mira/internal/logger"
	"github.com/mirastory/mira/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▄▀█ █ █▀█ ▄▀█"
	logoText2 = "█ ▀ █ █ █▀▄ █▀█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mira",
	Short: "Child profiles for the Mira storyteller",
}

// applyGradient colors each rune of text along a primary→secondary blend.
func applyGradient(text, from, to string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range runes {
		pos := 0.0
		if len(runes) > 1 {
			pos = float64(i) / float64(len(runes)-1)
		}
		color := theme.InterpolateColor(from, to, pos)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
	}
	return b.String()
}

func renderLogo() string {
	t := theme.Current()
	return applyGradient(logoText1, t.Primary, t.Secondary) + "\n" +
		applyGradient(logoText2, t.Primary, t.Secondary)
}

func init() {
	rootCmd.Long = renderLogo() + `

mira sets up the child profiles the Mira storyteller writes stories for.
Profiles are kept in an embedded NATS JetStream under the data directory
and can be created interactively, headlessly, or over MCP.`

	rootCmd.PersistentFlags().StringVar(&globalFlags.owner, "owner", "", "Parent account id (overrides owner_id)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.language, "lang", "", "Preferred story language (overrides preferred_language)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.dataDir, "data-dir", "", "Data directory (overrides data_dir)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)
}
