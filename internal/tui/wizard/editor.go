package wizard

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
)

// openNotesEditor hands the notes to $EDITOR through a temp file and reports
// the edited text back as a NotesEditedMsg.
func openNotesEditor(notes string) tea.Cmd {
	tmpfile, err := os.CreateTemp("", "mira_notes_*.md")
	if err != nil {
		return editorFailed(err)
	}
	path := tmpfile.Name()

	if _, err := tmpfile.WriteString(notes); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(path)
		return editorFailed(err)
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("mira", path)
	if err != nil {
		_ = os.Remove(path)
		return editorFailed(err)
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			return NotesEditedMsg{Err: fmt.Errorf("editor: %w", err)}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return NotesEditedMsg{Err: fmt.Errorf("read notes: %w", err)}
		}
		return NotesEditedMsg{Content: string(content)}
	})
}

func editorFailed(err error) tea.Cmd {
	return func() tea.Msg {
		return NotesEditedMsg{Err: fmt.Errorf("open editor: %w", err)}
	}
}
