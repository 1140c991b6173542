package wizard

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mirastory/mira/internal/tui/theme"
)

const (
	infoToastDuration  = 3 * time.Second
	errorToastDuration = 8 * time.Second
)

// ToastDismissMsg hides the toast it was scheduled for. A newer toast
// ignores dismissals meant for an older one.
type ToastDismissMsg struct {
	id int
}

// Toast is a one-line notification shown under the wizard.
type Toast struct {
	id        int
	message   string
	hint      string
	isError   bool
	retryable bool
	visible   bool
}

// NewToast creates a hidden toast.
func NewToast() *Toast {
	return &Toast{}
}

// ShowInfo displays msg and schedules its dismissal.
func (t *Toast) ShowInfo(msg string) tea.Cmd {
	return t.show(msg, "", false, false, infoToastDuration)
}

// ShowError displays msg with an optional hint. Retryable toasts enable the
// retry key while visible.
func (t *Toast) ShowError(msg, hint string, retryable bool) tea.Cmd {
	return t.show(msg, hint, true, retryable, errorToastDuration)
}

func (t *Toast) show(msg, hint string, isError, retryable bool, d time.Duration) tea.Cmd {
	t.id++
	t.message = msg
	t.hint = hint
	t.isError = isError
	t.retryable = retryable
	t.visible = true

	id := t.id
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastDismissMsg{id: id}
	})
}

// Hide dismisses the toast immediately.
func (t *Toast) Hide() {
	t.visible = false
	t.message = ""
	t.hint = ""
	t.retryable = false
}

// Update handles dismissal messages.
func (t *Toast) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(ToastDismissMsg); ok && m.id == t.id {
		t.Hide()
	}
	return nil
}

// IsVisible returns whether the toast is currently visible.
func (t *Toast) IsVisible() bool {
	return t.visible
}

// CanRetry reports whether a visible toast offers retry.
func (t *Toast) CanRetry() bool {
	return t.visible && t.retryable
}

// Message returns the current toast message (empty if not visible).
func (t *Toast) Message() string {
	if !t.visible {
		return ""
	}
	return t.message
}

// View renders the toast right-aligned within width.
func (t *Toast) View(width int) string {
	if !t.visible || t.message == "" {
		return ""
	}

	s := theme.Current().S()
	style := s.ToastInfo
	if t.isError {
		style = s.ToastError
	}

	text := t.message
	if t.hint != "" {
		text += " (" + t.hint + ")"
	}
	content := style.Render(text)
	if lipgloss.Width(content) > width-2 && width > 2 {
		content = style.Width(width - 2).Render(text)
	}

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Right).
		Render(content)
}
