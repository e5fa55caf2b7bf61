package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// deleteState walks idle -> awaitingConfirmation -> inFlight -> idle.
// Cancelling while awaiting confirmation goes straight back to idle and
// never reaches the network.
type deleteState int

const (
	deleteIdle deleteState = iota
	deleteAwaitingConfirmation
	deleteInFlight
)

func (s deleteState) String() string {
	switch s {
	case deleteIdle:
		return "idle"
	case deleteAwaitingConfirmation:
		return "awaiting-confirmation"
	case deleteInFlight:
		return "in-flight"
	}
	return fmt.Sprintf("deleteState(%d)", int(s))
}

type deleteFlow struct {
	state  deleteState
	target domain.Todo
	// confirmFocused selects the Delete button; Cancel is focused by default.
	confirmFocused bool
}

// request opens the dialog for target. Ignored unless idle.
func (f *deleteFlow) request(target domain.Todo) bool {
	if f.state != deleteIdle {
		return false
	}
	f.state = deleteAwaitingConfirmation
	f.target = target
	f.confirmFocused = false
	return true
}

// confirm moves to inFlight and hands back the item to delete.
func (f *deleteFlow) confirm() (domain.Todo, bool) {
	if f.state != deleteAwaitingConfirmation {
		return domain.Todo{}, false
	}
	f.state = deleteInFlight
	return f.target, true
}

func (f *deleteFlow) cancel() bool {
	if f.state != deleteAwaitingConfirmation {
		return false
	}
	f.state = deleteIdle
	f.target = domain.Todo{}
	return true
}

// resolve closes an in-flight delete once its result has arrived.
func (f *deleteFlow) resolve(id int64) bool {
	if f.state != deleteInFlight || f.target.ID != id {
		return false
	}
	f.state = deleteIdle
	f.target = domain.Todo{}
	return true
}

const (
	dialogTitle   = "Delete Todo"
	dialogConfirm = "Delete"
	dialogCancel  = "Cancel"
)

func dialogMessage(t domain.Todo) string {
	return fmt.Sprintf("Are you sure you want to delete \"%s\"?", t.Title)
}

func (f deleteFlow) view() string {
	cancel, confirm := activeButtonStyle, buttonStyle
	if f.confirmFocused {
		cancel, confirm = buttonStyle, activeButtonStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		cancel.Render(dialogCancel), "  ", confirm.Render(dialogConfirm))

	body := strings.Join([]string{
		titleStyle.Render(dialogTitle),
		"",
		dialogMessage(f.target),
		"",
		buttons,
		"",
		helpStyle.Render("y delete • n/esc cancel • ←/→ choose • enter select"),
	}, "\n")
	return dialogStyle.Render(body)
}
