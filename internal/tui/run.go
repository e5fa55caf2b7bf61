package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the todo screen until the user quits.
func Run(ctx context.Context, svc TodoService, log *slog.Logger, opts ...tea.ProgramOption) error {
	m := New(ctx, svc, log)
	defer m.Close()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
