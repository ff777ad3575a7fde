package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/NeedsSoySauce/Packet-Browser/internal/app"
	"github.com/NeedsSoySauce/Packet-Browser/internal/config"
	"github.com/NeedsSoySauce/Packet-Browser/internal/logging"
)

// Run opens path in the background and browses it until the user quits.
func Run(path string, cfg *config.Config, logger *logging.Logger) error {
	model := NewModel(path, app.OpenAsync(path, cfg, logger))
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
