package view

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/drafterkit/drafter/internal/model"
)

// Theme bundles the canvas palette and the HUD text styles.
type Theme struct {
	Name string

	// Canvas palette.
	Background model.RGB
	Grid       model.RGB
	Cursor     model.RGB
	Pending    model.RGB

	// HUD styles.
	Title   lipgloss.Style
	Status  lipgloss.Style
	Message lipgloss.Style
}

func paperTheme() Theme {
	return Theme{
		Name:       "paper",
		Background: model.RGB{R: 250, G: 250, B: 247},
		Grid:       model.RGB{R: 225, G: 225, B: 220},
		Cursor:     model.RGB{R: 200, G: 40, B: 40},
		Pending:    model.RGB{R: 200, G: 40, B: 40},
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Message:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

func blueprintTheme() Theme {
	return Theme{
		Name:       "blueprint",
		Background: model.RGB{R: 235, G: 242, B: 250},
		Grid:       model.RGB{R: 205, G: 220, B: 238},
		Cursor:     model.RGB{R: 220, G: 90, B: 40},
		Pending:    model.RGB{R: 220, G: 90, B: 40},
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Message:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

// ThemeByName resolves a configured theme name, defaulting to blueprint.
func ThemeByName(name string) Theme {
	switch name {
	case "paper":
		return paperTheme()
	default:
		return blueprintTheme()
	}
}
