package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the TUI.
type Theme struct {
	BgDark   lipgloss.Color // Deep background
	BgAccent lipgloss.Color // Aggregate rows

	TextPrimary lipgloss.Color
	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color

	Border        lipgloss.Color
	BorderFocused lipgloss.Color

	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme is a dark palette in Tokyo Night colors.
var DefaultTheme = Theme{
	BgDark:   lipgloss.Color("#1a1b26"),
	BgAccent: lipgloss.Color("#24283b"),

	TextPrimary: lipgloss.Color("#c0caf5"),
	TextDim:     lipgloss.Color("#565f89"),
	TextMuted:   lipgloss.Color("#414868"),

	Border:        lipgloss.Color("#414868"),
	BorderFocused: lipgloss.Color("#7aa2f7"),

	Accent:  lipgloss.Color("#7aa2f7"), // Blue
	Success: lipgloss.Color("#9ece6a"), // Green
	Warning: lipgloss.Color("#e0af68"), // Amber
	Error:   lipgloss.Color("#f7768e"), // Red/Pink
}

// Styles provides pre-configured lipgloss styles using the theme.
type Styles struct {
	Base     lipgloss.Style
	Dim      lipgloss.Style
	Disabled lipgloss.Style
	Title    lipgloss.Style
	Label    lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Selected   lipgloss.Style
	Cursor     lipgloss.Style
	KeyBinding lipgloss.Style
	KeyHint    lipgloss.Style

	Box        lipgloss.Style
	BoxFocused lipgloss.Style

	Header    lipgloss.Style
	Cell      lipgloss.Style
	Aggregate lipgloss.Style
	TableEdge lipgloss.Style
}

// NewStyles creates a new Styles instance from a Theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Base:     lipgloss.NewStyle().Foreground(t.TextPrimary),
		Dim:      lipgloss.NewStyle().Foreground(t.TextDim),
		Disabled: lipgloss.NewStyle().Foreground(t.TextMuted),
		Title: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(t.TextDim).
			Width(13),

		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Foreground(t.Error),

		Selected: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(t.BgDark).
			Background(t.Accent).
			Padding(0, 1),
		KeyBinding: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		KeyHint: lipgloss.NewStyle().
			Foreground(t.TextDim),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		BoxFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocused).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().
			Foreground(t.TextPrimary).
			Padding(0, 1),
		Aggregate: lipgloss.NewStyle().
			Foreground(t.Warning).
			Background(t.BgAccent).
			Padding(0, 1),
		TableEdge: lipgloss.NewStyle().
			Foreground(t.Border),
	}
}

// DefaultStyles returns styles using the default theme.
var DefaultStyles = NewStyles(DefaultTheme)

// RadioIcon returns a styled radio button.
func RadioIcon(selected, enabled bool, s Styles) string {
	switch {
	case !enabled && selected:
		return s.Disabled.Render("●")
	case !enabled:
		return s.Disabled.Render("○")
	case selected:
		return s.Selected.Render("●")
	default:
		return s.Dim.Render("○")
	}
}

// keyHint renders "key action" pairs for the footer.
func keyHint(s Styles, pairs ...string) string {
	out := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		if out != "" {
			out += "  "
		}
		out += s.KeyBinding.Render(pairs[i]) + " " + s.KeyHint.Render(pairs[i+1])
	}
	return out
}
