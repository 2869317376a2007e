// Package ui provides the visual styling for the storyloom interactive CLI.
// Light and dark palettes follow the terminal background unless configured.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors
	LightBackground = lipgloss.Color("#fafaf7")
	LightForeground = lipgloss.Color("#1f1d1a")
	LightPrimary    = lipgloss.Color("#4a3f8c") // Deep violet
	LightAccent     = lipgloss.Color("#c27c2c") // Amber
	LightSecondary  = lipgloss.Color("#6b6760")
	LightMuted      = lipgloss.Color("#9a958c")
	LightBorder     = lipgloss.Color("#dedad2")
	LightCard       = lipgloss.Color("#f0eee8")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#141317")
	DarkForeground = lipgloss.Color("#ece9e3")
	DarkPrimary    = lipgloss.Color("#b3a6ff")
	DarkAccent     = lipgloss.Color("#f0b35a")
	DarkSecondary  = lipgloss.Color("#b5b0a8")
	DarkMuted      = lipgloss.Color("#77736c")
	DarkBorder     = lipgloss.Color("#34313a")
	DarkCard       = lipgloss.Color("#1e1c22")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#43a047")
	Warning     = lipgloss.Color("#ffb300")
	Info        = lipgloss.Color("#1e88e5")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeFor resolves a configured theme name. "auto" (or anything unknown)
// asks the terminal whether its background is dark.
func ThemeFor(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	}
	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Tagline lipgloss.Style
	Content lipgloss.Style
	Footer  lipgloss.Style

	// Text
	Title    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Greeting lipgloss.Style

	// Chat
	UserBubble   lipgloss.Style
	NarratorText lipgloss.Style
	Caret        lipgloss.Style
	Action       lipgloss.Style
	ActionDone   lipgloss.Style
	Input        lipgloss.Style
	Selected     lipgloss.Style

	// Cards
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	Section   lipgloss.Style
	Avatar    lipgloss.Style
	Image     lipgloss.Style
	Dialog    lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Tagline: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Italic(true),

		Content: lipgloss.NewStyle().
			Padding(0, 2),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			MarginTop(1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Greeting: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		UserBubble: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.Card).
			Padding(0, 2).
			MarginBottom(1),

		NarratorText: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Caret: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Action: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		ActionDone: lipgloss.NewStyle().
			Foreground(Success),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent).
			PaddingLeft(1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			MarginBottom(1),

		CardTitle: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Underline(true),

		Section: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			MarginTop(1),

		Avatar: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Primary).
			Padding(0, 1),

		Image: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Align(lipgloss.Center),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Primary).
			Padding(1, 2),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Accent).
			Padding(0, 1).
			Bold(true),
	}
}

// Chip renders a rounded label. An empty color uses the theme accent.
func (s Styles) Chip(label, color string) string {
	c := lipgloss.Color(color)
	if color == "" {
		c = s.Theme.Accent
	}
	return lipgloss.NewStyle().
		Foreground(c).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(0, 1).
		Render(label)
}

// SignStyle colours a value green when positive, red when negative.
func (s Styles) SignStyle(sign int) lipgloss.Style {
	switch {
	case sign > 0:
		return lipgloss.NewStyle().Foreground(Success)
	case sign < 0:
		return lipgloss.NewStyle().Foreground(Destructive)
	default:
		return s.Body
	}
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
