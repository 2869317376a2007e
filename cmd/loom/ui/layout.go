// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for the chat column and the side cards
const (
	// Chat column
	ChatMaxWidth       = 96
	ChatHorizontalPad  = 4
	InputHeight        = 3
	HeaderHeight       = 3
	FooterHeight       = 2
	UserBubbleMaxRatio = 0.8
	MinimumChatWidth   = 30
	MinimumChatHeight  = 5

	// Side cards
	CardsColumnWidth = 38
	CardsDivider     = 2

	// Panel borders and spacing
	PanelBorderWidth = 1
	PanelPaddingH    = 1

	// Responsive breakpoints
	CardsBreakpoint = 110
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	ShowCards      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size.
// The cards column is only shown when requested and the terminal is wide enough.
func NewLayoutConfig(width, height int, wantCards bool) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		ShowCards:      wantCards && width >= CardsBreakpoint,
	}
}

// ChatWidth returns the width of the message column.
func (l LayoutConfig) ChatWidth() int {
	w := l.TerminalWidth - ChatHorizontalPad
	if l.ShowCards {
		w -= CardsColumnWidth + CardsDivider
	}
	if w > ChatMaxWidth {
		w = ChatMaxWidth
	}
	if w < MinimumChatWidth {
		w = MinimumChatWidth
	}
	return w
}

// ChatHeight returns the height of the message viewport.
func (l LayoutConfig) ChatHeight() int {
	h := l.TerminalHeight - HeaderHeight - InputHeight - FooterHeight
	if h < MinimumChatHeight {
		h = MinimumChatHeight
	}
	return h
}

// UserBubbleWidth caps user messages to a share of the chat column.
func (l LayoutConfig) UserBubbleWidth() int {
	return int(float64(l.ChatWidth()) * UserBubbleMaxRatio)
}

// PanelContentWidth returns the content width inside a bordered panel
func PanelContentWidth(panelWidth int) int {
	w := panelWidth - (PanelBorderWidth * 2) - (PanelPaddingH * 2)
	if w < 1 {
		return 1
	}
	return w
}
