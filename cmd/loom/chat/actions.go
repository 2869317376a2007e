package chat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"storyloom/internal/logging"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Copy methods reported in copyResultMsg.
const (
	copyMethodClipboard = "clipboard"
	copyMethodOSC52     = "osc52"
)

// errNoClipboard is returned when no system clipboard utility is available.
var errNoClipboard = errors.New("system clipboard unavailable")

// systemClipboard is the atotto-backed Clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errNoClipboard
	}
	return clipboard.WriteAll(text)
}

// osc52Sequence builds the escape sequence, wrapped for tmux or screen when
// running inside one.
func osc52Sequence(text string) osc52.Sequence {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(os.Getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	return seq
}

// copyText tries the system clipboard first and falls back to an OSC52
// escape written to term.
func copyText(cb Clipboard, term io.Writer, text string) (string, error) {
	log := logging.Get(logging.CategoryClipboard)

	cbErr := errNoClipboard
	if cb != nil {
		cbErr = cb.WriteAll(text)
	}
	if cbErr == nil {
		log.Debug("copied %d bytes via clipboard", len(text))
		return copyMethodClipboard, nil
	}
	log.Warn("clipboard write failed: %v", cbErr)

	if term == nil {
		return "", fmt.Errorf("copy failed: %w", cbErr)
	}
	if _, err := osc52Sequence(text).WriteTo(term); err != nil {
		log.Error("osc52 write failed: %v", err)
		return "", fmt.Errorf("copy failed: %w", errors.Join(cbErr, err))
	}
	log.Debug("copied %d bytes via osc52", len(text))
	return copyMethodOSC52, nil
}

// copyCmd copies a message's text off the Update goroutine.
func copyCmd(cb Clipboard, term io.Writer, id uuid.UUID, text string) tea.Cmd {
	return func() tea.Msg {
		method, err := copyText(cb, term, text)
		return copyResultMsg{id: id, method: method, err: err}
	}
}
