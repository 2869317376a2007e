package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storyloom/internal/reveal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// revealCmd types text to stdout with the typewriter effect
var revealCmd = &cobra.Command{
	Use:   "reveal [text]",
	Short: "Type text out character by character",
	Long: `Prints the text one character at a time, the way narrator replies are
shown in the chat. Without arguments the text is read from stdin.

Example:
  loom reveal "The door creaks open."
  echo "A raven lands nearby." | loom reveal --interval 50ms`,
	RunE: runReveal,
}

func runReveal(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := cfg.GetRevealInterval()
	logger.Debug("revealing text", zap.Int("chars", len([]rune(text))), zap.Duration("interval", interval))

	return typeOut(ctx, cmd.OutOrStdout(), text, interval)
}

// typeOut writes text to out through a reveal task. Cancelling ctx stops the
// task and ends the line early.
func typeOut(ctx context.Context, out io.Writer, text string, interval time.Duration) error {
	loop := reveal.NewLoop()
	defer loop.Close()

	written := 0
	task, err := reveal.New(loop).Start(text, interval,
		func(prefix string) {
			r := []rune(prefix)
			fmt.Fprint(out, string(r[written:]))
			written = len(r)
		},
		func() { fmt.Fprintln(out) },
	)
	if err != nil {
		return err
	}

	select {
	case <-task.Done():
		logger.Debug("reveal completed", zap.Stringer("status", task.Status()))
		return nil
	case <-ctx.Done():
		loop.Do(task.Cancel)
		// Completion may have won the race on the loop.
		if task.Status() == reveal.StatusCancelled {
			fmt.Fprintln(out)
		}
		logger.Info("reveal interrupted", zap.Int("revealed", task.Revealed()))
		return ctx.Err()
	}
}
