package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storyloom/cmd/loom/chat"
	"storyloom/internal/config"
	"storyloom/internal/logging"
	"storyloom/internal/story"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// runInteractiveChat starts the full-screen chat and hot-reloads the config
// file while it runs.
func runInteractiveChat() error {
	sc, err := story.LoadScenario(cfg.Scenario)
	if err != nil {
		return err
	}

	model := chat.New(chat.Options{
		Config:   cfg,
		Scenario: sc,
		Narrator: story.EchoNarrator{},
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	watcher, err := config.NewWatcher(config.DefaultPath(workspace), 0, func(reloaded *config.Config, err error) {
		if err == nil {
			err = applyOverrides(reloaded)
		}
		if err == nil {
			if lerr := logging.Initialize(workspace, reloaded.Logging.Options()); lerr != nil {
				err = fmt.Errorf("logging: %w", lerr)
			}
		}
		p.Send(chat.ConfigReloadedMsg{Config: reloaded, Err: err})
	})
	if err != nil {
		logging.Get(logging.CategoryConfig).Warn("config hot reload disabled: %v", err)
	} else {
		if err := watcher.Start(ctx); err != nil {
			logging.Get(logging.CategoryConfig).Warn("config hot reload disabled: %v", err)
		}
		defer watcher.Stop()
	}

	// Program: returning ends the group and releases the watcher and signals.
	g.Go(func() error {
		defer stop()
		final, err := p.Run()
		if m, ok := final.(chat.Model); ok {
			m.Shutdown()
		}
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		return nil
	})

	// SIGTERM (or SIGINT outside raw mode) quits the program cleanly.
	g.Go(func() error {
		<-ctx.Done()
		p.Quit()
		return nil
	})

	return g.Wait()
}
