package main

import (
	"fmt"
	"strings"

	"storyloom/cmd/loom/ui"
	"storyloom/internal/story"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// scenarioCmd prints the cards of the loaded scenario
var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Print the protagonist, scene and skills cards",
	RunE:  runScenario,
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := story.LoadScenario(cfg.Scenario)
	if err != nil {
		return err
	}
	logger.Debug("scenario loaded", zap.String("path", cfg.Scenario), zap.Int("characters", len(sc.Characters)))

	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	width := ui.CardsColumnWidth + 20
	renderer := ui.NewMarkdownRenderer(styles.Theme, ui.PanelContentWidth(width))

	var parts []string
	parts = append(parts, styles.RenderHeader(cfg.UI.Title, cfg.UI.Tagline, sc.Characters, cfg.UI.MaxAvatars, width))
	if card := styles.RenderProtagonistCard(sc.Protagonist, width); card != "" {
		parts = append(parts, card)
	}
	if card := styles.RenderSceneCard(renderer, sc.Place, sc.Characters, width); card != "" {
		parts = append(parts, card)
	}
	if sc.Protagonist != nil {
		parts = append(parts, styles.RenderSkillsDialog(renderer, sc.Protagonist.Skills, width))
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, "\n"))
	return nil
}
