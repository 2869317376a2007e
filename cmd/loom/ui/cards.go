package ui

import (
	"fmt"
	"net/url"
	"strings"

	"storyloom/internal/story"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// SkillsIntro is shown at the top of the skills dialog.
const SkillsIntro = "Your **V.E.R.B.A.L.** skills shape every decision. " +
	"Each skill has a base *level*; traits and the current scene add or " +
	"subtract from it to give the value that is actually rolled."

// NewMarkdownRenderer builds a glamour renderer matching the theme.
func NewMarkdownRenderer(theme Theme, width int) *glamour.TermRenderer {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// SafeMarkdown renders markdown with panic recovery. Any failure yields the
// raw content.
func SafeMarkdown(r *glamour.TermRenderer, content string) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			result = content
		}
	}()

	if r != nil && content != "" {
		rendered, err := r.Render(content)
		if err == nil {
			return strings.TrimSpace(rendered)
		}
	}
	return content
}

// WrapChips lays rendered chips out in rows no wider than width.
func WrapChips(chips []string, width int) string {
	var rows []string
	var row []string
	rowWidth := 0
	for _, c := range chips {
		w := lipgloss.Width(c)
		if len(row) > 0 && rowWidth+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, c)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderHeader renders the title bar with the avatar group on the right.
func (s Styles) RenderHeader(title, tagline string, chars []story.Character, maxAvatars, width int) string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		s.Tagline.Render(tagline),
	)
	right := s.RenderAvatars(chars, maxAvatars)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right)
	return lipgloss.JoinVertical(lipgloss.Left, row, s.RenderDivider(width))
}

// RenderAvatars renders initials for the visible characters and a "+N" badge
// for the rest.
func (s Styles) RenderAvatars(chars []story.Character, max int) string {
	shown, hidden := story.SplitAvatars(chars, max)
	parts := make([]string, 0, len(shown)+1)
	for _, c := range shown {
		parts = append(parts, s.Avatar.Render(c.Initials()))
	}
	if hidden > 0 {
		parts = append(parts, s.Badge.Render(fmt.Sprintf("+%d", hidden)))
	}
	return strings.Join(parts, " ")
}

// RenderImagePlaceholder stands in for an image the terminal cannot show.
func (s Styles) RenderImagePlaceholder(rawURL string, width int) string {
	label := "no image"
	if rawURL != "" {
		label = "image"
		if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
			label = "image · " + u.Host
		}
	}
	return s.Image.Width(PanelContentWidth(width)).Render("[ " + label + " ]")
}

// RenderProtagonistCard renders the player character card.
func (s Styles) RenderProtagonistCard(p *story.Protagonist, width int) string {
	if p == nil {
		return ""
	}
	inner := PanelContentWidth(width)

	var sb strings.Builder
	sb.WriteString(s.CardTitle.Render(p.Name))
	sb.WriteString("\n")
	sb.WriteString(s.RenderImagePlaceholder(p.ImageURL, width))
	sb.WriteString("\n")
	sb.WriteString(s.Body.Width(inner).Render(p.Description))
	sb.WriteString("\n")

	if len(p.Traits) > 0 {
		chips := make([]string, 0, len(p.Traits))
		for _, t := range p.Traits {
			chips = append(chips, s.Chip(t.Name, t.Color))
		}
		sb.WriteString(WrapChips(chips, inner))
		sb.WriteString("\n")
		for _, t := range p.Traits {
			sb.WriteString(s.Muted.Width(inner).Render(t.Name + ": " + t.Tooltip()))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(s.Section.Render("Inventory"))
	sb.WriteString("\n")
	sb.WriteString(s.Section.Render("Relationships"))
	sb.WriteString("\n")
	sb.WriteString(s.Section.Render("Skills") + s.Muted.Render("  (ctrl+o)"))

	return s.Card.Width(width).Render(sb.String())
}

// RenderSceneCard renders the current place with its effects and the
// characters present.
func (s Styles) RenderSceneCard(r *glamour.TermRenderer, p *story.Place, chars []story.Character, width int) string {
	if p == nil {
		return ""
	}
	inner := PanelContentWidth(width)

	var sb strings.Builder
	sb.WriteString(s.CardTitle.Render(p.Name))
	if !p.Timestamp.IsZero() {
		sb.WriteString(s.Muted.Render("  " + p.Timestamp.Format("15:04")))
	}
	sb.WriteString("\n")
	sb.WriteString(s.RenderImagePlaceholder(p.ImageURL, width))
	sb.WriteString("\n")
	sb.WriteString(SafeMarkdown(r, p.Description))
	sb.WriteString("\n")

	if len(p.Effects) > 0 {
		chips := make([]string, 0, len(p.Effects))
		for _, e := range p.Effects {
			chips = append(chips, s.Chip(e, ""))
		}
		sb.WriteString(WrapChips(chips, inner))
		sb.WriteString("\n")
	}

	if len(chars) > 0 {
		names := make([]string, 0, len(chars))
		for _, c := range chars {
			names = append(names, c.Name)
		}
		sb.WriteString(s.Section.Render("Present"))
		sb.WriteString("\n")
		sb.WriteString(s.Body.Width(inner).Render(strings.Join(names, ", ")))
	}

	return s.Card.Width(width).Render(strings.TrimRight(sb.String(), "\n"))
}

// FormatSigned renders v with an explicit sign.
func FormatSigned(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}

// RenderSkillRow renders one skill: title, total, and the effect breakdown.
func (s Styles) RenderSkillRow(info story.SkillInfo, skill story.Skill, width int) string {
	total := s.SignStyle(story.Sign(skill.Modifier())).Bold(true).Render(fmt.Sprintf("%d", skill.Total()))
	head := s.Bold.Render(info.Title) + "  " + total +
		s.Muted.Render(fmt.Sprintf("  (base %d)", skill.Level))

	var effects string
	if len(skill.Effects) == 0 {
		effects = s.Muted.Render("None")
	} else {
		parts := make([]string, 0, len(skill.Effects))
		for _, e := range skill.Effects {
			parts = append(parts, s.SignStyle(story.Sign(e.Value)).Render(e.Name+" "+FormatSigned(e.Value)))
		}
		effects = strings.Join(parts, s.Muted.Render(", "))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		head,
		s.Muted.Width(width).Render(info.Summary),
		"Effects: "+effects,
	)
}

// RenderSkillsDialog renders the V.E.R.B.A.L. breakdown.
func (s Styles) RenderSkillsDialog(r *glamour.TermRenderer, skills story.Skillset, width int) string {
	inner := PanelContentWidth(width) - 2
	rows := []string{
		s.Title.Render("Skills"),
		SafeMarkdown(r, SkillsIntro),
	}
	for _, info := range story.SkillCatalog {
		skill, _ := skills.Get(info.Key)
		rows = append(rows, "", s.RenderSkillRow(info, skill, inner))
	}
	rows = append(rows, "", s.Muted.Render("esc to close"))
	return s.Dialog.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
