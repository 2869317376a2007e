package ui

import (
	"strings"
	"testing"
	"time"

	"storyloom/internal/story"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStyles() Styles {
	return NewStyles(DarkTheme())
}

func TestThemeFor(t *testing.T) {
	assert.True(t, ThemeFor("dark").IsDark)
	assert.False(t, ThemeFor("light").IsDark)
	assert.Equal(t, LightPrimary, ThemeFor("light").Primary)
}

func TestRenderDivider(t *testing.T) {
	s := testStyles()
	assert.Empty(t, s.RenderDivider(0))
	assert.Equal(t, 12, lipgloss.Width(s.RenderDivider(12)))
}

func TestLayoutConfig(t *testing.T) {
	narrow := NewLayoutConfig(80, 30, true)
	assert.False(t, narrow.ShowCards)
	assert.Equal(t, 76, narrow.ChatWidth())

	wide := NewLayoutConfig(200, 40, true)
	assert.True(t, wide.ShowCards)
	assert.Equal(t, ChatMaxWidth, wide.ChatWidth())

	hidden := NewLayoutConfig(200, 40, false)
	assert.False(t, hidden.ShowCards)

	tiny := NewLayoutConfig(10, 4, false)
	assert.Equal(t, MinimumChatWidth, tiny.ChatWidth())
	assert.Equal(t, MinimumChatHeight, tiny.ChatHeight())
	assert.Equal(t, int(float64(MinimumChatWidth)*UserBubbleMaxRatio), tiny.UserBubbleWidth())
}

func TestRenderAvatars(t *testing.T) {
	s := testStyles()
	chars := []story.Character{{Name: "Elara"}, {Name: "Kael"}, {Name: "Lyra"}, {Name: "Guard"}, {Name: "Merchant"}}

	out := s.RenderAvatars(chars, 3)
	assert.Contains(t, out, "El")
	assert.Contains(t, out, "Ly")
	assert.Contains(t, out, "+2")
	assert.NotContains(t, out, "Gu")

	assert.NotContains(t, s.RenderAvatars(chars[:2], 3), "+")
}

func TestRenderHeader(t *testing.T) {
	s := testStyles()
	out := s.RenderHeader("Verve", "Dynamic narratives, forged by decisions", []story.Character{{Name: "Kael"}}, 3, 80)
	assert.Contains(t, out, "Verve")
	assert.Contains(t, out, "Dynamic narratives")
	assert.Contains(t, out, "Ka")
}

func TestRenderImagePlaceholder(t *testing.T) {
	s := testStyles()
	assert.Contains(t, s.RenderImagePlaceholder("", 30), "no image")
	assert.Contains(t, s.RenderImagePlaceholder("https://example.com/a.png", 40), "example.com")
}

func TestCards_NilRenderNothing(t *testing.T) {
	s := testStyles()
	assert.Empty(t, s.RenderProtagonistCard(nil, 38))
	assert.Empty(t, s.RenderSceneCard(nil, nil, nil, 38))
}

func TestRenderProtagonistCard(t *testing.T) {
	sc, err := story.DefaultScenario()
	require.NoError(t, err)

	out := testStyles().RenderProtagonistCard(sc.Protagonist, 60)
	assert.Contains(t, out, "Aren Vale")
	assert.Contains(t, out, "Curious")
	assert.Contains(t, out, "Unknown Effect")
	assert.Contains(t, out, "Inventory")
	assert.Contains(t, out, "Relationships")
	assert.Contains(t, out, "Skills")
}

func TestRenderSceneCard(t *testing.T) {
	place := &story.Place{
		Name:        "Forest Path",
		Description: "A winding path.",
		Effects:     []string{"Calming Aura"},
		Timestamp:   time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC),
	}
	out := testStyles().RenderSceneCard(nil, place, []story.Character{{Name: "Elara"}}, 60)
	assert.Contains(t, out, "Forest Path")
	assert.Contains(t, out, "09:05")
	assert.Contains(t, out, "A winding path.")
	assert.Contains(t, out, "Calming Aura")
	assert.Contains(t, out, "Elara")
}

func TestSafeMarkdown(t *testing.T) {
	assert.Equal(t, "plain", SafeMarkdown(nil, "plain"))
	assert.Empty(t, SafeMarkdown(nil, ""))

	r := NewMarkdownRenderer(DarkTheme(), 60)
	if r != nil {
		assert.Contains(t, SafeMarkdown(r, "some **bold** text"), "bold")
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+2", FormatSigned(2))
	assert.Equal(t, "-1", FormatSigned(-1))
	assert.Equal(t, "0", FormatSigned(0))
}

func TestRenderSkillRow(t *testing.T) {
	s := testStyles()
	info := story.SkillCatalog[4]

	row := s.RenderSkillRow(info, story.Skill{Level: 4, Effects: []story.NarrativeEffect{{Name: "Curious", Value: 1}, {Name: "Dense Foliage", Value: -2}}}, 50)
	assert.Contains(t, row, "Awareness")
	assert.Contains(t, row, "3")
	assert.Contains(t, row, "Curious +1")
	assert.Contains(t, row, "Dense Foliage -2")

	row = s.RenderSkillRow(info, story.Skill{Level: 2}, 50)
	assert.Contains(t, row, "None")
}

func TestRenderSkillsDialog(t *testing.T) {
	sc, err := story.DefaultScenario()
	require.NoError(t, err)

	out := testStyles().RenderSkillsDialog(nil, sc.Protagonist.Skills, 70)
	for _, info := range story.SkillCatalog {
		assert.Contains(t, out, info.Title)
	}
	assert.True(t, strings.Contains(out, "V.E.R.B.A.L."))
}

func TestRenderCache(t *testing.T) {
	rc := NewRenderCache(2)
	calls := 0
	compute := func() string { calls++; return "x" }

	k1 := ComputeKey("a", "80")
	assert.Equal(t, "x", rc.GetOrCompute(k1, compute))
	assert.Equal(t, "x", rc.GetOrCompute(k1, compute))
	assert.Equal(t, 1, calls)

	rc.GetOrCompute(ComputeKey("b"), compute)
	rc.GetOrCompute(ComputeKey("c"), compute)
	assert.Equal(t, 2, rc.Len())

	rc.GetOrCompute(k1, compute)
	assert.Equal(t, 4, calls, "oldest entry should have been evicted")

	hits, misses := rc.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 4, misses)

	rc.Clear()
	assert.Zero(t, rc.Len())
}

func TestComputeKey_SeparatesParts(t *testing.T) {
	assert.NotEqual(t, ComputeKey("ab", "c"), ComputeKey("a", "bc"))
	assert.Equal(t, ComputeKey("x", "y"), ComputeKey("x", "y"))
}

func TestWrapChips(t *testing.T) {
	s := testStyles()
	chips := []string{s.Chip("Calming Aura", ""), s.Chip("Dense Foliage", ""), s.Chip("Hidden Dangers", "")}

	out := WrapChips(chips, 20)
	assert.LessOrEqual(t, lipgloss.Width(out), 20)
	assert.Contains(t, out, "Hidden Dangers")
	assert.Equal(t, 9, lipgloss.Height(out), "three rows of bordered chips")

	assert.Empty(t, WrapChips(nil, 10))
}

func TestWrapChips_SharesRowsWhenTheyFit(t *testing.T) {
	s := testStyles()
	chips := []string{s.Chip("Calming Aura", ""), s.Chip("Dense Foliage", "")}
	assert.Equal(t, 3, lipgloss.Height(WrapChips(chips, 40)))
}
