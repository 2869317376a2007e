// Package story holds the read-only mock data shown next to the chat:
// the protagonist, the current scene, the characters present and the
// V.E.R.B.A.L skillset.
package story

import "time"

// Trait is a protagonist effect shown as a chip.
type Trait struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Color       string `yaml:"color,omitempty"` // Hex color for the chip, e.g. "#FFDF72"
}

// Tooltip returns the trait description or a placeholder when missing.
func (t Trait) Tooltip() string {
	if t.Description == "" {
		return "Unknown Effect"
	}
	return t.Description
}

// Protagonist is the player character.
type Protagonist struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"image_url,omitempty"`
	Traits      []Trait  `yaml:"traits,omitempty"`
	Skills      Skillset `yaml:"skills"`
}

// Place is the current scene/location.
type Place struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	ImageURL    string    `yaml:"image_url,omitempty"`
	Effects     []string  `yaml:"effects,omitempty"`
	Timestamp   time.Time `yaml:"timestamp,omitempty"`
}

// Character is someone present in the scene.
type Character struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	AvatarURL string `yaml:"avatar_url,omitempty"`
}

// Initials returns up to two leading letters used as a text avatar.
func (c Character) Initials() string {
	r := []rune(c.Name)
	switch {
	case len(r) == 0:
		return "?"
	case len(r) == 1:
		return string(r)
	default:
		return string(r[:2])
	}
}

// SplitAvatars returns the first max characters to show and how many more
// are hidden behind a "+N" badge.
func SplitAvatars(chars []Character, max int) (shown []Character, hidden int) {
	if max <= 0 {
		return nil, len(chars)
	}
	if len(chars) <= max {
		return chars, 0
	}
	return chars[:max], len(chars) - max
}

// Scenario bundles everything the info cards render.
type Scenario struct {
	Protagonist *Protagonist `yaml:"protagonist"`
	Place       *Place       `yaml:"place"`
	Characters  []Character  `yaml:"characters"`
}
