package story

// NarrativeEffect adjusts a skill up or down.
type NarrativeEffect struct {
	Name  string `yaml:"name"`
	Value int    `yaml:"value"`
}

// Skill is one V.E.R.B.A.L attribute.
type Skill struct {
	Name    string            `yaml:"name"`
	Level   int               `yaml:"level"`
	Effects []NarrativeEffect `yaml:"effects,omitempty"`
}

// Modifier is the sum of all effect values.
func (s Skill) Modifier() int {
	total := 0
	for _, e := range s.Effects {
		total += e.Value
	}
	return total
}

// Total is the level after effects are applied.
func (s Skill) Total() int {
	return s.Level + s.Modifier()
}

// Sign classifies a value for colouring: 1 positive, -1 negative, 0 neutral.
func Sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Skillset is the V.E.R.B.A.L skillset.
type Skillset struct {
	Vitality  Skill `yaml:"vitality"`
	Empathy   Skill `yaml:"empathy"`
	Reason    Skill `yaml:"reason"`
	Bravado   Skill `yaml:"bravado"`
	Awareness Skill `yaml:"awareness"`
	Luck      Skill `yaml:"luck"`
}

// SkillInfo is the static description of a skill row.
type SkillInfo struct {
	Key     string
	Title   string
	Summary string
	Detail  string
}

// SkillCatalog lists the skills in V.E.R.B.A.L order.
var SkillCatalog = []SkillInfo{
	{"vitality", "Vitality", "Physical endurance, resilience, and raw strength",
		"Determines how well you withstand pain, fatigue, and injury, as well as your capacity for sustained effort."},
	{"empathy", "Empathy", "Emotional intelligence, compassion, and social insight",
		"Governs how well you read and connect with others, and how they respond to you."},
	{"reason", "Reason", "Logic, knowledge, and analytical thinking",
		"Shapes your ability to solve problems, recall lore, and see through deception."},
	{"bravado", "Bravado", "Confidence, charisma, and force of personality",
		"Drives intimidation, persuasion through presence, and acts of daring."},
	{"awareness", "Awareness", "Perception, intuition, and attention to detail",
		"Decides what you notice: hidden paths, subtle tells, and approaching danger."},
	{"luck", "Luck", "Fortune, chance, and the favour of fate",
		"Tilts uncertain outcomes in your favour, or against you."},
}

// Get returns the skill for a catalog key.
func (s Skillset) Get(key string) (Skill, bool) {
	switch key {
	case "vitality":
		return s.Vitality, true
	case "empathy":
		return s.Empathy, true
	case "reason":
		return s.Reason, true
	case "bravado":
		return s.Bravado, true
	case "awareness":
		return s.Awareness, true
	case "luck":
		return s.Luck, true
	}
	return Skill{}, false
}
