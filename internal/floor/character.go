package floor

import (
	"codeberg.org/anaseto/gruid"

	"github.com/lawnchairsociety/dungeongen/internal/refdata"
)

// MaxSkills is the number of skill slots a character has.
const MaxSkills = 4

// Character is a spawned monster.
type Character struct {
	ID            string
	Name          string
	Species       string
	Form          int
	Skin          string
	Gender        refdata.Gender
	Level         int
	Skills        []string
	Intrinsic     string
	Tactic        string
	Discriminator int32 // Cosmetic variation seed
	Statuses      []string
	HeldItem      string
	Unrecruitable bool
	Vars          map[string]string // Set by scripts
	Pos           gruid.Point
}

// HasSkill reports whether id is already in the loadout.
func (c *Character) HasSkill(id string) bool {
	for _, s := range c.Skills {
		if s == id {
			return true
		}
	}
	return false
}

// SetVar stores a script variable.
func (c *Character) SetVar(key, value string) {
	if c.Vars == nil {
		c.Vars = make(map[string]string)
	}
	c.Vars[key] = value
}

// Team is a group of characters spawned together.
type Team struct {
	Index   int
	Members []*Character
}

// Add registers c with the team.
func (t *Team) Add(c *Character) {
	t.Members = append(t.Members, c)
}

// Len returns the number of members.
func (t *Team) Len() int {
	return len(t.Members)
}
