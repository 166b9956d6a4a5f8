// Package refdata defines the immutable reference records consulted during
// generation: species and their forms, skills, intrinsics and statuses.
package refdata

import (
	"errors"
	"math/rand/v2"
	"sort"

	"github.com/lawnchairsociety/dungeongen/internal/spawn"
)

// ErrUnknownID is returned by a Provider when no record has the requested id.
// Generation treats it as a fatal configuration error.
var ErrUnknownID = errors.New("refdata: unknown id")

// Gender of a spawned character.
type Gender string

const (
	Genderless Gender = "genderless"
	Male       Gender = "male"
	Female     Gender = "female"
)

// DefaultSkin is used when a form defines no skin table.
const DefaultSkin = "normal"

// LevelSkill is a skill a form learns at a level.
type LevelSkill struct {
	Level int    `yaml:"level"`
	Skill string `yaml:"skill"`
}

// Form is one variant of a species.
type Form struct {
	Name       string              `yaml:"name"`
	Genders    *spawn.List[Gender] `yaml:"genders,omitempty"`
	Skins      *spawn.List[string] `yaml:"skins,omitempty"`
	Intrinsics []string            `yaml:"intrinsics,omitempty"`
	LevelUp    []LevelSkill        `yaml:"level_up,omitempty"`
}

// Species is a monster species with at least one form.
type Species struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Forms []Form `yaml:"forms"`
}

// Skill is a learnable move.
type Skill struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Power int    `yaml:"power"`
}

// Intrinsic is a passive ability.
type Intrinsic struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Status is a condition attachable to a character. Targeted statuses need an
// explicit target and cannot be attached at spawn time.
type Status struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Targeted bool   `yaml:"targeted"`
}

// Provider resolves reference records by id. Every method returns an error
// wrapping ErrUnknownID for a missing id.
type Provider interface {
	Species(id string) (*Species, error)
	Skill(id string) (*Skill, error)
	Intrinsic(id string) (*Intrinsic, error)
	Status(id string) (*Status, error)
}

// Form returns the form at index, falling back to the first form.
func (s *Species) Form(index int) *Form {
	if index < 0 || index >= len(s.Forms) {
		return &s.Forms[0]
	}
	return &s.Forms[index]
}

// RollForm picks a form index uniformly. A single-form species draws nothing.
func (s *Species) RollForm(r *rand.Rand) int {
	if len(s.Forms) <= 1 {
		return 0
	}
	return r.IntN(len(s.Forms))
}

// RollGender picks from the form's gender table, Genderless when the table is
// missing or unpickable.
func (f *Form) RollGender(r *rand.Rand) Gender {
	g, err := f.Genders.Pick(r)
	if err != nil {
		return Genderless
	}
	return g
}

// RollSkin picks from the form's skin table, DefaultSkin when it is missing or
// unpickable.
func (f *Form) RollSkin(r *rand.Rand) string {
	s, err := f.Skins.Pick(r)
	if err != nil {
		return DefaultSkin
	}
	return s
}

// RollIntrinsic picks uniformly among the set slots within the first tier
// slots. It returns "" when none of them is set.
func (f *Form) RollIntrinsic(r *rand.Rand, tier int) string {
	var set []string
	for i := 0; i < tier && i < len(f.Intrinsics); i++ {
		if f.Intrinsics[i] != "" {
			set = append(set, f.Intrinsics[i])
		}
	}
	switch len(set) {
	case 0:
		return ""
	case 1:
		return set[0]
	}
	return set[r.IntN(len(set))]
}

// LatestSkills returns the skills learnable at or below level, most recently
// learned first. Duplicates are kept; callers skip what they already have.
func (f *Form) LatestSkills(level int) []string {
	learn := make([]LevelSkill, 0, len(f.LevelUp))
	for _, ls := range f.LevelUp {
		if ls.Level <= level {
			learn = append(learn, ls)
		}
	}
	sort.SliceStable(learn, func(i, j int) bool {
		return learn[i].Level > learn[j].Level
	})
	out := make([]string, len(learn))
	for i, ls := range learn {
		out[i] = ls.Skill
	}
	return out
}
