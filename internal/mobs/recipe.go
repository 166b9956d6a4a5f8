// Package mobs implements monster spawn recipes: gating conditions, identity
// and level rolls, skill and intrinsic assignment, and post-creation features.
package mobs

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
	"github.com/lawnchairsociety/dungeongen/internal/rangeindex"
	"github.com/lawnchairsociety/dungeongen/internal/refdata"
)

// IntrinsicTier is the number of intrinsic slots considered when an intrinsic
// is rolled at spawn time.
const IntrinsicTier = 2

var characterNamespace = uuid.MustParse("5b0e6b0e-8f0c-4c9a-9d36-3c6f2d1c9a71")

// MobSpawn is a recipe for one monster. Empty identity fields and a nil Form
// are rolled from the species reference data.
type MobSpawn struct {
	Species    string              `yaml:"species"`
	Form       *int                `yaml:"form,omitempty"`
	Skin       string              `yaml:"skin,omitempty"`
	Gender     refdata.Gender      `yaml:"gender,omitempty"`
	Level      rangeindex.IntRange `yaml:"level"`
	Skills     []string            `yaml:"skills,omitempty"`
	Intrinsic  string              `yaml:"intrinsic,omitempty"`
	Tactic     string              `yaml:"tactic,omitempty"`
	Conditions Conditions          `yaml:"conditions,omitempty"`
	Features   Features            `yaml:"features,omitempty"`
}

// CanSpawn evaluates the conditions in order and stops at the first false.
func (s *MobSpawn) CanSpawn(m *floor.Map) bool {
	for _, c := range s.Conditions {
		if !c.CanSpawn(m) {
			return false
		}
	}
	return true
}

// Spawn creates a character and registers it with team. It returns (nil, nil)
// when a condition rejects the spawn. An unknown species, skill or status is
// fatal.
func (s *MobSpawn) Spawn(m *floor.Map, team *floor.Team) (*floor.Character, error) {
	if !s.CanSpawn(m) {
		return nil, nil
	}

	species, err := m.Data.Species(s.Species)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", s.Species, err)
	}
	var formIndex int
	if s.Form != nil {
		formIndex = *s.Form
		if formIndex < 0 || formIndex >= len(species.Forms) {
			return nil, fmt.Errorf("spawn %s: form %d: %w", s.Species, formIndex, refdata.ErrUnknownID)
		}
	} else {
		formIndex = species.RollForm(m.Rand)
	}
	form := species.Form(formIndex)

	gender := s.Gender
	if gender == "" {
		gender = form.RollGender(m.Rand)
	}
	skin := s.Skin
	if skin == "" {
		skin = form.RollSkin(m.Rand)
	}

	level := s.Level.Roll(m.Rand)

	skills, err := s.skillLoadout(m.Data, form, level)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", s.Species, err)
	}

	intrinsic := s.Intrinsic
	if intrinsic == "" {
		intrinsic = form.RollIntrinsic(m.Rand, IntrinsicTier)
	}

	c := &floor.Character{
		ID:            characterID(m, team),
		Name:          species.Name,
		Species:       species.ID,
		Form:          formIndex,
		Skin:          skin,
		Gender:        gender,
		Level:         level,
		Skills:        skills,
		Intrinsic:     intrinsic,
		Tactic:        s.Tactic,
		Discriminator: m.Rand.Int32(),
	}
	team.Add(c)

	for i, f := range s.Features {
		if err := f.ApplyFeature(m, c); err != nil {
			return nil, fmt.Errorf("spawn %s: feature %d: %w", s.Species, i, err)
		}
	}
	return c, nil
}

// skillLoadout fills explicit skills first, then the latest skills learnable at
// or below level, up to floor.MaxSkills without duplicates.
func (s *MobSpawn) skillLoadout(data refdata.Provider, form *refdata.Form, level int) ([]string, error) {
	skills := make([]string, 0, floor.MaxSkills)
	have := mapset.New[string]()
	add := func(id string) error {
		if len(skills) >= floor.MaxSkills || have.Has(id) {
			return nil
		}
		if _, err := data.Skill(id); err != nil {
			return err
		}
		have.Put(id)
		skills = append(skills, id)
		return nil
	}
	for _, id := range s.Skills {
		if err := add(id); err != nil {
			return nil, err
		}
	}
	for _, id := range form.LatestSkills(level) {
		if len(skills) >= floor.MaxSkills {
			break
		}
		if err := add(id); err != nil {
			return nil, err
		}
	}
	return skills, nil
}

// characterID is a name-based UUID over the character's place in the floor, so
// it is stable across runs without consuming randomness.
func characterID(m *floor.Map, team *floor.Team) string {
	name := fmt.Sprintf("%s/%d/%d/%d", m.ZoneID, m.Index, team.Index, team.Len())
	return uuid.NewSHA1(characterNamespace, []byte(name)).String()
}

// Normalize fills defaults after decoding: a missing level becomes 1, and
// unique conditions without a species refer to this recipe's species.
func (s *MobSpawn) Normalize() {
	if s.Level.Empty() {
		s.Level = rangeindex.Single(max(s.Level.Min, 1))
	}
	for _, c := range s.Conditions {
		if u, ok := c.(*UniqueCondition); ok && u.Species == "" {
			u.Species = s.Species
		}
	}
}

func (s *MobSpawn) String() string {
	return fmt.Sprintf("%s %s", s.Species, s.Level)
}
