package refdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is a Provider backed by an in-memory set of records, normally
// loaded from a YAML file.
type Catalog struct {
	SpeciesList   []*Species   `yaml:"species"`
	SkillList     []*Skill     `yaml:"skills"`
	IntrinsicList []*Intrinsic `yaml:"intrinsics"`
	StatusList    []*Status    `yaml:"statuses"`

	species    map[string]*Species
	skills     map[string]*Skill
	intrinsics map[string]*Intrinsic
	statuses   map[string]*Status
}

// LoadCatalog reads a catalog file.
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and indexes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Index rebuilds the lookup maps from the record lists. It rejects duplicate
// ids and species without forms.
func (c *Catalog) Index() error {
	c.species = make(map[string]*Species, len(c.SpeciesList))
	for _, s := range c.SpeciesList {
		if _, dup := c.species[s.ID]; dup {
			return fmt.Errorf("duplicate species id %q", s.ID)
		}
		if len(s.Forms) == 0 {
			return fmt.Errorf("species %q has no forms", s.ID)
		}
		c.species[s.ID] = s
	}
	var err error
	if c.skills, err = index("skill", c.SkillList, func(s *Skill) string { return s.ID }); err != nil {
		return err
	}
	if c.intrinsics, err = index("intrinsic", c.IntrinsicList, func(i *Intrinsic) string { return i.ID }); err != nil {
		return err
	}
	if c.statuses, err = index("status", c.StatusList, func(s *Status) string { return s.ID }); err != nil {
		return err
	}
	return nil
}

func index[T any](kind string, list []*T, id func(*T) string) (map[string]*T, error) {
	m := make(map[string]*T, len(list))
	for _, v := range list {
		k := id(v)
		if _, dup := m[k]; dup {
			return nil, fmt.Errorf("duplicate %s id %q", kind, k)
		}
		m[k] = v
	}
	return m, nil
}

func lookup[T any](kind string, m map[string]*T, id string) (*T, error) {
	v, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", kind, id, ErrUnknownID)
	}
	return v, nil
}

func (c *Catalog) Species(id string) (*Species, error) {
	return lookup("species", c.species, id)
}

func (c *Catalog) Skill(id string) (*Skill, error) {
	return lookup("skill", c.skills, id)
}

func (c *Catalog) Intrinsic(id string) (*Intrinsic, error) {
	return lookup("intrinsic", c.intrinsics, id)
}

func (c *Catalog) Status(id string) (*Status, error) {
	return lookup("status", c.statuses, id)
}
