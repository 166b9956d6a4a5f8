package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/refdata"
)

// ErrDuplicateID is returned by ImportCatalog when a record already exists
// and replace was not requested.
var ErrDuplicateID = errors.New("database: duplicate id")

// recordCache memoizes records by id. Records are immutable once served.
type recordCache[T any] struct {
	mu sync.RWMutex
	m  map[string]*T
}

func (c *recordCache[T]) get(id string, load func(string) (*T, error)) (*T, error) {
	c.mu.RLock()
	rec, ok := c.m[id]
	c.mu.RUnlock()
	if ok {
		return rec, nil
	}

	rec, err := load(id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.m == nil {
		c.m = make(map[string]*T)
	}
	c.m[id] = rec
	c.mu.Unlock()
	return rec, nil
}

func (c *recordCache[T]) reset() {
	c.mu.Lock()
	c.m = nil
	c.mu.Unlock()
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", kind, id, refdata.ErrUnknownID)
	}
	return fmt.Errorf("failed to load %s %q: %w", kind, id, err)
}

// Species implements refdata.Provider.
func (d *Database) Species(id string) (*refdata.Species, error) {
	return d.species.get(id, d.loadSpecies)
}

// Skill implements refdata.Provider.
func (d *Database) Skill(id string) (*refdata.Skill, error) {
	return d.skills.get(id, func(id string) (*refdata.Skill, error) {
		s := &refdata.Skill{ID: id}
		err := d.db.QueryRow(d.qb.Build(`SELECT name, power FROM skills WHERE id = ?`), id).Scan(&s.Name, &s.Power)
		if err != nil {
			return nil, notFound("skill", id, err)
		}
		return s, nil
	})
}

// Intrinsic implements refdata.Provider.
func (d *Database) Intrinsic(id string) (*refdata.Intrinsic, error) {
	return d.intrinsics.get(id, func(id string) (*refdata.Intrinsic, error) {
		in := &refdata.Intrinsic{ID: id}
		err := d.db.QueryRow(d.qb.Build(`SELECT name FROM intrinsics WHERE id = ?`), id).Scan(&in.Name)
		if err != nil {
			return nil, notFound("intrinsic", id, err)
		}
		return in, nil
	})
}

// Status implements refdata.Provider.
func (d *Database) Status(id string) (*refdata.Status, error) {
	return d.statuses.get(id, func(id string) (*refdata.Status, error) {
		s := &refdata.Status{ID: id}
		var targeted int
		err := d.db.QueryRow(d.qb.Build(`SELECT name, targeted FROM statuses WHERE id = ?`), id).Scan(&s.Name, &targeted)
		if err != nil {
			return nil, notFound("status", id, err)
		}
		s.Targeted = targeted != 0
		return s, nil
	})
}

func (d *Database) loadSpecies(id string) (*refdata.Species, error) {
	s := &refdata.Species{ID: id}
	var forms string
	err := d.db.QueryRow(d.qb.Build(`SELECT name, forms FROM species WHERE id = ?`), id).Scan(&s.Name, &forms)
	if err != nil {
		return nil, notFound("species", id, err)
	}
	if err := yaml.Unmarshal([]byte(forms), &s.Forms); err != nil {
		return nil, fmt.Errorf("species %q: failed to parse forms: %w", id, err)
	}
	if len(s.Forms) == 0 {
		return nil, fmt.Errorf("species %q has no forms", id)
	}
	return s, nil
}

// ImportStats counts the records written by ImportCatalog.
type ImportStats struct {
	Species    int
	Skills     int
	Intrinsics int
	Statuses   int
}

// Total is the number of records written.
func (s ImportStats) Total() int {
	return s.Species + s.Skills + s.Intrinsics + s.Statuses
}

// ImportCatalog writes every record of c in one transaction. With replace,
// existing rows are overwritten; without it an existing id fails the import
// with ErrDuplicateID and nothing is written.
func (d *Database) ImportCatalog(c *refdata.Catalog, replace bool) (ImportStats, error) {
	var stats ImportStats

	tx, err := d.db.Begin()
	if err != nil {
		return stats, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	write := func(kind, table, id string, columns []string, args ...any) error {
		var query string
		if replace {
			query = d.qb.Upsert(table, "id", columns...)
		} else {
			query = d.qb.Insert(table, append([]string{"id"}, columns...)...)
		}
		if _, err := tx.Exec(query, append([]any{id}, args...)...); err != nil {
			if d.dialect.IsDuplicateKeyError(err) {
				return fmt.Errorf("%s %q: %w", kind, id, ErrDuplicateID)
			}
			return fmt.Errorf("failed to write %s %q: %w", kind, id, err)
		}
		return nil
	}

	for _, s := range c.SpeciesList {
		forms, err := yaml.Marshal(s.Forms)
		if err != nil {
			return stats, fmt.Errorf("species %q: failed to encode forms: %w", s.ID, err)
		}
		if err := write("species", "species", s.ID, []string{"name", "forms"}, s.Name, string(forms)); err != nil {
			return stats, err
		}
		stats.Species++
	}
	for _, s := range c.SkillList {
		if err := write("skill", "skills", s.ID, []string{"name", "power"}, s.Name, s.Power); err != nil {
			return stats, err
		}
		stats.Skills++
	}
	for _, in := range c.IntrinsicList {
		if err := write("intrinsic", "intrinsics", in.ID, []string{"name"}, in.Name); err != nil {
			return stats, err
		}
		stats.Intrinsics++
	}
	for _, s := range c.StatusList {
		targeted := 0
		if s.Targeted {
			targeted = 1
		}
		if err := write("status", "statuses", s.ID, []string{"name", "targeted"}, s.Name, targeted); err != nil {
			return stats, err
		}
		stats.Statuses++
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("failed to commit import: %w", err)
	}

	d.species.reset()
	d.skills.reset()
	d.intrinsics.reset()
	d.statuses.reset()

	logger.Info("reference data imported",
		"species", stats.Species, "skills", stats.Skills,
		"intrinsics", stats.Intrinsics, "statuses", stats.Statuses)
	return stats, nil
}

// Counts returns the number of stored records per table.
func (d *Database) Counts() (ImportStats, error) {
	var stats ImportStats
	tables := []struct {
		name string
		dst  *int
	}{
		{"species", &stats.Species},
		{"skills", &stats.Skills},
		{"intrinsics", &stats.Intrinsics},
		{"statuses", &stats.Statuses},
	}
	for _, t := range tables {
		if err := d.db.QueryRow("SELECT COUNT(*) FROM " + t.name).Scan(t.dst); err != nil {
			return stats, fmt.Errorf("failed to count %s: %w", t.name, err)
		}
	}
	return stats, nil
}
