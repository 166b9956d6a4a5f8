package database

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/refdata"
	"github.com/lawnchairsociety/dungeongen/internal/script"
	"github.com/lawnchairsociety/dungeongen/internal/zone"
)

func testCatalog(t *testing.T) *refdata.Catalog {
	t.Helper()
	c, err := refdata.LoadCatalog(filepath.Join("..", "..", "data", "catalog.yaml"))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	return c
}

func importedDB(t *testing.T) (*Database, *refdata.Catalog) {
	t.Helper()
	db := openTestDB(t)
	c := testCatalog(t)
	if _, err := db.ImportCatalog(c, false); err != nil {
		t.Fatalf("ImportCatalog: %v", err)
	}
	return db, c
}

func TestImportCatalog(t *testing.T) {
	db := openTestDB(t)
	c := testCatalog(t)

	stats, err := db.ImportCatalog(c, false)
	if err != nil {
		t.Fatalf("ImportCatalog: %v", err)
	}
	if stats.Species != len(c.SpeciesList) || stats.Skills != len(c.SkillList) ||
		stats.Intrinsics != len(c.IntrinsicList) || stats.Statuses != len(c.StatusList) {
		t.Errorf("unexpected import stats %+v", stats)
	}

	counts, err := db.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if counts != stats {
		t.Errorf("Counts() = %+v, want %+v", counts, stats)
	}
	if counts.Total() != stats.Total() || stats.Total() == 0 {
		t.Errorf("unexpected totals %d / %d", counts.Total(), stats.Total())
	}
}

func TestImportCatalog_Duplicate(t *testing.T) {
	db, c := importedDB(t)

	_, err := db.ImportCatalog(c, false)
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	stats, err := db.ImportCatalog(c, true)
	if err != nil {
		t.Fatalf("replace import failed: %v", err)
	}
	if stats.Species != len(c.SpeciesList) {
		t.Errorf("replace import wrote %d species, want %d", stats.Species, len(c.SpeciesList))
	}
}

func TestImportCatalog_ReplaceInvalidatesCache(t *testing.T) {
	db, _ := importedDB(t)

	before, err := db.Skill("tackle")
	if err != nil {
		t.Fatal(err)
	}

	changed := &refdata.Catalog{SkillList: []*refdata.Skill{{ID: "tackle", Name: "Body Slam", Power: before.Power + 45}}}
	if _, err := db.ImportCatalog(changed, true); err != nil {
		t.Fatal(err)
	}

	after, err := db.Skill("tackle")
	if err != nil {
		t.Fatal(err)
	}
	if after.Name != "Body Slam" || after.Power != before.Power+45 {
		t.Errorf("cached record served after replace: %+v", after)
	}
}

func TestProviderMatchesCatalog(t *testing.T) {
	db, c := importedDB(t)

	for _, want := range c.SpeciesList {
		got, err := db.Species(want.ID)
		if err != nil {
			t.Fatalf("Species(%q): %v", want.ID, err)
		}
		if got.Name != want.Name || len(got.Forms) != len(want.Forms) {
			t.Errorf("species %q = %+v, want %+v", want.ID, got, want)
			continue
		}
		for i := range want.Forms {
			gf, wf := got.Forms[i], want.Forms[i]
			if gf.Name != wf.Name || len(gf.LevelUp) != len(wf.LevelUp) || len(gf.Intrinsics) != len(wf.Intrinsics) {
				t.Errorf("species %q form %d = %+v, want %+v", want.ID, i, gf, wf)
			}
			if gf.Genders.Total() != wf.Genders.Total() || gf.Skins.Total() != wf.Skins.Total() {
				t.Errorf("species %q form %d tables differ", want.ID, i)
			}
		}
	}
	for _, want := range c.StatusList {
		got, err := db.Status(want.ID)
		if err != nil {
			t.Fatalf("Status(%q): %v", want.ID, err)
		}
		if *got != *want {
			t.Errorf("Status(%q) = %+v, want %+v", want.ID, got, want)
		}
	}
	for _, want := range c.IntrinsicList {
		got, err := db.Intrinsic(want.ID)
		if err != nil {
			t.Fatalf("Intrinsic(%q): %v", want.ID, err)
		}
		if *got != *want {
			t.Errorf("Intrinsic(%q) = %+v, want %+v", want.ID, got, want)
		}
	}
}

func TestProviderUnknownID(t *testing.T) {
	db, _ := importedDB(t)

	tests := []struct {
		name   string
		lookup func() error
	}{
		{"species", func() error { _, err := db.Species("missingno"); return err }},
		{"skill", func() error { _, err := db.Skill("splash_dance"); return err }},
		{"intrinsic", func() error { _, err := db.Intrinsic("levitate_twice"); return err }},
		{"status", func() error { _, err := db.Status("grumpy"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lookup()
			if !errors.Is(err, refdata.ErrUnknownID) {
				t.Errorf("expected ErrUnknownID, got %v", err)
			}
		})
	}
}

func TestProviderConcurrentReads(t *testing.T) {
	db, c := importedDB(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8*len(c.SkillList))
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, s := range c.SkillList {
				if _, err := db.Skill(s.ID); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// Floors generated against the database must match floors generated against
// the YAML catalog it was imported from.
func TestGenerationMatchesCatalog(t *testing.T) {
	db, c := importedDB(t)

	doc, err := zone.LoadDocument(filepath.Join("..", "..", "data", "zones", "damp_cave.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	fromYAML := zone.NewGenerator(doc, zone.Options{Seed: 8, Data: c, Scripts: script.NewRegistry()})
	fromSQL := zone.NewGenerator(doc, zone.Options{Seed: 8, Data: db, Scripts: script.NewRegistry()})

	for _, i := range []int{0, 7, 11} {
		a, err := fromYAML.GenerateFloor(i)
		if err != nil {
			t.Fatalf("floor %d (yaml): %v", i, err)
		}
		b, err := fromSQL.GenerateFloor(i)
		if err != nil {
			t.Fatalf("floor %d (sql): %v", i, err)
		}
		if a.Dump() != b.Dump() || strings.Join(a.Roster(), "\n") != strings.Join(b.Roster(), "\n") {
			t.Errorf("floor %d differs between providers", i)
		}
	}
}

func TestOpenProvider(t *testing.T) {
	catalogPath := filepath.Join("..", "..", "data", "catalog.yaml")

	p, closeFn, err := OpenProvider(Config{Driver: DriverYAML}, catalogPath)
	if err != nil {
		t.Fatalf("yaml provider: %v", err)
	}
	if _, ok := p.(*refdata.Catalog); !ok {
		t.Errorf("expected *refdata.Catalog, got %T", p)
	}
	if err := closeFn(); err != nil {
		t.Error(err)
	}

	cfg := DefaultConfig(filepath.Join(t.TempDir(), "ref.db"))
	p, closeFn, err = OpenProvider(cfg, "ignored.yaml")
	if err != nil {
		t.Fatalf("sqlite provider: %v", err)
	}
	defer closeFn()
	if _, ok := p.(*Database); !ok {
		t.Errorf("expected *Database, got %T", p)
	}

	if _, _, err := OpenProvider(Config{Driver: DriverYAML}, "missing.yaml"); err == nil {
		t.Error("expected error for a missing catalog file")
	}
}
