// importdata loads a YAML reference data catalog into SQLite or PostgreSQL.
//
// Usage:
//
//	go run ./cmd/importdata -data data/catalog.yaml -driver sqlite -sqlite data/dungeongen.db
//	go run ./cmd/importdata -config data/dungeongen.yaml -driver postgres -replace
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/refdata"
)

func main() {
	configFile := flag.String("config", "data/dungeongen.yaml", "Path to generator config YAML file")
	dataFile := flag.String("data", "", "Reference data catalog to import (overrides config)")
	driver := flag.String("driver", "", "Target database: sqlite or postgres (overrides config)")
	sqlitePath := flag.String("sqlite", "", "Path to SQLite database (overrides config)")
	replace := flag.Bool("replace", false, "Overwrite records whose IDs already exist")
	dryRun := flag.Bool("dry-run", false, "Show what would be imported without making changes")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*configFile)
	logger.Initialize(logConfig)

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fatalf("Error: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.Generator.DataFile = *dataFile
		case "driver":
			cfg.Database.Driver = *driver
		case "sqlite":
			cfg.Database.SQLitePath = *sqlitePath
		}
	})
	if cfg.Database.Driver == database.DriverYAML {
		// The yaml driver has no database; default to the SQLite file.
		cfg.Database.Driver = database.DriverSQLite
	}

	catalog, err := refdata.LoadCatalog(cfg.Generator.DataFile)
	if err != nil {
		fatalf("Error: %v", err)
	}
	logger.Info("Catalog loaded",
		"file", cfg.Generator.DataFile,
		"species", len(catalog.SpeciesList),
		"skills", len(catalog.SkillList),
		"intrinsics", len(catalog.IntrinsicList),
		"statuses", len(catalog.StatusList))

	if *dryRun {
		fmt.Printf("DRY RUN: would import %d records into %s\n",
			len(catalog.SpeciesList)+len(catalog.SkillList)+len(catalog.IntrinsicList)+len(catalog.StatusList),
			cfg.Database.Driver)
		return
	}

	db, err := database.OpenWithConfig(cfg.Database)
	if err != nil {
		fatalf("Error: failed to open database: %v", err)
	}
	defer db.Close()

	stats, err := db.ImportCatalog(catalog, *replace)
	if err != nil {
		db.Close()
		fatalf("Error: import failed: %v", err)
	}
	counts, err := db.Counts()
	if err != nil {
		db.Close()
		fatalf("Error: %v", err)
	}

	fmt.Printf("Imported %d records (species %d, skills %d, intrinsics %d, statuses %d)\n",
		stats.Total(), stats.Species, stats.Skills, stats.Intrinsics, stats.Statuses)
	fmt.Printf("Database now holds %d records\n", counts.Total())
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
