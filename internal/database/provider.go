package database

import (
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/refdata"
)

// OpenProvider returns the reference data source selected by cfg: the YAML
// catalog at dataFile for the yaml driver, the database otherwise. The
// returned close function releases the database and is never nil.
func OpenProvider(cfg Config, dataFile string) (refdata.Provider, func() error, error) {
	if cfg.Driver == DriverYAML || cfg.Driver == "" {
		c, err := refdata.LoadCatalog(dataFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("reference data loaded", "file", dataFile, "species", len(c.SpeciesList))
		return c, func() error { return nil }, nil
	}

	db, err := OpenWithConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}
