// preview serves generated floors of a zone over WebSocket at /ws.
package main

import (
	"flag"
	"os"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/preview"
	"github.com/lawnchairsociety/dungeongen/internal/script"
	"github.com/lawnchairsociety/dungeongen/internal/zone"
)

func main() {
	configFile := flag.String("config", "data/dungeongen.yaml", "Path to generator config YAML file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	zoneFile := flag.String("zone", "", "Zone file (overrides config)")
	seed := flag.Uint64("seed", 0, "Run seed (overrides config)")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*configFile)
	logger.Initialize(logConfig)

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Error("Failed to load config", "path", *configFile, "error", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Preview.Address = *addr
		case "zone":
			cfg.Generator.ZoneFile = *zoneFile
		case "seed":
			cfg.Generator.Seed = *seed
		}
	})

	doc, err := zone.LoadDocument(cfg.Generator.ZoneFile)
	if err != nil {
		logger.Error("Failed to load zone", "path", cfg.Generator.ZoneFile, "error", err)
		os.Exit(1)
	}
	data, closeData, err := database.OpenProvider(cfg.Database, cfg.Generator.DataFile)
	if err != nil {
		logger.Error("Failed to open reference data", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeData()

	gen := zone.NewGenerator(doc, zone.Options{
		Seed:    cfg.Generator.Seed,
		Data:    data,
		Scripts: script.NewRegistry(),
		Width:   cfg.Generator.MapWidth,
		Height:  cfg.Generator.MapHeight,
	})

	logger.Info("Preview server starting", "address", cfg.Preview.Address, "zone", doc.ID, "seed", cfg.Generator.Seed)
	if err := preview.NewServer(gen, cfg.Preview).ListenAndServe(); err != nil {
		logger.Error("Preview server stopped", "error", err)
		closeData()
		os.Exit(1)
	}
}
