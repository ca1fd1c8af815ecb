// Package main provides a database migration runner for the document store.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/dungeonmap/internal/config"
	"github.com/cory-johannsen/dungeonmap/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (empty = defaults and DUNGEON_* env)")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	var down bool
	switch *direction {
	case "up":
	case "down":
		down = true
		*steps = -*steps
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", *direction)
	}

	res, err := postgres.Migrate(cfg.Database.DSN(), *steps, down)
	if err != nil {
		log.Fatal(err)
	}

	elapsed := time.Since(start)
	if !res.Changed {
		fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v) [%s]\n", res.Version, res.Dirty, elapsed)
	} else {
		fmt.Fprintf(os.Stdout, "migrated %s to version=%d dirty=%v [%s]\n", *direction, res.Version, res.Dirty, elapsed)
	}
}
