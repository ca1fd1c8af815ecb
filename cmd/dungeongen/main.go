// Package main provides the dungeongen command, which generates, stocks and
// prints procedural dungeon maps, optionally saving them to PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/dungeonmap/internal/config"
	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
	"github.com/cory-johannsen/dungeonmap/internal/game/session"
	"github.com/cory-johannsen/dungeonmap/internal/game/tables"
	"github.com/cory-johannsen/dungeonmap/internal/game/templates"
	"github.com/cory-johannsen/dungeonmap/internal/game/treasure"
	"github.com/cory-johannsen/dungeonmap/internal/observability"
	"github.com/cory-johannsen/dungeonmap/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (empty = defaults and DUNGEON_* env)")
	name := flag.String("name", "Dungeon", "document name")
	algorithm := flag.String("algorithm", "", "layout algorithm: rooms, bsp or caves")
	size := flag.String("size", "", "dungeon size: small, medium or large")
	density := flag.Int("density", 0, "room density")
	theme := flag.String("theme", "", "theme: classic, undead, cavern or arcane")
	level := flag.Int("level", 0, "dungeon level used for challenge ratings")
	seed := flag.Uint64("seed", 0, "random seed (0 = crypto randomness)")
	template := flag.String("template", "", "load a built-in template instead of generating: "+fmt.Sprint(templates.MustDefault().IDs()))
	importPath := flag.String("import", "", "open a JSON export instead of generating")
	loadID := flag.String("load", "", "open a stored document by id instead of generating")
	detectDoors := flag.Bool("doors", true, "auto-detect doors where corridors meet rooms")
	format := flag.String("format", "text", "output format: text or json")
	batch := flag.Int("batch", 1, "number of independent dungeons to generate")
	save := flag.Bool("save", false, "store the generated documents in PostgreSQL")
	hoardCR := flag.Float64("hoard", -1, "print a treasure hoard for this challenge rating and exit")
	flag.Parse()

	// Interrupts cancel an in-flight batch.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "algorithm":
			cfg.Generation.Algorithm = *algorithm
		case "size":
			cfg.Generation.Size = *size
		case "density":
			cfg.Generation.Density = *density
		case "theme":
			cfg.Generation.Theme = *theme
		case "level":
			cfg.Generation.DungeonLevel = *level
		case "seed":
			cfg.Generation.Seed = *seed
		}
	})
	params := cfg.Generation.Params()
	if err := params.Validate(); err != nil {
		logger.Fatal("invalid generation parameters", zap.Error(err))
	}

	if *hoardCR >= 0 {
		roller := dice.NewLoggedRoller(dice.NewSource(cfg.Generation.Seed), logger)
		hoard := treasure.NewEngine(roller).Generate(*hoardCR, treasure.AllCategories)
		fmt.Println(treasure.FormatHoard(hoard))
		return
	}

	tbls, err := tables.Default()
	if err != nil {
		logger.Fatal("loading random tables", zap.Error(err))
	}
	catalog, err := templates.Default()
	if err != nil {
		logger.Fatal("loading templates", zap.Error(err))
	}
	mgr := session.NewManager(session.Deps{Tables: tbls, Templates: catalog, Logger: logger}, cfg.Generation.Grid())

	var store *postgres.DocumentRepository
	if *save || *loadID != "" {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		store = pool.Documents()
	}

	j := job{
		mgr:         mgr,
		store:       store,
		logger:      logger,
		name:        *name,
		params:      params,
		template:    *template,
		importPath:  *importPath,
		loadID:      *loadID,
		detectDoors: *detectDoors,
		save:        *save,
	}

	n := max(*batch, 1)
	snaps := make([]snapshot, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < n; i++ {
		runSeed := cfg.Generation.Seed
		if runSeed != 0 {
			runSeed += uint64(i)
		}
		runName := j.name
		if n > 1 {
			runName = fmt.Sprintf("%s %d", j.name, i+1)
		}
		g.Go(func() error {
			snap, err := j.run(gctx, runName, runSeed)
			if err != nil {
				return fmt.Errorf("dungeon %d: %w", i+1, err)
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("generation failed", zap.Error(err))
	}

	switch *format {
	case "json":
		err = writeJSON(os.Stdout, snaps)
	default:
		for _, s := range snaps {
			if err = writeText(os.Stdout, s); err != nil {
				break
			}
		}
	}
	if err != nil {
		logger.Fatal("writing output", zap.Error(err))
	}

	logger.Info("done", zap.Int("dungeons", n), zap.Duration("elapsed", time.Since(start)))
}

// job holds the settings shared by every dungeon in a batch.
type job struct {
	mgr         *session.Manager
	store       *postgres.DocumentRepository
	logger      *zap.Logger
	name        string
	params      dungeon.Params
	template    string
	importPath  string
	loadID      string
	detectDoors bool
	save        bool
}

func (j job) run(ctx context.Context, name string, seed uint64) (snapshot, error) {
	doc, err := j.openDocument(ctx, name)
	if err != nil {
		return snapshot{}, err
	}
	sess, err := j.mgr.Open(doc, j.params, seed)
	if err != nil {
		return snapshot{}, err
	}
	sub, err := j.mgr.Subscribe(sess.ID, 32)
	if err != nil {
		return snapshot{}, err
	}
	defer func() {
		_ = j.mgr.Close(sess.ID)
		for ev := range sub.Events() {
			j.logger.Debug("session event", zap.String("session", sess.ID), zap.ByteString("event", ev))
		}
	}()

	switch {
	case j.template != "":
		if err := sess.LoadTemplate(j.template); err != nil {
			return snapshot{}, err
		}
		sess.FillDescriptions()
	case j.importPath != "" || j.loadID != "":
		sess.FillDescriptions()
	default:
		if _, err := sess.Regenerate(ctx); err != nil {
			return snapshot{}, err
		}
	}
	if j.detectDoors {
		sess.AutoDetectDoors()
	}

	if j.save {
		id := uuid.Nil
		if j.loadID != "" {
			id, _ = uuid.Parse(j.loadID)
		}
		stored, err := j.store.Save(ctx, id, sess.Document())
		if err != nil {
			return snapshot{}, err
		}
		j.logger.Info("document saved", zap.String("id", stored.ID.String()), zap.String("name", stored.Name))
	}
	return takeSnapshot(sess, seed), nil
}

func (j job) openDocument(ctx context.Context, name string) (*dungeon.Document, error) {
	switch {
	case j.importPath != "":
		data, err := os.ReadFile(j.importPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", j.importPath, err)
		}
		return dungeon.Decode(data)
	case j.loadID != "":
		id, err := uuid.Parse(j.loadID)
		if err != nil {
			return nil, fmt.Errorf("parsing document id %q: %w", j.loadID, err)
		}
		stored, err := j.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return stored.Document, nil
	default:
		return dungeon.NewDocument(name), nil
	}
}
