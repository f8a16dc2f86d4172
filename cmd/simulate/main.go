// Package main provides the simulate binary: it loads a level and its
// content pools, assigns encounters, auto-resolves every one of them with a
// simple policy, and reports the resulting run log. With -persist the log is
// written to PostgreSQL.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lantern/internal/config"
	"github.com/cory-johannsen/lantern/internal/game/content"
	"github.com/cory-johannsen/lantern/internal/game/encounter"
	"github.com/cory-johannsen/lantern/internal/game/level"
	"github.com/cory-johannsen/lantern/internal/game/rng"
	"github.com/cory-johannsen/lantern/internal/game/run"
	"github.com/cory-johannsen/lantern/internal/observability"
	"github.com/cory-johannsen/lantern/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	levelPath := flag.String("level", "content/levels/crypt.yaml", "path to level YAML file")
	contentDir := flag.String("content", "content/encounters", "path to encounter pool YAML directory")
	scriptDir := flag.String("scripts", "", "override the level's script directory; empty = use the level's own")
	seed := flag.Int64("seed", 0, "RNG seed for reproducible runs; 0 = crypto source")
	persist := flag.Bool("persist", false, "write the run log to PostgreSQL")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	pool, err := content.LoadPoolFromDir(*contentDir)
	if err != nil {
		logger.Fatal("loading encounter pools", zap.Error(err))
	}

	lvl, err := level.LoadFromFile(*levelPath)
	if err != nil {
		logger.Fatal("loading level", zap.Error(err))
	}
	if *scriptDir != "" {
		lvl.ScriptDir = *scriptDir
	}

	var src rng.Source
	if *seed != 0 {
		src = rng.NewSeededSource(*seed)
		logger.Info("using seeded rng", zap.Int64("seed", *seed))
	} else {
		src = rng.NewCryptoSource()
	}

	r, err := run.New(lvl, pool, cfg, src, logger)
	if err != nil {
		logger.Fatal("starting run", zap.Error(err))
	}
	defer r.Close()

	logger.Info("run started",
		zap.String("run_id", r.ID()),
		zap.String("level", lvl.ID),
		zap.Int("encounters", r.Pending()),
		zap.Int("hp", r.HP()),
	)

	playOut(r, logger)

	for _, ev := range r.Events() {
		logger.Info("event",
			zap.Int("seq", ev.Seq),
			zap.Int("x", ev.X),
			zap.Int("y", ev.Y),
			zap.String("type", string(ev.Type)),
			zap.String("outcome", ev.Outcome),
			zap.Int("hp_delta", ev.HpDelta),
			zap.Bool("player_died", ev.PlayerDied),
		)
	}
	logger.Info("run finished",
		zap.Bool("survived", r.Alive()),
		zap.Int("hp", r.HP()),
		zap.Int("resolved", len(r.Events())),
		zap.Int("pending", r.Pending()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if *persist {
		dbPool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer dbPool.Close()

		repo := postgres.NewRunEventRepository(dbPool.DB())
		n, err := repo.InsertBatch(ctx, r.ID(), r.Events())
		if err != nil {
			logger.Fatal("persisting run log", zap.Error(err))
		}
		logger.Info("run log persisted", zap.String("run_id", r.ID()), zap.Int64("events", n))
	}
}

// playOut walks every mine cell and resolves its encounter: fights combats
// deliberately, opens chests, sacrifices at shrines only when the cost is
// affordable, and takes the first dialogue option.
func playOut(r *run.Run, logger *zap.Logger) {
	for _, p := range r.Grid().Mines() {
		if !r.Alive() {
			return
		}
		rec, err := r.Reveal(p.X, p.Y)
		if err != nil || rec == nil {
			continue
		}

		switch params := rec.Params.(type) {
		case encounter.CombatParams:
			est, _ := r.EstimateCombat(p.X, p.Y)
			logger.Debug("engaging combat",
				zap.String("monster", params.Monster),
				zap.Int("estimated_damage", est))
			if _, err := r.ResolveCombat(p.X, p.Y, false); err != nil {
				logger.Warn("combat failed", zap.Error(err))
			}
		case encounter.ChestParams:
			if _, err := r.ResolveChoice(p.X, p.Y, encounter.ChoiceOpen); err != nil {
				logger.Warn("chest failed", zap.Error(err))
			}
		case encounter.ShrineParams:
			choice := encounter.ChoiceSacrifice
			if r.HP() <= params.Cost {
				choice = encounter.ChoiceRefuse
			}
			if _, err := r.ResolveChoice(p.X, p.Y, choice); err != nil {
				logger.Warn("shrine failed", zap.Error(err))
			}
		case encounter.DialogueParams:
			if len(params.Choices) == 0 {
				continue
			}
			choice := encounter.Choice(params.Choices[0].ID)
			if _, err := r.ResolveChoice(p.X, p.Y, choice); err != nil {
				logger.Warn("dialogue failed", zap.Error(err))
			}
		}
	}
}
