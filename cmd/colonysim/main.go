package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sporefront/colony/internal/board"
	"github.com/sporefront/colony/internal/config"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/death"
	"github.com/sporefront/colony/internal/effect"
	"github.com/sporefront/colony/internal/effect/mutations"
	"github.com/sporefront/colony/internal/export"
	"github.com/sporefront/colony/internal/journal"
	"github.com/sporefront/colony/internal/observer"
	"github.com/sporefront/colony/internal/persist"
	"github.com/sporefront/colony/internal/phase"
	"github.com/sporefront/colony/internal/player"
	"github.com/sporefront/colony/internal/rng"
	"github.com/sporefront/colony/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Display helpers ───────────────────────────────────────────────

var printer = message.NewPrinter(language.English)

func printBanner(w, h, players int, seed int64) {
	fmt.Println()
	fmt.Println("\033[32;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[32;1m  │\033[0m             colonysim  v0.1.0             \033[32;1m│\033[0m")
	fmt.Println("\033[32;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mboard:\033[0m %dx%d, %d players \033[90m(seed %d)\033[0m\n\n", w, h, players, seed)
}

func printSection(title string) {
	lineLen := max(3, 46-utf8.RuneCountInString(title)-1)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value string) {
	dotsLen := max(3, 42-utf8.RuneCountInString(label)-len(value))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), value)
}

func printCount(label string, n int) {
	printStat(label, printer.Sprintf("%d", n))
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Simulation ────────────────────────────────────────────────────

func run() error {
	cfgPath := "config/colony.toml"
	if p := os.Getenv("COLONY_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	printBanner(cfg.Game.Width, cfg.Game.Height, len(cfg.Game.Players), seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Rules data
	printSection("data")
	catalog, err := data.LoadCatalog(cfg.Data.Catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	printCount("mutations", catalog.Count())

	scripts, err := scripting.NewEngine(cfg.Data.Scripts, effect.DefaultFormulas{}, log)
	if err != nil {
		return fmt.Errorf("load scripts: %w", err)
	}
	defer scripts.Close()
	printCount("lua formula overrides", len(scripts.Overrides()))
	fmt.Println()

	// 2. Board and players
	ids := make([]int, len(cfg.Game.Players))
	names := make(map[int]string, len(ids))
	players := make([]*player.Player, len(ids))
	for i, name := range cfg.Game.Players {
		ids[i] = i
		names[i] = name
		players[i] = player.New(i, name, catalog, cfg.Rules.BaseGrowthChance)
		players[i].AddMutationPoints(cfg.Game.StartingPoints)
	}
	roster, err := player.NewRoster(players...)
	if err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	b, err := board.New(cfg.Game.Width, cfg.Game.Height, ids, nil)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	r := rng.NewSeeded(seed)
	tally := observer.NewTally()
	obs := observer.Multi{tally, observer.NewLogger(log)}

	dispatcher := effect.NewDispatcher(&effect.Context{
		Board:    b,
		Roster:   roster,
		Rand:     r,
		Observer: obs,
		Formulas: scripts,
		Rules: effect.Rules{
			BaseIncome:        cfg.Rules.BaseIncome,
			AgeDelayThreshold: cfg.Rules.AgeDelayThreshold,
			ToxinDuration:     cfg.Rules.ToxinDuration,
		},
	}, log)
	if err := dispatcher.Register(mutations.Defaults()...); err != nil {
		return fmt.Errorf("register effects: %w", err)
	}
	if err := dispatcher.Attach(); err != nil {
		return fmt.Errorf("attach effects: %w", err)
	}
	recorder := journal.NewRecorder(b, log)

	// 3. Outputs
	var (
		sinks    []journal.Sink
		games    *persist.GameRepo
		gameID   int64
		exporter *export.Exporter
	)
	if cfg.Database.DSN != "" {
		printSection("database")
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(dbCtx, db.Pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("schema at version %d", version))

		games = persist.NewGameRepo(db)
		gameID, err = games.Create(dbCtx, persist.Game{
			Seed:         seed,
			Width:        cfg.Game.Width,
			Height:       cfg.Game.Height,
			Players:      cfg.Game.Players,
			GrowthCycles: cfg.Game.GrowthCycles,
		})
		if err != nil {
			return err
		}
		sinks = append(sinks, persist.NewJournalRepo(db).Sink(gameID))
		printStat("game id", strconv.FormatInt(gameID, 10))
		fmt.Println()
	}
	if cfg.Export.Dir != "" {
		exporter = export.New(cfg.Export.Dir, strconv.FormatInt(seed, 10), names)
		sinks = append(sinks, exporter)
	}

	// 4. Play
	orch, err := phase.New(b, roster, r, phase.Config{
		GrowthCycles: cfg.Game.GrowthCycles,
		Death: death.Params{
			BaseDeathRate:     cfg.Rules.BaseDeathRate,
			AgeDelayThreshold: cfg.Rules.AgeDelayThreshold,
			AgeFactor:         cfg.Rules.AgeFactor,
		},
	}, phase.WithStrategy(phase.RandomStrategy{}), phase.WithObserver(obs), phase.WithLogger(log))
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}
	if err := b.PlaceStartingSpores(); err != nil {
		return fmt.Errorf("starting spores: %w", err)
	}

	printSection("simulation")
	start := time.Now()
	played := 0
	var last []phase.Summary
	err = orch.Run(ctx, cfg.Game.Rounds, func(sums []phase.Summary) error {
		played++
		last = sums
		if err := recorder.Flush(ctx, sinks...); err != nil {
			return err
		}
		if games != nil {
			if err := games.WriteRoundSummaries(ctx, gameID, sums); err != nil {
				return err
			}
		}
		if exporter != nil {
			exporter.AddSummaries(sums)
		}
		if played%10 == 0 {
			log.Info("round complete", zap.Int("round", sums[0].Round), zap.Int("occupied", b.OccupiedCount()))
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		log.Warn("simulation interrupted", zap.Int("rounds", played))
	} else if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := b.Verify(); err != nil {
		return fmt.Errorf("board check: %w", err)
	}
	printCount("rounds played", played)
	printStat("elapsed", time.Since(start).Round(time.Millisecond).String())
	fmt.Println()

	// 5. Wrap up
	finishCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if games != nil {
		if err := games.Finish(finishCtx, gameID, played); err != nil {
			return err
		}
	}
	if exporter != nil {
		paths, err := exporter.Close()
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		for _, p := range paths {
			printOK("wrote " + p)
		}
		fmt.Println()
	}

	printResults(last, names, tally)
	if cfg.Game.Width <= 80 {
		fmt.Println()
		fmt.Println(b.String())
	}
	return nil
}

func printResults(last []phase.Summary, names map[int]string, tally *observer.Tally) {
	for _, s := range last {
		stats := tally.Player(s.PlayerID)
		printSection(names[s.PlayerID])
		printCount("living cells", s.Living)
		printCount("dead cells", s.Dead)
		printCount("toxins", s.Toxins)
		printCount("resistant", s.Resistant)
		printStat("board share", printer.Sprintf("%.2f%%", s.Occupancy*100))
		printCount("cells grown", stats.Grown)
		printCount("kills", stats.Kills)
		printCount("reclaims", stats.Reclaims)
		printCount("points earned", stats.PointsEarned)
		printCount("free upgrades", stats.FreeUpgrades)
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
