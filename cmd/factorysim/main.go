// Command factorysim runs the multi-factory production economy
// simulation: automated factories plan with an LP each day, trade
// through the shared order book, and the market reprices resources
// from open demand. A human player drives factory 1 over the HTTP API.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talgya/factory-world/internal/api"
	"github.com/talgya/factory-world/internal/engine"
	"github.com/talgya/factory-world/internal/persistence"
	"github.com/talgya/factory-world/internal/worldgen"
)

func main() {
	var (
		seed        = flag.Int64("seed", 42, "world generation seed (0 = random)")
		dbPath      = flag.String("db", "data/factorysim.db", "path to the history database")
		apiPort     = flag.Int("port", 8080, "HTTP API port")
		dayInterval = flag.Duration("day", time.Second, "wall-clock duration of one sim-day")
		factories   = flag.Int("factories", 6, "number of automated factories")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("factory-world — production economy simulation")

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	// ── World generation ──────────────────────────────────────────────
	cfg := worldgen.DefaultGenConfig()
	cfg.Seed = *seed
	cfg.NumAIFactorys = *factories
	world := worldgen.Generate(cfg)

	if err := world.Catalog.Validate(); err != nil {
		slog.Error("generated catalog failed validation", "error", err)
		os.Exit(1)
	}
	slog.Info("world generated",
		"seed", *seed,
		"resources", len(world.Catalog.Resources),
		"products", len(world.Catalog.Products),
		"equipment", len(world.Catalog.Equipment),
		"factories", len(world.AIFactories)+1,
	)

	sim := engine.NewSimulation(world, *seed)

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.Interval = *dayInterval
	eng.OnDay = func(day uint64) {
		report := sim.TickDay(day)
		if err := db.SaveDay(report, sim.Factories(), sim.OrderSnapshot(0)); err != nil {
			slog.Error("daily save failed", "day", day, "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	server := &api.Server{
		Sim:      sim,
		Eng:      eng,
		Port:     *apiPort,
		AdminKey: os.Getenv("FACTORYSIM_ADMIN_KEY"),
	}
	server.Start()

	// ── Run until interrupted ─────────────────────────────────────────
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		slog.Info("shutdown signal received")
		eng.Stop()
	}()

	eng.Run()
	slog.Info("simulation ended", "days", eng.Day)
}
