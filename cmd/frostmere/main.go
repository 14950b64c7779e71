package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/frostmere/server/internal/auth"
	"github.com/frostmere/server/internal/config"
	coresys "github.com/frostmere/server/internal/core/system"
	"github.com/frostmere/server/internal/data"
	"github.com/frostmere/server/internal/handler"
	gonet "github.com/frostmere/server/internal/net"
	"github.com/frostmere/server/internal/store"
	"github.com/frostmere/server/internal/system"
	"github.com/frostmere/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            Frostmere  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       vanilla 1.12 world server           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mRealm:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("FROSTMERE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Load static data tables
	printSection("Data")

	tables, err := data.LoadAll("data/yaml")
	if err != nil {
		return err
	}
	printStat("Item templates", tables.Items.Count())
	printStat("Creature templates", tables.Creatures.Count())
	printStat("Creature spawns", len(tables.Spawns))
	printStat("Character starts", tables.CharStart.Count())
	printStat("Named locations", tables.Locations.Count())
	printStat("Area triggers", tables.AreaTriggers.Count())
	fmt.Println()

	// 4. Create in-memory stores
	accounts := store.NewAccountDB(cfg.Auth.AutoCreateAccounts)
	characters := store.NewCharacterDB()

	// 5. Realm logon server (SRP exchange + realm list)
	authServer, err := auth.NewServer(cfg, accounts, log)
	if err != nil {
		return err
	}
	go authServer.AcceptLoop()

	// 6. World server: the session key proved at logon gates the world port.
	netServer, err := gonet.NewServer(
		cfg.Network.WorldBindAddress,
		accounts.SessionKey,
		cfg.Network.InQueueSize,
		cfg.Network.OutQueueSize,
		cfg.Network.WriteTimeout,
		log,
	)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	go netServer.AcceptLoop()

	// 7. World state, message dispatcher, and tick systems
	w := world.New(cfg, log, characters, tables, netServer.NewSessions())
	w.SetDispatcher(handler.New(&handler.Deps{
		Config: cfg,
		Log:    log,
		Tables: tables,
	}))
	w.SpawnCreatures()

	runner := coresys.NewRunner()
	system.RegisterAll(runner, w)

	// 8. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Network.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("logon server on %s", authServer.Addr()))
	printReady(fmt.Sprintf("world server on %s", netServer.Addr()))
	printReady(fmt.Sprintf("game loop started (tick: %s)", cfg.Network.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			runner.Tick(cfg.Network.TickRate)
			if elapsed := time.Since(start); elapsed > cfg.Network.TickRate {
				log.Warn("tick overran budget",
					zap.Duration("elapsed", elapsed),
					zap.Duration("budget", cfg.Network.TickRate),
					zap.Uint64("tick", w.TickCount()))
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			saveAllCharacters(w, characters, log)
			netServer.Shutdown()
			authServer.Shutdown()
			log.Info("server stopped")
			return nil
		}
	}
}

// saveAllCharacters writes every in-world character back to the store. Runs
// on the tick goroutine, after the last tick completed.
func saveAllCharacters(w *world.World, characters *store.CharacterDB, log *zap.Logger) {
	count := 0
	w.EachInWorld(func(c *world.Client) {
		characters.Replace(c.Char)
		count++
	})
	if count > 0 {
		log.Info("characters saved", zap.Int("count", count))
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
