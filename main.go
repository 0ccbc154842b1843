package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"uex-hauler/internal/api"
	"uex-hauler/internal/config"
	"uex-hauler/internal/db"
	"uex-hauler/internal/engine"
	"uex-hauler/internal/logger"
	"uex-hauler/internal/scheduler"
	"uex-hauler/internal/uex"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	logger.Banner(version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("CONFIG", fmt.Sprintf("Failed to load config: %v", err))
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("CONFIG", fmt.Sprintf("Invalid config: %v", err))
		os.Exit(1)
	}

	// Open SQLite database
	database, err := db.Open(cfg.Database.SQLitePath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	cache := engine.NewPriceCache(
		time.Duration(cfg.Cache.PriceTTLMinutes)*time.Minute,
		time.Duration(cfg.Cache.CommodityTTLHours)*time.Hour,
	)

	cargo := engine.NewCargoSet()
	cargo.Load(database.LoadCargo())
	logger.Stats("Cargo lines", len(cargo.Items()))

	client := uex.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.APIToken)

	sched := scheduler.NewScheduler(client, cache, cargo, database)
	if err := sched.RegisterAll(cfg.Schedule.PricesCron, cfg.Schedule.CommoditiesCron, cfg.Schedule.TerminalsCron); err != nil {
		logger.Error("SCHED", fmt.Sprintf("Failed to register tasks: %v", err))
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	// Warm the reference data in the background; the API serves whatever is
	// available meanwhile.
	go func() {
		sched.RefreshCommodities()
		sched.RefreshTerminals()
		sched.RefreshHeldPrices()
	}()

	srv := api.NewServer(cfg, sched, cache, cargo, database)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	logger.Server(addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}
