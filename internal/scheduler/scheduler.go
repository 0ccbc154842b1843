package scheduler

import (
	"fmt"
	"sync"
	"time"

	"uex-hauler/internal/db"
	"uex-hauler/internal/engine"
	"uex-hauler/internal/logger"
	"uex-hauler/internal/uex"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic upstream refreshes and holds the reference
// data (commodity list, terminal metadata) the rest of the app reads.
// Failed refreshes log a warning and leave the previous, possibly stale,
// data in place.
type Scheduler struct {
	Cron   *cron.Cron
	Client *uex.Client
	Cache  *engine.PriceCache
	Cargo  *engine.CargoSet
	Store  *db.DB // optional; nil disables terminal persistence

	mu          sync.RWMutex
	commodities []uex.Commodity
	armistice   map[int64]bool
}

// NewScheduler creates a Scheduler. If store is non-nil the last persisted
// terminal snapshot is loaded so penalties work before the first fetch.
func NewScheduler(client *uex.Client, cache *engine.PriceCache, cargo *engine.CargoSet, store *db.DB) *Scheduler {
	s := &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Client:    client,
		Cache:     cache,
		Cargo:     cargo,
		Store:     store,
		armistice: make(map[int64]bool),
	}
	if store != nil {
		s.applyTerminals(store.LoadTerminals())
	}
	return s
}

// RegisterAll registers the price, commodity and terminal refresh tasks.
func (s *Scheduler) RegisterAll(pricesCron, commoditiesCron, terminalsCron string) error {
	if _, err := s.Cron.AddFunc(pricesCron, s.RefreshHeldPrices); err != nil {
		return fmt.Errorf("register prices task: %w", err)
	}
	if _, err := s.Cron.AddFunc(commoditiesCron, s.RefreshCommodities); err != nil {
		return fmt.Errorf("register commodities task: %w", err)
	}
	if _, err := s.Cron.AddFunc(terminalsCron, s.RefreshTerminals); err != nil {
		return fmt.Errorf("register terminals task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("SCHED", "Scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	logger.Info("SCHED", "Scheduler stopped")
}

// RefreshCommodities fetches the tradeable-commodity list.
func (s *Scheduler) RefreshCommodities() {
	list, err := s.Client.FetchCommodities()
	if err != nil {
		logger.Warn("SCHED", fmt.Sprintf("Commodity refresh failed, keeping previous list: %v", err))
		return
	}
	s.mu.Lock()
	s.commodities = list
	s.mu.Unlock()
	s.Cache.RecordCommodityFetch(time.Now())
	logger.Success("SCHED", fmt.Sprintf("Refreshed %d commodities", len(list)))
}

// RefreshTerminals fetches terminal metadata and rebuilds the armistice set.
func (s *Scheduler) RefreshTerminals() {
	terminals, err := s.Client.FetchTerminals()
	if err != nil {
		logger.Warn("SCHED", fmt.Sprintf("Terminal refresh failed, keeping previous set: %v", err))
		return
	}
	s.applyTerminals(terminals)
	if s.Store != nil {
		if err := s.Store.SaveTerminals(terminals); err != nil {
			logger.Warn("SCHED", fmt.Sprintf("Persist terminals: %v", err))
		}
	}
	logger.Success("SCHED", fmt.Sprintf("Refreshed %d terminals", len(terminals)))
}

// RefreshHeldPrices refreshes price points for every commodity currently in
// the cargo set. Per-commodity failures are logged and skipped so one bad
// upstream response never blocks the rest.
func (s *Scheduler) RefreshHeldPrices() {
	ids := s.Cargo.CommodityIDs()
	if len(ids) == 0 {
		return
	}
	var ok int
	for _, id := range ids {
		if err := s.RefreshCommodityPrices(id); err != nil {
			logger.Warn("SCHED", fmt.Sprintf("Price refresh for %s failed: %v", id, err))
			continue
		}
		ok++
	}
	logger.Info("SCHED", fmt.Sprintf("Refreshed prices for %d/%d held commodities", ok, len(ids)))
}

// RefreshCommodityPrices fetches and caches price points for one commodity.
func (s *Scheduler) RefreshCommodityPrices(commodityID string) error {
	points, err := s.Client.FetchPrices(commodityID)
	if err != nil {
		return err
	}
	s.Cache.Upsert(commodityID, points, time.Now())
	return nil
}

// Commodities returns the current commodity list.
func (s *Scheduler) Commodities() []uex.Commodity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commodities
}

// Armistice returns the set of armistice-zone terminal IDs.
func (s *Scheduler) Armistice() map[int64]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.armistice
}

func (s *Scheduler) applyTerminals(terminals []uex.Terminal) {
	armistice := make(map[int64]bool, len(terminals))
	for _, t := range terminals {
		if t.Armistice {
			armistice[t.ID] = true
		}
	}
	s.mu.Lock()
	s.armistice = armistice
	s.mu.Unlock()
}
