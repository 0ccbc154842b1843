package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"uex-hauler/internal/config"
	"uex-hauler/internal/db"
	"uex-hauler/internal/engine"
	"uex-hauler/internal/uex"
)

// Feed is the refresh collaborator behind the API: it owns the upstream
// client and the reference data (commodity list, armistice terminals).
type Feed interface {
	Commodities() []uex.Commodity
	Armistice() map[int64]bool
	RefreshCommodities()
	RefreshHeldPrices()
	RefreshCommodityPrices(commodityID string) error
}

// Server is the HTTP API server that connects the price feed, the valuation
// engine, and the database.
type Server struct {
	cfg   *config.Config
	feed  Feed
	cache *engine.PriceCache
	cargo *engine.CargoSet
	db    *db.DB // optional; nil disables persistence

	mu     sync.RWMutex
	params engine.ProfitabilityParams
	th     engine.Thresholds
}

// NewServer creates a Server. Stored profitability settings, when present,
// override the config file defaults.
func NewServer(cfg *config.Config, feed Feed, cache *engine.PriceCache, cargo *engine.CargoSet, database *db.DB) *Server {
	s := &Server{
		cfg:   cfg,
		feed:  feed,
		cache: cache,
		cargo: cargo,
		db:    database,
		params: engine.ProfitabilityParams{
			RiskPct:     cfg.Profitability.RiskPct,
			CrewHourly:  cfg.Profitability.CrewHourly,
			CrewSize:    cfg.Profitability.CrewSize,
			TimeMinutes: cfg.Profitability.TimeMinutes,
		},
		th: engine.Thresholds{
			Low:  cfg.Profitability.ThresholdLow,
			High: cfg.Profitability.ThresholdHigh,
		},
	}
	if database != nil {
		s.params, s.th = database.LoadParams(s.params, s.th)
	}
	return s
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/commodities", s.handleCommodities)
	mux.HandleFunc("GET /api/cargo", s.handleGetCargo)
	mux.HandleFunc("POST /api/cargo/adjust", s.handleAdjustCargo)
	mux.HandleFunc("DELETE /api/cargo/{commodityID}", s.handleDeleteCargo)
	mux.HandleFunc("POST /api/cargo/clear", s.handleClearCargo)
	mux.HandleFunc("GET /api/evaluation", s.handleEvaluation)
	mux.HandleFunc("GET /api/profitability", s.handleProfitability)
	mux.HandleFunc("GET /api/bestprices", s.handleBestPrices)
	mux.HandleFunc("GET /api/routes", s.handleRoutes)
	mux.HandleFunc("GET /api/prices/{commodityID}", s.handlePrices)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/cache/clear", s.handleCacheClear)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) penaltyConfig() engine.PenaltyConfig {
	return engine.PenaltyConfig{
		HomeSystem:         s.cfg.Ranking.HomeSystem,
		CrossSystemPenalty: s.cfg.Ranking.CrossSystemPenalty,
		ArmisticePenalty:   s.cfg.Ranking.ArmisticePenalty,
		HotspotPenalty:     s.cfg.Ranking.HotspotPenalty,
		Hotspots:           s.cfg.Ranking.Hotspots,
		TopN:               s.cfg.Ranking.TopN,
	}
}

// ensurePrices fetches price points for any held commodity the cache has
// never seen. Stale entries are served as-is; the cron refresh owns them.
func (s *Server) ensurePrices(commodityIDs []string) {
	for _, id := range commodityIDs {
		if _, freshness := s.cache.Get(id); freshness == engine.Missing {
			s.feed.RefreshCommodityPrices(id)
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"cargo_lines":         len(s.cargo.Items()),
		"cached_commodities":  s.cache.Len(),
		"commodity_list":      s.cache.CommodityFreshness().String(),
		"known_commodities":   len(s.feed.Commodities()),
		"armistice_terminals": len(s.feed.Armistice()),
		"price_ttl_minutes":   int(s.cache.PriceTTL().Minutes()),
		"persistence_enabled": s.db != nil,
	})
}

func (s *Server) handleCommodities(w http.ResponseWriter, r *http.Request) {
	list := s.feed.Commodities()
	if list == nil {
		list = []uex.Commodity{}
	}
	writeJSON(w, map[string]interface{}{
		"commodities": list,
		"freshness":   s.cache.CommodityFreshness().String(),
	})
}

func (s *Server) handleGetCargo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{"items": s.cargo.Items()})
}

func (s *Server) handleAdjustCargo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CommodityID string  `json:"commodity_id"`
		DeltaSCU    float64 `json:"delta_scu"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if req.CommodityID == "" {
		writeError(w, 400, "commodity_id is required")
		return
	}

	qty, err := s.cargo.Adjust(req.CommodityID, req.DeltaSCU)
	if err != nil {
		if errors.Is(err, engine.ErrSubtractBeyondHeld) {
			writeError(w, 409, err.Error())
			return
		}
		writeError(w, 400, err.Error())
		return
	}
	if s.db != nil {
		s.db.SaveCargoItem(req.CommodityID, qty)
	}
	writeJSON(w, map[string]interface{}{
		"commodity_id": req.CommodityID,
		"quantity_scu": qty,
		"held":         qty > 0,
	})
}

func (s *Server) handleDeleteCargo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("commodityID")
	removed := s.cargo.Clear(id)
	if s.db != nil {
		s.db.DeleteCargoItem(id)
	}
	writeJSON(w, map[string]interface{}{"removed": removed})
}

func (s *Server) handleClearCargo(w http.ResponseWriter, r *http.Request) {
	s.cargo.ClearAll()
	if s.db != nil {
		s.db.ClearCargo()
	}
	writeJSON(w, map[string]interface{}{"ok": true})
}

func (s *Server) handleEvaluation(w http.ResponseWriter, r *http.Request) {
	items := s.cargo.Items()
	ids := s.cargo.CommodityIDs()
	s.ensurePrices(ids)

	snapshot := s.cache.Snapshot(ids)
	eval := engine.EvaluatePortfolio(items, snapshot, time.Now(), s.cache.PriceTTL(), s.cfg.Confidence.VolatilityCeiling)
	writeJSON(w, eval)
}

func (s *Server) handleProfitability(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	params, th := s.params, s.th
	s.mu.RUnlock()

	q := r.URL.Query()
	var badParam string
	override := func(key string, dst *float64) {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				badParam = key
				return
			}
			*dst = f
		}
	}
	override("risk_pct", &params.RiskPct)
	override("crew_hourly", &params.CrewHourly)
	override("time_minutes", &params.TimeMinutes)
	override("threshold_low", &th.Low)
	override("threshold_high", &th.High)
	if v := q.Get("crew_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badParam = "crew_size"
		} else {
			params.CrewSize = n
		}
	}
	if badParam != "" {
		writeError(w, 400, "invalid "+badParam)
		return
	}

	items := s.cargo.Items()
	ids := s.cargo.CommodityIDs()
	s.ensurePrices(ids)
	eval := engine.EvaluatePortfolio(items, s.cache.Snapshot(ids), time.Now(), s.cache.PriceTTL(), s.cfg.Confidence.VolatilityCeiling)

	score, err := engine.ScoreProfit(eval.TotalEV, params, th)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}
	if s.db != nil {
		s.db.RecordEvaluation(len(items), eval.TotalEV, eval.Confidence, score.Value, score.Band.String())
	}
	writeJSON(w, map[string]interface{}{
		"evaluation": eval,
		"score":      score,
		"params":     params,
		"thresholds": th,
	})
}

func (s *Server) handleBestPrices(w http.ResponseWriter, r *http.Request) {
	items := s.cargo.Items()
	ids := s.cargo.CommodityIDs()
	s.ensurePrices(ids)

	summary := engine.RankBestPrices(items, s.cache.Snapshot(ids), s.feed.Armistice(), s.penaltyConfig())
	writeJSON(w, summary)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := engine.RouteParams{
		CargoCapacitySCU: s.cfg.Routes.CargoCapacitySCU,
		CommodityID:      q.Get("commodity_id"),
		BuySystem:        q.Get("buy_system"),
		SellSystem:       q.Get("sell_system"),
	}
	if v := q.Get("capacity_scu"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			writeError(w, 400, "invalid capacity_scu")
			return
		}
		params.CargoCapacitySCU = f
	}
	if v := q.Get("min_profit_scu"); v != "" {
		params.MinProfitPerSCU, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("min_roi_percent"); v != "" {
		params.MinROIPercent, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("max_investment"); v != "" {
		params.MaxInvestment, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("limit"); v != "" {
		params.MaxResults, _ = strconv.Atoi(v)
	}

	commodities := s.feed.Commodities()
	ids := make([]string, 0, len(commodities))
	for _, c := range commodities {
		if params.CommodityID == "" || params.CommodityID == c.ID {
			ids = append(ids, c.ID)
		}
	}
	routes := engine.FindRoutes(commodities, s.cache.Snapshot(ids), params)
	if routes == nil {
		routes = []engine.TradeRoute{}
	}
	writeJSON(w, map[string]interface{}{"routes": routes, "count": len(routes)})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("commodityID")
	s.ensurePrices([]string{id})

	points, freshness := s.cache.Get(id)
	if points == nil {
		points = []uex.PricePoint{}
	}
	resp := map[string]interface{}{
		"commodity_id": id,
		"freshness":    freshness.String(),
		"points":       points,
		"confidence":   engine.Confidence(points, time.Now(), s.cache.PriceTTL(), s.cfg.Confidence.VolatilityCeiling),
	}
	if at, ok := s.cache.FetchedAt(id); ok {
		resp["fetched_at"] = at.UTC().Format(time.RFC3339)
	}
	writeJSON(w, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CommodityID string `json:"commodity_id"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if req.CommodityID != "" {
		if err := s.feed.RefreshCommodityPrices(req.CommodityID); err != nil {
			writeError(w, 502, err.Error())
			return
		}
	} else {
		s.feed.RefreshCommodities()
		s.feed.RefreshHeldPrices()
	}
	writeJSON(w, map[string]interface{}{"ok": true})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CommodityID string `json:"commodity_id"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if req.CommodityID != "" {
		s.cache.Clear(req.CommodityID)
	} else {
		s.cache.ClearAll()
	}
	writeJSON(w, map[string]interface{}{"ok": true})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, map[string]interface{}{
		"params":     s.params,
		"thresholds": s.th,
	})
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	params, th := s.params, s.th
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if v, ok := patch["risk_pct"]; ok {
		json.Unmarshal(v, &params.RiskPct)
	}
	if v, ok := patch["crew_hourly"]; ok {
		json.Unmarshal(v, &params.CrewHourly)
	}
	if v, ok := patch["crew_size"]; ok {
		json.Unmarshal(v, &params.CrewSize)
	}
	if v, ok := patch["time_minutes"]; ok {
		json.Unmarshal(v, &params.TimeMinutes)
	}
	if v, ok := patch["threshold_low"]; ok {
		json.Unmarshal(v, &th.Low)
	}
	if v, ok := patch["threshold_high"]; ok {
		json.Unmarshal(v, &th.High)
	}

	// Reject the patch wholesale rather than storing half of it.
	if _, err := engine.ScoreProfit(0, params, th); err != nil {
		writeError(w, 400, err.Error())
		return
	}

	s.params, s.th = params, th
	if s.db != nil {
		s.db.SaveParams(params, th)
	}
	writeJSON(w, map[string]interface{}{
		"params":     params,
		"thresholds": th,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if s.db == nil {
		writeJSON(w, map[string]interface{}{"history": []db.EvaluationRecord{}})
		return
	}
	writeJSON(w, map[string]interface{}{"history": s.db.GetEvaluationHistory(limit)})
}
