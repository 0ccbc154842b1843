package engine

import (
	"math"
	"sort"
	"strings"

	"uex-hauler/internal/uex"
)

// topN returns the configured slice size, defaulting to 3.
func (cfg PenaltyConfig) topN() int {
	if cfg.TopN > 0 {
		return cfg.TopN
	}
	return defaultTopN
}

// penaltyFor sums the applicable flat penalties for one location. Each
// penalty is a configured constant; the sum is never negative.
func (cfg PenaltyConfig) penaltyFor(p uex.PricePoint, armistice map[int64]bool) float64 {
	var penalty float64
	if cfg.HomeSystem != "" && p.System != "" && p.System != cfg.HomeSystem {
		penalty += cfg.CrossSystemPenalty
	}
	if armistice[p.LocationID] {
		penalty += cfg.ArmisticePenalty
	}
	for _, spot := range cfg.Hotspots {
		if spot != "" && strings.Contains(p.LocationName, spot) {
			penalty += cfg.HotspotPenalty
			break
		}
	}
	return penalty
}

// RankLocations orders a commodity's sell locations by penalty-adjusted
// price. Locations without a usable sell price are excluded before ranking,
// not ranked with a synthetic price.
//
// The comparator is a total order (adjusted price desc, then stock desc for
// more capacity to execute the trade, then location ID asc) so re-ranking
// identical inputs always yields the identical sequence.
func RankLocations(points []uex.PricePoint, armistice map[int64]bool, cfg PenaltyConfig) []RankedLocation {
	ranked := make([]RankedLocation, 0, len(points))
	for _, p := range points {
		if p.SellPrice == nil {
			continue
		}
		price := *p.SellPrice
		if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
			continue
		}
		penalty := cfg.penaltyFor(p, armistice)
		stock := 0.0
		if p.StockSCU != nil && !math.IsNaN(*p.StockSCU) {
			stock = *p.StockSCU
		}
		ranked = append(ranked, RankedLocation{
			LocationID:    p.LocationID,
			LocationName:  p.LocationName,
			PricePerSCU:   price,
			Penalty:       penalty,
			AdjustedPrice: price - penalty,
			StockSCU:      stock,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.AdjustedPrice != b.AdjustedPrice {
			return a.AdjustedPrice > b.AdjustedPrice
		}
		if a.StockSCU != b.StockSCU {
			return a.StockSCU > b.StockSCU
		}
		return a.LocationID < b.LocationID
	})
	return ranked
}

// RankBestPrices runs the ranking pass for every cargo line and aggregates
// the single best-overall recommendation, weighted by held quantity: a large
// quantity at a good price beats a tiny quantity at a great price.
// BestOverall is nil when the cargo set is empty or nothing has a sell price.
func RankBestPrices(items []CargoItem, snapshot map[string][]uex.PricePoint, armistice map[int64]bool, cfg PenaltyConfig) BestPriceSummary {
	summary := BestPriceSummary{Suggestions: make([]BestPriceSuggestion, 0, len(items))}

	for _, item := range items {
		ranked := RankLocations(snapshot[item.CommodityID], armistice, cfg)
		if len(ranked) == 0 {
			continue
		}

		top := ranked
		if n := cfg.topN(); len(top) > n {
			top = top[:n]
		}
		summary.Suggestions = append(summary.Suggestions, BestPriceSuggestion{
			CommodityID: item.CommodityID,
			QuantitySCU: item.QuantitySCU,
			Locations:   top,
		})

		weighted := ranked[0].AdjustedPrice * item.QuantitySCU
		if summary.BestOverall == nil || weighted > summary.BestOverall.WeightedValue {
			summary.BestOverall = &BestOverall{
				RankedLocation: ranked[0],
				CommodityID:    item.CommodityID,
				HeldSCU:        item.QuantitySCU,
				WeightedValue:  weighted,
			}
		}
	}
	return summary
}
