package engine

import (
	"math"
	"testing"
	"time"

	"uex-hauler/internal/uex"
)

func sellPoint(id int64, price float64, demand uex.DemandLevel, observed time.Time) uex.PricePoint {
	return uex.PricePoint{
		LocationID: id,
		SellPrice:  uex.Float(price),
		SellDemand: demand,
		Volatility: uex.Float(0),
		ObservedAt: observed,
	}
}

func TestEvaluateItem_TwoFreshPoints(t *testing.T) {
	// 100 SCU at sell prices 50 and 70, both fresh, volatility 0:
	// EV = 100 × 60 = 6000, min 50, max 70, confidence > 0.9.
	now := time.Now()
	item := CargoItem{CommodityID: "x", QuantitySCU: 100}
	points := []uex.PricePoint{
		sellPoint(1, 50, uex.DemandNormal, now.Add(-time.Minute)),
		sellPoint(2, 70, uex.DemandHigh, now.Add(-time.Minute)),
	}

	got := EvaluateItem(item, points, now, time.Hour, testVolCeiling)
	if math.Abs(got.EV-6000) > 1e-9 {
		t.Errorf("EV = %v, want 6000", got.EV)
	}
	if got.MinPrice == nil || *got.MinPrice != 50 {
		t.Errorf("MinPrice = %v, want 50", got.MinPrice)
	}
	if got.MaxPrice == nil || *got.MaxPrice != 70 {
		t.Errorf("MaxPrice = %v, want 70", got.MaxPrice)
	}
	if got.Confidence <= 0.9 {
		t.Errorf("Confidence = %v, want > 0.9", got.Confidence)
	}
	if got.Partial {
		t.Error("Partial = true, want false")
	}
}

func TestEvaluateItem_NoPointsIsValidZeroResult(t *testing.T) {
	now := time.Now()
	item := CargoItem{CommodityID: "x", QuantitySCU: 100}

	got := EvaluateItem(item, nil, now, time.Hour, testVolCeiling)
	if got.EV != 0.0 || got.Confidence != 0.0 {
		t.Errorf("EV/Confidence = %v/%v, want 0/0", got.EV, got.Confidence)
	}
	if got.MinPrice != nil || got.MaxPrice != nil {
		t.Errorf("Min/Max = %v/%v, want nil/nil", got.MinPrice, got.MaxPrice)
	}
	if !got.Partial {
		t.Error("Partial = false, want true (item stays visible, flagged)")
	}
}

func TestEvaluateItem_FiltersUnusablePoints(t *testing.T) {
	now := time.Now()
	item := CargoItem{CommodityID: "x", QuantitySCU: 10}
	points := []uex.PricePoint{
		sellPoint(1, 100, uex.DemandNormal, now),
		sellPoint(2, 999, uex.DemandUnavailable, now),       // sell side offline
		{LocationID: 3, SellDemand: uex.DemandNormal, ObservedAt: now},            // no sell price
		{LocationID: 4, SellPrice: uex.Float(math.NaN()), SellDemand: uex.DemandNormal, ObservedAt: now}, // garbage
	}

	got := EvaluateItem(item, points, now, time.Hour, testVolCeiling)
	if math.Abs(got.EV-1000) > 1e-9 {
		t.Errorf("EV = %v, want 1000 (only the usable point counts)", got.EV)
	}
	if got.MinPrice == nil || got.MaxPrice == nil || *got.MinPrice != 100 || *got.MaxPrice != 100 {
		t.Errorf("Min/Max = %v/%v, want 100/100", got.MinPrice, got.MaxPrice)
	}
}

func TestEvaluateItem_OnlyUnavailablePointsIsPartial(t *testing.T) {
	now := time.Now()
	item := CargoItem{CommodityID: "x", QuantitySCU: 10}
	points := []uex.PricePoint{sellPoint(1, 100, uex.DemandUnavailable, now)}

	got := EvaluateItem(item, points, now, time.Hour, testVolCeiling)
	if !got.Partial || got.EV != 0 || got.Confidence != 0 {
		t.Errorf("got %+v, want partial zero evaluation", got)
	}
}

func TestEvaluatePortfolio_SumAndMinConfidence(t *testing.T) {
	now := time.Now()
	items := []CargoItem{
		{CommodityID: "x", QuantitySCU: 100},
		{CommodityID: "y", QuantitySCU: 50},
		{CommodityID: "z", QuantitySCU: 10}, // no data
	}
	snapshot := map[string][]uex.PricePoint{
		"x": {sellPoint(1, 60, uex.DemandNormal, now)},
		"y": {sellPoint(2, 20, uex.DemandNormal, now)},
	}

	got := EvaluatePortfolio(items, snapshot, now, time.Hour, testVolCeiling)
	if len(got.Items) != 3 {
		t.Fatalf("Items len = %d, want 3 (missing data never drops a line)", len(got.Items))
	}
	if math.Abs(got.TotalEV-7000) > 1e-9 {
		t.Errorf("TotalEV = %v, want 7000", got.TotalEV)
	}
	// z has confidence 0, which must drag the portfolio to 0, not be averaged away.
	if got.Confidence != 0.0 {
		t.Errorf("portfolio Confidence = %v, want 0 (min of items)", got.Confidence)
	}
}

func TestEvaluatePortfolio_EmptyCargo(t *testing.T) {
	got := EvaluatePortfolio(nil, nil, time.Now(), time.Hour, testVolCeiling)
	if got.TotalEV != 0 || got.Confidence != 0 || len(got.Items) != 0 {
		t.Errorf("empty portfolio = %+v, want zeros", got)
	}
}
