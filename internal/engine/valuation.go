package engine

import (
	"math"
	"time"

	"uex-hauler/internal/uex"
)

// sellablePoints filters a point set down to locations that currently buy
// the commodity: a finite positive sell price and a sell side that is not
// offline. Points failing the filter are skipped, never an error.
func sellablePoints(points []uex.PricePoint) []uex.PricePoint {
	out := make([]uex.PricePoint, 0, len(points))
	for _, p := range points {
		if p.SellPrice == nil || p.SellDemand == uex.DemandUnavailable {
			continue
		}
		v := *p.SellPrice
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// EvaluateItem computes the expected value and value range of one cargo
// line from the commodity's price points.
//
// EV is the held quantity times the mean sell price across sellable points.
// When no location currently buys the commodity the result is a valid
// zero-confidence evaluation flagged Partial; the line stays visible.
func EvaluateItem(item CargoItem, points []uex.PricePoint, now time.Time, ttl time.Duration, volCeiling float64) CargoEvaluation {
	eval := CargoEvaluation{
		CommodityID: item.CommodityID,
		QuantitySCU: item.QuantitySCU,
	}

	sellable := sellablePoints(points)
	if len(sellable) == 0 {
		eval.Partial = true
		return eval
	}

	var sum float64
	min := *sellable[0].SellPrice
	max := min
	for _, p := range sellable {
		v := *p.SellPrice
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	eval.EV = item.QuantitySCU * sum / float64(len(sellable))
	eval.MinPrice = &min
	eval.MaxPrice = &max
	eval.Confidence = Confidence(sellable, now, ttl, volCeiling)
	return eval
}

// EvaluatePortfolio evaluates every cargo line against a cache snapshot.
// Total EV is the sum of item EVs; portfolio confidence is the minimum item
// confidence, so one bad line is never averaged away. A commodity missing
// from the snapshot degrades only its own line.
func EvaluatePortfolio(items []CargoItem, snapshot map[string][]uex.PricePoint, now time.Time, ttl time.Duration, volCeiling float64) PortfolioEvaluation {
	out := PortfolioEvaluation{Items: make([]CargoEvaluation, 0, len(items))}

	first := true
	for _, item := range items {
		eval := EvaluateItem(item, snapshot[item.CommodityID], now, ttl, volCeiling)
		out.TotalEV += eval.EV
		if first || eval.Confidence < out.Confidence {
			out.Confidence = eval.Confidence
			first = false
		}
		out.Items = append(out.Items, eval)
	}
	if len(out.Items) == 0 {
		out.Confidence = 0.0
	}
	return out
}
