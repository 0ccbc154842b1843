package engine

import (
	"sort"

	"uex-hauler/internal/uex"
)

// TradeRoute is one buy-at-A/sell-at-B opportunity for a commodity.
type TradeRoute struct {
	CommodityID   string `json:"commodity_id"`
	CommodityName string `json:"commodity_name"`
	IsIllegal     bool   `json:"is_illegal"`

	BuyLocationID   int64   `json:"buy_location_id"`
	BuyLocationName string  `json:"buy_location_name"`
	BuySystem       string  `json:"buy_system,omitempty"`
	BuyPrice        float64 `json:"buy_price"`
	BuyStockSCU     float64 `json:"buy_stock_scu"`

	SellLocationID   int64   `json:"sell_location_id"`
	SellLocationName string  `json:"sell_location_name"`
	SellSystem       string  `json:"sell_system,omitempty"`
	SellPrice        float64 `json:"sell_price"`
	SellDemandSCU    float64 `json:"sell_demand_scu"`

	ProfitPerSCU    float64 `json:"profit_per_scu"`
	ROIPercent      float64 `json:"roi_percent"`
	MaxTradeableSCU float64 `json:"max_tradeable_scu"` // min(stock, demand)
	QuantitySCU     float64 `json:"quantity_scu"`      // capped by cargo capacity
	Investment      float64 `json:"investment"`
	TotalProfit     float64 `json:"total_profit"`
}

// RouteParams filters and sizes the route search.
type RouteParams struct {
	CargoCapacitySCU float64
	MinProfitPerSCU  float64
	MinROIPercent    float64
	MaxInvestment    float64 // 0 = no cap
	CommodityID      string  // "" = all
	BuySystem        string  // "" = any
	SellSystem       string  // "" = any
	MaxResults       int     // 0 = default 50
}

const defaultMaxRoutes = 50

// FindRoutes pairs every buy terminal (positive buy price and stock) with
// every sell terminal (positive sell price and demand) per commodity and
// keeps the profitable combinations. Quantity is capped by stock, demand
// and cargo capacity. The result ordering is a total order so repeated
// searches over the same snapshot are identical.
func FindRoutes(commodities []uex.Commodity, snapshot map[string][]uex.PricePoint, params RouteParams) []TradeRoute {
	var routes []TradeRoute
	for _, c := range commodities {
		if params.CommodityID != "" && params.CommodityID != c.ID {
			continue
		}
		routes = append(routes, routesForCommodity(c, snapshot[c.ID], params)...)
	}

	sort.Slice(routes, func(i, j int) bool {
		a, b := routes[i], routes[j]
		if a.TotalProfit != b.TotalProfit {
			return a.TotalProfit > b.TotalProfit
		}
		if a.ROIPercent != b.ROIPercent {
			return a.ROIPercent > b.ROIPercent
		}
		if a.CommodityID != b.CommodityID {
			return a.CommodityID < b.CommodityID
		}
		if a.BuyLocationID != b.BuyLocationID {
			return a.BuyLocationID < b.BuyLocationID
		}
		return a.SellLocationID < b.SellLocationID
	})

	max := params.MaxResults
	if max <= 0 {
		max = defaultMaxRoutes
	}
	if len(routes) > max {
		routes = routes[:max]
	}
	return routes
}

func routesForCommodity(c uex.Commodity, points []uex.PricePoint, params RouteParams) []TradeRoute {
	var buys, sells []uex.PricePoint
	for _, p := range points {
		if p.BuyPrice != nil && *p.BuyPrice > 0 && p.SupplySCU != nil && *p.SupplySCU > 0 {
			buys = append(buys, p)
		}
		if p.SellPrice != nil && *p.SellPrice > 0 && p.StockSCU != nil && *p.StockSCU > 0 {
			sells = append(sells, p)
		}
	}

	var routes []TradeRoute
	for _, buy := range buys {
		if params.BuySystem != "" && buy.System != params.BuySystem {
			continue
		}
		for _, sell := range sells {
			if buy.LocationID == sell.LocationID {
				continue
			}
			if params.SellSystem != "" && sell.System != params.SellSystem {
				continue
			}

			buyPrice, sellPrice := *buy.BuyPrice, *sell.SellPrice
			profitPerSCU := sellPrice - buyPrice
			if profitPerSCU <= 0 || profitPerSCU < params.MinProfitPerSCU {
				continue
			}
			roi := profitPerSCU / buyPrice * 100.0
			if roi < params.MinROIPercent {
				continue
			}

			maxTradeable := *buy.SupplySCU
			if *sell.StockSCU < maxTradeable {
				maxTradeable = *sell.StockSCU
			}
			qty := maxTradeable
			if params.CargoCapacitySCU > 0 && qty > params.CargoCapacitySCU {
				qty = params.CargoCapacitySCU
			}

			invest := buyPrice * qty
			if params.MaxInvestment > 0 && invest > params.MaxInvestment {
				// Shrink the position instead of dropping the route.
				qty = params.MaxInvestment / buyPrice
				invest = buyPrice * qty
			}
			if qty <= 0 {
				continue
			}

			routes = append(routes, TradeRoute{
				CommodityID:      c.ID,
				CommodityName:    c.Name,
				IsIllegal:        c.IsIllegal,
				BuyLocationID:    buy.LocationID,
				BuyLocationName:  buy.LocationName,
				BuySystem:        buy.System,
				BuyPrice:         buyPrice,
				BuyStockSCU:      *buy.SupplySCU,
				SellLocationID:   sell.LocationID,
				SellLocationName: sell.LocationName,
				SellSystem:       sell.System,
				SellPrice:        sellPrice,
				SellDemandSCU:    *sell.StockSCU,
				ProfitPerSCU:     profitPerSCU,
				ROIPercent:       roi,
				MaxTradeableSCU:  maxTradeable,
				QuantitySCU:      qty,
				Investment:       invest,
				TotalProfit:      profitPerSCU * qty,
			})
		}
	}
	return routes
}
