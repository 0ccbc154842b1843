package uex

import (
	"strings"
	"time"
)

// DemandLevel is one side's market status at a terminal, as reported by UEX.
type DemandLevel int

const (
	DemandUnavailable DemandLevel = iota
	DemandLow
	DemandNormal
	DemandHigh
)

func (d DemandLevel) String() string {
	switch d {
	case DemandHigh:
		return "High"
	case DemandNormal:
		return "Normal"
	case DemandLow:
		return "Low"
	default:
		return "Unavailable"
	}
}

// demandFromStatus maps the UEX status codes (3=high, 2=normal, 1=low,
// 0 or absent = offline) onto DemandLevel.
func demandFromStatus(status *int) DemandLevel {
	if status == nil {
		return DemandUnavailable
	}
	switch *status {
	case 3:
		return DemandHigh
	case 2:
		return DemandNormal
	case 1:
		return DemandLow
	default:
		return DemandUnavailable
	}
}

// Commodity is one tradeable good from the UEX commodity list.
type Commodity struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Code      string  `json:"code,omitempty"`
	WeightSCU float64 `json:"weight_scu,omitempty"`
	IsIllegal bool    `json:"is_illegal"`
}

// PricePoint is one observation of market conditions for a commodity at a
// terminal. Immutable once stored; a newer fetch replaces the whole set.
type PricePoint struct {
	LocationID   int64    `json:"location_id"`
	LocationName string   `json:"location_name"`
	System       string   `json:"system,omitempty"`
	SellPrice    *float64 `json:"sell_price,omitempty"` // aUEC/SCU the terminal pays you
	BuyPrice     *float64 `json:"buy_price,omitempty"`  // aUEC/SCU you pay the terminal
	StockSCU     *float64 `json:"stock_scu,omitempty"`  // sell-side capacity the terminal will accept
	SupplySCU    *float64 `json:"supply_scu,omitempty"` // buy-side stock available for purchase
	SellDemand   DemandLevel
	BuyDemand    DemandLevel
	Volatility   *float64  `json:"volatility,omitempty"`
	ObservedAt   time.Time `json:"observed_at"`
}

// Terminal is location metadata used by the ranking penalties.
type Terminal struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	System    string `json:"system,omitempty"`
	Code      string `json:"code,omitempty"`
	Armistice bool   `json:"armistice"`
	IsNQA     bool   `json:"is_nqa"`
}

// --- wire DTOs (UEX API v2) ---

type commodityDTO struct {
	ID        flexID   `json:"id"`
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Code      string   `json:"code"`
	WeightSCU *float64 `json:"weight_scu"`
	IsIllegal int      `json:"is_illegal"`
}

func (d commodityDTO) toCommodity() Commodity {
	c := Commodity{
		ID:        string(d.ID),
		Name:      d.Name,
		Category:  d.Kind,
		Code:      d.Code,
		IsIllegal: d.IsIllegal == 1,
	}
	if c.Category == "" {
		c.Category = "Unknown"
	}
	if d.WeightSCU != nil {
		c.WeightSCU = *d.WeightSCU
	}
	return c
}

type priceDTO struct {
	IDTerminal     *int64   `json:"id_terminal"`
	TerminalName   string   `json:"terminal_name"`
	StarSystemName string   `json:"star_system_name"`
	PriceSell      *float64 `json:"price_sell"`
	PriceSellMax   *float64 `json:"price_sell_max"`
	PriceBuy       *float64 `json:"price_buy"`
	PriceBuyMin    *float64 `json:"price_buy_min"`
	SCUSellStock   *float64 `json:"scu_sell_stock"`
	SCUBuy         *float64 `json:"scu_buy"`
	StatusSell     *int     `json:"status_sell"`
	StatusBuy      *int     `json:"status_buy"`
	VolatilitySell *float64 `json:"volatility_price_sell"`
	DateModified   *int64   `json:"date_modified"`
}

// toPricePoint flattens the UEX price row. UEX reports both a last-trade
// price and a max/min; the max sell (best case for the seller) and min buy
// are preferred, falling back to the last-trade values.
func (d priceDTO) toPricePoint(fallback time.Time) PricePoint {
	p := PricePoint{
		LocationName: d.TerminalName,
		System:       d.StarSystemName,
		StockSCU:     d.SCUSellStock,
		SupplySCU:    d.SCUBuy,
		SellDemand:   demandFromStatus(d.StatusSell),
		BuyDemand:    demandFromStatus(d.StatusBuy),
		Volatility:   d.VolatilitySell,
		ObservedAt:   fallback,
	}
	if d.IDTerminal != nil {
		p.LocationID = *d.IDTerminal
	}
	if p.LocationName == "" {
		p.LocationName = "Unknown terminal"
	}
	p.SellPrice = firstPositive(d.PriceSellMax, d.PriceSell)
	p.BuyPrice = firstPositive(d.PriceBuyMin, d.PriceBuy)
	if d.DateModified != nil && *d.DateModified > 0 {
		p.ObservedAt = time.Unix(*d.DateModified, 0).UTC()
	}
	return p
}

type terminalDTO struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	StarSystemName string `json:"star_system_name"`
	IsNQA          int    `json:"is_nqa"`
	IsArmistice    int    `json:"is_armistice"`
}

func (d terminalDTO) toTerminal() Terminal {
	t := Terminal{
		ID:        d.ID,
		Name:      d.Name,
		System:    d.StarSystemName,
		Code:      d.Code,
		Armistice: d.IsArmistice == 1,
		IsNQA:     d.IsNQA == 1,
	}
	if t.Name == "" {
		t.Name = "Unknown"
	}
	return t
}

func firstPositive(candidates ...*float64) *float64 {
	for _, c := range candidates {
		if c != nil && isFinite(*c) && *c > 0 {
			return c
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return v == v && v < 1e308 && v > -1e308
}

// flexID tolerates the UEX habit of returning IDs as either numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexID(s)
	return nil
}

// Float is a pointer helper for building optional price fields.
func Float(v float64) *float64 { return &v }

// Int is a pointer helper for status fields in tests.
func Int(v int) *int { return &v }
