package engine

import "errors"

// ErrInvalidParams signals out-of-range profitability inputs. A silently
// misapplied risk percentage would misinform a financial decision, so this
// is rejected rather than clamped.
var ErrInvalidParams = errors.New("invalid profitability params")

// ErrSubtractBeyondHeld signals a negative adjustment against a commodity
// that is not in the cargo set. The set is left unchanged.
var ErrSubtractBeyondHeld = errors.New("cannot subtract from a commodity not held")

// CargoItem is one held commodity line. At most one per commodity ID.
type CargoItem struct {
	CommodityID string  `json:"commodity_id"`
	QuantitySCU float64 `json:"quantity_scu"`
}

// CargoEvaluation is the valuation of one cargo line against the current
// price snapshot. Min/Max are per-SCU sell prices; nil when no location
// currently buys the commodity. Partial marks a zero-data line that stays
// visible rather than being dropped.
type CargoEvaluation struct {
	CommodityID string   `json:"commodity_id"`
	QuantitySCU float64  `json:"quantity_scu"`
	EV          float64  `json:"ev"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	Confidence  float64  `json:"confidence"`
	Partial     bool     `json:"partial"`
}

// PortfolioEvaluation aggregates all cargo lines. Confidence is the minimum
// item confidence so a single bad line visibly drags down overall trust.
type PortfolioEvaluation struct {
	Items      []CargoEvaluation `json:"items"`
	TotalEV    float64           `json:"total_ev"`
	Confidence float64           `json:"confidence"`
}

// ProfitabilityParams are caller-supplied costs for scoring a haul.
// The engine has no defaults for these; policy lives with the caller.
type ProfitabilityParams struct {
	RiskPct     float64 `json:"risk_pct"`     // [0, 0.4]
	CrewHourly  float64 `json:"crew_hourly"`  // aUEC per crew member per hour
	CrewSize    int     `json:"crew_size"`    // >= 0
	TimeMinutes float64 `json:"time_minutes"` // >= 0
}

// Thresholds split the profitability value into bands. Low <= High.
type Thresholds struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Band is the discrete profitability indicator.
type Band int

const (
	BandRed Band = iota
	BandYellow
	BandGreen
)

func (b Band) String() string {
	switch b {
	case BandGreen:
		return "Green"
	case BandYellow:
		return "Yellow"
	default:
		return "Red"
	}
}

// MarshalJSON renders bands as their label, which is what the UI shows.
func (b Band) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// ProfitScore is the scored value plus its band.
type ProfitScore struct {
	Value float64 `json:"value"`
	Band  Band    `json:"band"`
}

// RankedLocation is one sell location after penalty adjustment. Derived,
// never stored.
type RankedLocation struct {
	LocationID    int64   `json:"location_id"`
	LocationName  string  `json:"location_name"`
	PricePerSCU   float64 `json:"price_per_scu"`
	Penalty       float64 `json:"penalty"`
	AdjustedPrice float64 `json:"adjusted_price"`
	StockSCU      float64 `json:"stock_scu"`
}

// BestOverall is the single strongest recommendation across the cargo set,
// weighted by held quantity.
type BestOverall struct {
	RankedLocation
	CommodityID   string  `json:"commodity_id"`
	HeldSCU       float64 `json:"held_scu"`
	WeightedValue float64 `json:"weighted_value"` // AdjustedPrice × HeldSCU
}

// BestPriceSuggestion is the per-item top-N slice.
type BestPriceSuggestion struct {
	CommodityID string           `json:"commodity_id"`
	QuantitySCU float64          `json:"quantity_scu"`
	Locations   []RankedLocation `json:"locations"`
}

// BestPriceSummary is the full ranking pass output.
type BestPriceSummary struct {
	Suggestions []BestPriceSuggestion `json:"suggestions"`
	BestOverall *BestOverall          `json:"best_overall,omitempty"`
}

// PenaltyConfig holds the heuristic flat penalties applied to a location's
// sell price before ranking. Each constant is additive and never negative.
type PenaltyConfig struct {
	HomeSystem         string
	CrossSystemPenalty float64
	ArmisticePenalty   float64
	HotspotPenalty     float64
	Hotspots           []string
	TopN               int // 0 = default 3
}

const defaultTopN = 3
