package engine

import "fmt"

// maxRiskPct caps the accepted risk percentage. Anything above is almost
// certainly a misentered value, not a judgment call.
const maxRiskPct = 0.4

// ScoreProfit combines total EV with risk, crew and time costs into a
// single value and a discrete band:
//
//	value = totalEV − riskPct×totalEV − crewHourly×crewSize×timeMinutes/60
//
// The value is never clamped; a negative score is a meaningful signal that
// the haul loses money. Band boundaries are closed at the low end: a value
// exactly equal to a threshold resolves to the higher band.
func ScoreProfit(totalEV float64, params ProfitabilityParams, th Thresholds) (ProfitScore, error) {
	if err := validateParams(params, th); err != nil {
		return ProfitScore{}, err
	}

	crewCost := params.CrewHourly * float64(params.CrewSize) * params.TimeMinutes / 60.0
	value := totalEV - params.RiskPct*totalEV - crewCost

	band := BandRed
	switch {
	case value >= th.High:
		band = BandGreen
	case value >= th.Low:
		band = BandYellow
	}
	return ProfitScore{Value: value, Band: band}, nil
}

func validateParams(p ProfitabilityParams, th Thresholds) error {
	if p.RiskPct < 0 || p.RiskPct > maxRiskPct {
		return fmt.Errorf("%w: risk_pct %.3f outside [0, %.1f]", ErrInvalidParams, p.RiskPct, maxRiskPct)
	}
	if p.CrewHourly < 0 {
		return fmt.Errorf("%w: crew_hourly %.2f is negative", ErrInvalidParams, p.CrewHourly)
	}
	if p.CrewSize < 0 {
		return fmt.Errorf("%w: crew_size %d is negative", ErrInvalidParams, p.CrewSize)
	}
	if p.TimeMinutes < 0 {
		return fmt.Errorf("%w: time_minutes %.1f is negative", ErrInvalidParams, p.TimeMinutes)
	}
	if th.Low > th.High {
		return fmt.Errorf("%w: threshold_low %.2f > threshold_high %.2f", ErrInvalidParams, th.Low, th.High)
	}
	return nil
}
