package db

import (
	"strconv"

	"uex-hauler/internal/engine"
)

// LoadParams reads the persisted profitability settings. Keys that were never
// saved keep the values passed in as defaults.
func (d *DB) LoadParams(params engine.ProfitabilityParams, th engine.Thresholds) (engine.ProfitabilityParams, engine.Thresholds) {
	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return params, th
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}

	if v, ok := m["risk_pct"]; ok {
		params.RiskPct, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["crew_hourly"]; ok {
		params.CrewHourly, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["crew_size"]; ok {
		params.CrewSize, _ = strconv.Atoi(v)
	}
	if v, ok := m["time_minutes"]; ok {
		params.TimeMinutes, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["threshold_low"]; ok {
		th.Low, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["threshold_high"]; ok {
		th.High, _ = strconv.ParseFloat(v, 64)
	}
	return params, th
}

// SaveParams persists the profitability settings as config key/value pairs.
func (d *DB) SaveParams(params engine.ProfitabilityParams, th engine.Thresholds) error {
	pairs := map[string]string{
		"risk_pct":       strconv.FormatFloat(params.RiskPct, 'f', -1, 64),
		"crew_hourly":    strconv.FormatFloat(params.CrewHourly, 'f', -1, 64),
		"crew_size":      strconv.Itoa(params.CrewSize),
		"time_minutes":   strconv.FormatFloat(params.TimeMinutes, 'f', -1, 64),
		"threshold_low":  strconv.FormatFloat(th.Low, 'f', -1, 64),
		"threshold_high": strconv.FormatFloat(th.High, 'f', -1, 64),
	}
	for k, v := range pairs {
		if _, err := d.sql.Exec(`
			INSERT INTO config (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, v); err != nil {
			return err
		}
	}
	return nil
}
