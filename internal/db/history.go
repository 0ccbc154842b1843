package db

import (
	"time"
)

// EvaluationRecord is one persisted portfolio evaluation.
type EvaluationRecord struct {
	ID          int64   `json:"id"`
	Timestamp   string  `json:"timestamp"`
	ItemCount   int     `json:"item_count"`
	TotalEV     float64 `json:"total_ev"`
	Confidence  float64 `json:"confidence"`
	ProfitValue float64 `json:"profit_value"`
	Band        string  `json:"band"`
}

// RecordEvaluation appends one evaluation snapshot. Returns the new row ID,
// or 0 on failure.
func (d *DB) RecordEvaluation(itemCount int, totalEV, confidence, profitValue float64, band string) int64 {
	res, err := d.sql.Exec(`
		INSERT INTO evaluation_history (timestamp, item_count, total_ev, confidence, profit_value, band)
		VALUES (?, ?, ?, ?, ?, ?)
	`, time.Now().UTC().Format(time.RFC3339), itemCount, totalEV, confidence, profitValue, band)
	if err != nil {
		return 0
	}
	id, _ := res.LastInsertId()
	return id
}

// GetEvaluationHistory returns the most recent evaluations, newest first.
func (d *DB) GetEvaluationHistory(limit int) []EvaluationRecord {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(`
		SELECT id, timestamp, item_count, total_ev, confidence, profit_value, band
		  FROM evaluation_history
		 ORDER BY id DESC
		 LIMIT ?
	`, limit)
	if err != nil {
		return []EvaluationRecord{}
	}
	defer rows.Close()

	var records []EvaluationRecord
	for rows.Next() {
		var r EvaluationRecord
		rows.Scan(&r.ID, &r.Timestamp, &r.ItemCount, &r.TotalEV, &r.Confidence, &r.ProfitValue, &r.Band)
		records = append(records, r)
	}
	if records == nil {
		return []EvaluationRecord{}
	}
	return records
}
