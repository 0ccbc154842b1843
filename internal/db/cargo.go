package db

import (
	"time"

	"uex-hauler/internal/engine"
)

// LoadCargo returns all persisted cargo lines, sorted by commodity ID.
func (d *DB) LoadCargo() []engine.CargoItem {
	rows, err := d.sql.Query(`
		SELECT commodity_id, quantity_scu
		  FROM cargo_items
		 ORDER BY commodity_id
	`)
	if err != nil {
		return []engine.CargoItem{}
	}
	defer rows.Close()

	var items []engine.CargoItem
	for rows.Next() {
		var item engine.CargoItem
		rows.Scan(&item.CommodityID, &item.QuantitySCU)
		items = append(items, item)
	}
	if items == nil {
		return []engine.CargoItem{}
	}
	return items
}

// SaveCargoItem upserts one cargo line. A non-positive quantity deletes it.
func (d *DB) SaveCargoItem(commodityID string, quantitySCU float64) {
	if quantitySCU <= 0 {
		d.DeleteCargoItem(commodityID)
		return
	}
	d.sql.Exec(`
		INSERT INTO cargo_items (commodity_id, quantity_scu, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(commodity_id) DO UPDATE SET quantity_scu = excluded.quantity_scu, updated_at = excluded.updated_at
	`, commodityID, quantitySCU, time.Now().UTC().Format(time.RFC3339))
}

// DeleteCargoItem removes one cargo line.
func (d *DB) DeleteCargoItem(commodityID string) {
	d.sql.Exec("DELETE FROM cargo_items WHERE commodity_id = ?", commodityID)
}

// ClearCargo removes every cargo line.
func (d *DB) ClearCargo() {
	d.sql.Exec("DELETE FROM cargo_items")
}
