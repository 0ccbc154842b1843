package db

import (
	"database/sql"
	"testing"

	"uex-hauler/internal/engine"
	"uex-hauler/internal/uex"

	_ "modernc.org/sqlite"
)

// openTestDB opens an in-memory SQLite DB and runs migrations (for testing only).
func openTestDB(t *testing.T) *DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func TestDB_CargoRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	d.SaveCargoItem("gold", 32)
	d.SaveCargoItem("laranite", 10.5)
	d.SaveCargoItem("gold", 40) // upsert overwrites

	items := d.LoadCargo()
	if len(items) != 2 {
		t.Fatalf("LoadCargo len = %d, want 2", len(items))
	}
	if items[0].CommodityID != "gold" || items[0].QuantitySCU != 40 {
		t.Errorf("items[0] = %+v, want gold/40", items[0])
	}
	if items[1].CommodityID != "laranite" || items[1].QuantitySCU != 10.5 {
		t.Errorf("items[1] = %+v, want laranite/10.5", items[1])
	}

	d.DeleteCargoItem("gold")
	if items = d.LoadCargo(); len(items) != 1 {
		t.Fatalf("after delete, len = %d, want 1", len(items))
	}

	d.ClearCargo()
	if items = d.LoadCargo(); len(items) != 0 {
		t.Errorf("after ClearCargo, items = %+v", items)
	}
}

func TestDB_SaveCargoItem_NonPositiveDeletes(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	d.SaveCargoItem("gold", 10)
	d.SaveCargoItem("gold", 0)
	if items := d.LoadCargo(); len(items) != 0 {
		t.Errorf("zero quantity should delete the line, got %+v", items)
	}
}

func TestDB_ParamsRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	params := engine.ProfitabilityParams{RiskPct: 0.15, CrewHourly: 200, CrewSize: 3, TimeMinutes: 45}
	th := engine.Thresholds{Low: 5000, High: 25000}
	if err := d.SaveParams(params, th); err != nil {
		t.Fatalf("SaveParams: %v", err)
	}

	gotParams, gotTh := d.LoadParams(engine.ProfitabilityParams{}, engine.Thresholds{})
	if gotParams != params {
		t.Errorf("LoadParams params = %+v, want %+v", gotParams, params)
	}
	if gotTh != th {
		t.Errorf("LoadParams thresholds = %+v, want %+v", gotTh, th)
	}
}

func TestDB_LoadParams_EmptyKeepsDefaults(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	defaults := engine.ProfitabilityParams{RiskPct: 0.2, CrewHourly: 150, CrewSize: 1, TimeMinutes: 60}
	defaultTh := engine.Thresholds{Low: 10000, High: 50000}
	gotParams, gotTh := d.LoadParams(defaults, defaultTh)
	if gotParams != defaults || gotTh != defaultTh {
		t.Errorf("empty config should keep defaults, got %+v / %+v", gotParams, gotTh)
	}
}

func TestDB_TerminalsRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	terminals := []uex.Terminal{
		{ID: 5, Name: "Port Olisar", System: "Stanton", Code: "OLIS", Armistice: true},
		{ID: 9, Name: "Grim Hex", System: "Stanton", Code: "GRIM", IsNQA: true},
	}
	if err := d.SaveTerminals(terminals); err != nil {
		t.Fatalf("SaveTerminals: %v", err)
	}

	got := d.LoadTerminals()
	if len(got) != 2 {
		t.Fatalf("LoadTerminals len = %d, want 2", len(got))
	}
	if got[0].ID != 5 || !got[0].Armistice || got[0].IsNQA {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].ID != 9 || got[1].Armistice || !got[1].IsNQA {
		t.Errorf("got[1] = %+v", got[1])
	}

	// A new snapshot replaces the old one wholesale.
	if err := d.SaveTerminals([]uex.Terminal{{ID: 7, Name: "Everus Harbor", System: "Stanton"}}); err != nil {
		t.Fatalf("SaveTerminals (replace): %v", err)
	}
	got = d.LoadTerminals()
	if len(got) != 1 || got[0].ID != 7 {
		t.Errorf("after replace, terminals = %+v", got)
	}
}

func TestDB_EvaluationHistory(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	first := d.RecordEvaluation(2, 6000, 0.91, 5380, "Green")
	if first <= 0 {
		t.Fatal("RecordEvaluation returned 0")
	}
	second := d.RecordEvaluation(1, 500, 0.4, -120, "Red")
	if second <= first {
		t.Errorf("IDs should increase: %d then %d", first, second)
	}

	records := d.GetEvaluationHistory(10)
	if len(records) != 2 {
		t.Fatalf("GetEvaluationHistory len = %d, want 2", len(records))
	}
	// Newest first.
	if records[0].ID != second || records[0].Band != "Red" || records[0].ProfitValue != -120 {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].TotalEV != 6000 || records[1].Confidence != 0.91 || records[1].ItemCount != 2 {
		t.Errorf("records[1] = %+v", records[1])
	}

	if got := d.GetEvaluationHistory(1); len(got) != 1 || got[0].ID != second {
		t.Errorf("limit 1 = %+v", got)
	}
}
