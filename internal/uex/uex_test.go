package uex

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func newTestServer(t *testing.T, path, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
}

func TestFetchCommodities_DecodesEnvelope(t *testing.T) {
	srv := newTestServer(t, "/commodities", `{
		"status": "ok",
		"data": [
			{"id": 12, "name": "Laranite", "kind": "Metal", "code": "LARA", "is_illegal": 0},
			{"id": "47", "name": "WiDoW", "kind": "Drug", "is_illegal": 1},
			{"id": 0, "name": ""}
		]
	}`)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	got, err := c.FetchCommodities()
	if err != nil {
		t.Fatalf("FetchCommodities: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (empty row dropped)", len(got))
	}
	if got[0].ID != "12" || got[0].Name != "Laranite" || got[0].Category != "Metal" {
		t.Errorf("commodity[0] = %+v", got[0])
	}
	if got[1].ID != "47" || !got[1].IsIllegal {
		t.Errorf("commodity[1] = %+v, want string id 47 and illegal", got[1])
	}
}

func TestFetchPrices_MapsWireFields(t *testing.T) {
	observed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC).Unix()
	srv := newTestServer(t, "/commodities_prices", `{
		"status": "ok",
		"data": [
			{
				"id_terminal": 29,
				"terminal_name": "TDD Orison",
				"star_system_name": "Stanton",
				"price_sell": 27.5,
				"price_sell_max": 28.1,
				"price_buy": null,
				"scu_sell_stock": 4200,
				"status_sell": 3,
				"status_buy": 0,
				"volatility_price_sell": 0.12,
				"date_modified": `+strconv.FormatInt(observed, 10)+`
			},
			{"terminal_name": "", "price_sell": -5}
		]
	}`)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	got, err := c.FetchPrices("12")
	if err != nil {
		t.Fatalf("FetchPrices: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	p := got[0]
	if p.LocationID != 29 || p.LocationName != "TDD Orison" || p.System != "Stanton" {
		t.Errorf("location = %+v", p)
	}
	// price_sell_max preferred over price_sell.
	if p.SellPrice == nil || *p.SellPrice != 28.1 {
		t.Errorf("SellPrice = %v, want 28.1", p.SellPrice)
	}
	if p.BuyPrice != nil {
		t.Errorf("BuyPrice = %v, want nil", *p.BuyPrice)
	}
	if p.SellDemand != DemandHigh || p.BuyDemand != DemandUnavailable {
		t.Errorf("demand = %v/%v, want High/Unavailable", p.SellDemand, p.BuyDemand)
	}
	if p.Volatility == nil || *p.Volatility != 0.12 {
		t.Errorf("Volatility = %v", p.Volatility)
	}
	if p.ObservedAt.Unix() != observed {
		t.Errorf("ObservedAt = %v", p.ObservedAt)
	}

	// Negative sell price is not a usable quote.
	if got[1].SellPrice != nil {
		t.Errorf("negative price should map to nil, got %v", *got[1].SellPrice)
	}
	if got[1].LocationName != "Unknown terminal" {
		t.Errorf("LocationName = %q", got[1].LocationName)
	}
}

func TestGetData_APIErrorStatus(t *testing.T) {
	srv := newTestServer(t, "/commodities", `{"status": "error", "message": "rate limited"}`)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.FetchCommodities(); err == nil {
		t.Fatal("expected error for non-ok envelope status")
	}
}

func TestDemandFromStatus(t *testing.T) {
	tests := []struct {
		name   string
		status *int
		want   DemandLevel
	}{
		{"nil", nil, DemandUnavailable},
		{"offline", Int(0), DemandUnavailable},
		{"low", Int(1), DemandLow},
		{"normal", Int(2), DemandNormal},
		{"high", Int(3), DemandHigh},
		{"unknown code", Int(9), DemandUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := demandFromStatus(tt.status); got != tt.want {
				t.Errorf("demandFromStatus(%v) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
