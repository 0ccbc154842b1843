package uex

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultBaseURL = "https://api.uexcorp.uk/2.0"

const userAgent = "uex-hauler/1.0 (github.com)"

// Client is a rate-limited UEX API client. It performs all network I/O for
// the price feed; the engine's PriceCache never touches the network itself.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	sem     chan struct{}
	group   singleflight.Group
}

// NewClient creates a UEX client. baseURL may be empty to use the public
// API; token is optional (UEX serves commodity data unauthenticated).
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		token:   token,
		sem:     make(chan struct{}, 10), // UEX asks for gentle request rates
	}
}

// HealthCheck pings the commodities endpoint to verify connectivity.
func (c *Client) HealthCheck() bool {
	req, err := c.newRequest("/commodities")
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == 200
}

// envelope is the UEX response wrapper: {status, http_code, message, data}.
type envelope struct {
	Status   string          `json:"status"`
	HTTPCode int             `json:"http_code"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
}

// FetchCommodities returns the full tradeable-commodity list.
func (c *Client) FetchCommodities() ([]Commodity, error) {
	var dtos []commodityDTO
	if err := c.getData("/commodities", &dtos); err != nil {
		return nil, fmt.Errorf("fetch commodities: %w", err)
	}
	out := make([]Commodity, 0, len(dtos))
	for _, d := range dtos {
		co := d.toCommodity()
		if co.ID == "" || co.Name == "" {
			continue
		}
		out = append(out, co)
	}
	return out, nil
}

// FetchPrices returns all current price observations for one commodity.
// Concurrent calls for the same commodity are coalesced via singleflight.
func (c *Client) FetchPrices(commodityID string) ([]PricePoint, error) {
	result, err, _ := c.group.Do("prices:"+commodityID, func() (interface{}, error) {
		return c.fetchPrices(commodityID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]PricePoint), nil
}

func (c *Client) fetchPrices(commodityID string) ([]PricePoint, error) {
	path := "/commodities_prices?id_commodity=" + url.QueryEscape(commodityID)
	var dtos []priceDTO
	if err := c.getData(path, &dtos); err != nil {
		return nil, fmt.Errorf("fetch prices for %s: %w", commodityID, err)
	}
	now := time.Now().UTC()
	points := make([]PricePoint, 0, len(dtos))
	for _, d := range dtos {
		points = append(points, d.toPricePoint(now))
	}
	return points, nil
}

// FetchTerminals returns location metadata (system, armistice flag) for all
// known terminals. Terminals change only with game patches, so callers cache
// these aggressively.
func (c *Client) FetchTerminals() ([]Terminal, error) {
	var dtos []terminalDTO
	if err := c.getData("/terminals", &dtos); err != nil {
		return nil, fmt.Errorf("fetch terminals: %w", err)
	}
	out := make([]Terminal, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toTerminal())
	}
	return out, nil
}

func (c *Client) newRequest(path string) (*http.Request, error) {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// getData fetches a UEX endpoint and decodes the envelope's data field into dst.
func (c *Client) getData(path string, dst interface{}) error {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	req, err := c.newRequest(path)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("UEX %d: %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.Status != "ok" {
		if env.Message != "" {
			return fmt.Errorf("UEX api: %s", env.Message)
		}
		return fmt.Errorf("UEX api: status %q", env.Status)
	}
	if len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, dst)
}
