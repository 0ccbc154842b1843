package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Upstream struct {
		BaseURL  string `yaml:"base_url"`
		APIToken string `yaml:"api_token"`
	} `yaml:"upstream"`
	Cache struct {
		PriceTTLMinutes   int `yaml:"price_ttl_minutes"`
		CommodityTTLHours int `yaml:"commodity_ttl_hours"`
		TerminalTTLHours  int `yaml:"terminal_ttl_hours"`
	} `yaml:"cache"`
	Schedule struct {
		PricesCron      string `yaml:"prices_cron"`
		CommoditiesCron string `yaml:"commodities_cron"`
		TerminalsCron   string `yaml:"terminals_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Ranking struct {
		HomeSystem         string   `yaml:"home_system"`
		CrossSystemPenalty float64  `yaml:"cross_system_penalty"`
		ArmisticePenalty   float64  `yaml:"armistice_penalty"`
		HotspotPenalty     float64  `yaml:"hotspot_penalty"`
		Hotspots           []string `yaml:"hotspots"`
		TopN               int      `yaml:"top_n"`
	} `yaml:"ranking"`
	Confidence struct {
		VolatilityCeiling float64 `yaml:"volatility_ceiling"`
	} `yaml:"confidence"`
	Profitability struct {
		RiskPct       float64 `yaml:"risk_pct"`
		CrewHourly    float64 `yaml:"crew_hourly"`
		CrewSize      int     `yaml:"crew_size"`
		TimeMinutes   float64 `yaml:"time_minutes"`
		ThresholdLow  float64 `yaml:"threshold_low"`
		ThresholdHigh float64 `yaml:"threshold_high"`
	} `yaml:"profitability"`
	Routes struct {
		CargoCapacitySCU float64 `yaml:"cargo_capacity_scu"`
	} `yaml:"routes"`
	Port int `yaml:"port"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("UEX_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("UEX_API_TOKEN"); v != "" {
		cfg.Upstream.APIToken = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("HOME_SYSTEM"); v != "" {
		cfg.Ranking.HomeSystem = v
	}
	if v := os.Getenv("PRICE_TTL_MINUTES"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			cfg.Cache.PriceTTLMinutes = ttl
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "https://api.uexcorp.uk/2.0"
	}
	if cfg.Cache.PriceTTLMinutes == 0 {
		cfg.Cache.PriceTTLMinutes = 60
	}
	if cfg.Cache.CommodityTTLHours == 0 {
		cfg.Cache.CommodityTTLHours = 24
	}
	if cfg.Cache.TerminalTTLHours == 0 {
		cfg.Cache.TerminalTTLHours = 168
	}
	if cfg.Schedule.PricesCron == "" {
		cfg.Schedule.PricesCron = "0 */30 * * * *"
	}
	if cfg.Schedule.CommoditiesCron == "" {
		cfg.Schedule.CommoditiesCron = "0 0 */12 * * *"
	}
	if cfg.Schedule.TerminalsCron == "" {
		cfg.Schedule.TerminalsCron = "0 0 6 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/uex_hauler.db"
	}
	if cfg.Ranking.HomeSystem == "" {
		cfg.Ranking.HomeSystem = "Stanton"
	}
	if cfg.Ranking.CrossSystemPenalty == 0 {
		cfg.Ranking.CrossSystemPenalty = 75
	}
	if cfg.Ranking.ArmisticePenalty == 0 {
		cfg.Ranking.ArmisticePenalty = 25
	}
	if cfg.Ranking.HotspotPenalty == 0 {
		cfg.Ranking.HotspotPenalty = 40
	}
	if len(cfg.Ranking.Hotspots) == 0 {
		cfg.Ranking.Hotspots = []string{"Grim Hex", "Spider", "Jumptown"}
	}
	if cfg.Ranking.TopN == 0 {
		cfg.Ranking.TopN = 3
	}
	if cfg.Confidence.VolatilityCeiling == 0 {
		cfg.Confidence.VolatilityCeiling = 1.5
	}
	if cfg.Profitability.RiskPct == 0 {
		cfg.Profitability.RiskPct = 0.2
	}
	if cfg.Profitability.CrewHourly == 0 {
		cfg.Profitability.CrewHourly = 150
	}
	if cfg.Profitability.CrewSize == 0 {
		cfg.Profitability.CrewSize = 1
	}
	if cfg.Profitability.TimeMinutes == 0 {
		cfg.Profitability.TimeMinutes = 60
	}
	if cfg.Profitability.ThresholdLow == 0 {
		cfg.Profitability.ThresholdLow = 10000
	}
	if cfg.Profitability.ThresholdHigh == 0 {
		cfg.Profitability.ThresholdHigh = 50000
	}
	if cfg.Routes.CargoCapacitySCU == 0 {
		cfg.Routes.CargoCapacitySCU = 96
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Cache.PriceTTLMinutes <= 0 {
		return fmt.Errorf("cache.price_ttl_minutes must be positive")
	}
	if c.Profitability.RiskPct < 0 || c.Profitability.RiskPct > 0.4 {
		return fmt.Errorf("profitability.risk_pct must be within [0, 0.4]")
	}
	if c.Profitability.ThresholdLow > c.Profitability.ThresholdHigh {
		return fmt.Errorf("profitability.threshold_low must not exceed threshold_high")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}
