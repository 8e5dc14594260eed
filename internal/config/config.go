package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Cron     CronConfig     `mapstructure:"cron"`
	Gamma    GammaConfig    `mapstructure:"gamma"`
	Clob     ClobConfig     `mapstructure:"clob"`
	Scanner  ScannerConfig  `mapstructure:"scanner"`
	Risk     RiskConfig     `mapstructure:"risk"`
	Verify   VerifyConfig   `mapstructure:"verify"`
	Executor ExecutorConfig `mapstructure:"executor"`
	Activity ActivityConfig `mapstructure:"activity"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type CronConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	ActivitySummary string `mapstructure:"activity_summary"`
}

type GammaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ClobConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ScannerConfig is the single source of truth for the qualification
// band. Every other component reads the band from here rather than
// carrying its own copy.
type ScannerConfig struct {
	Autostart            bool          `mapstructure:"autostart"`
	MinProbability       float64       `mapstructure:"min_probability"`
	MaxProbability       float64       `mapstructure:"max_probability"`
	MinLiquidityUSD      float64       `mapstructure:"min_liquidity_usd"`
	MaxHoursToResolution float64       `mapstructure:"max_hours_to_resolution"`
	MinVolume24hUSD      float64       `mapstructure:"min_volume_24h_usd"`
	ScanInterval         time.Duration `mapstructure:"scan_interval"`
	MarketLimit          int           `mapstructure:"market_limit"`
	BlacklistKeywords    []string      `mapstructure:"blacklist_keywords"`
	BlacklistCategories  []string      `mapstructure:"blacklist_categories"`
}

type RiskConfig struct {
	BasePositionUSD    float64 `mapstructure:"base_position_usd"`
	MaxPositionUSD     float64 `mapstructure:"max_position_usd"`
	MinPositionUSD     float64 `mapstructure:"min_position_usd"`
	MaxSpread          float64 `mapstructure:"max_spread"`
	BalanceBufferRatio float64 `mapstructure:"balance_buffer_ratio"`
}

type VerifyConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	SportsAPIURL string        `mapstructure:"sports_api_url"`
	SportsAPIKey string        `mapstructure:"sports_api_key"`
	NewsAPIURL   string        `mapstructure:"news_api_url"`
	NewsAPIKey   string        `mapstructure:"news_api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type ExecutorConfig struct {
	DryRun          bool          `mapstructure:"dry_run"`
	OrderTimeout    time.Duration `mapstructure:"order_timeout"`
	MonitorInterval time.Duration `mapstructure:"monitor_interval"`
}

type ActivityConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type NotifyConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	SlackWebhookURL string `mapstructure:"slack_webhook_url"`
	MaxSummaryItems int    `mapstructure:"max_summary_items"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.activity_summary", "@every 1h")
	v.SetDefault("gamma.base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("gamma.timeout", "15s")
	v.SetDefault("clob.base_url", "https://clob.polymarket.com")
	v.SetDefault("clob.timeout", "15s")
	v.SetDefault("scanner.autostart", true)
	v.SetDefault("scanner.min_probability", 0.92)
	v.SetDefault("scanner.max_probability", 0.99)
	v.SetDefault("scanner.min_liquidity_usd", 1000)
	v.SetDefault("scanner.max_hours_to_resolution", 48)
	v.SetDefault("scanner.scan_interval", "5m")
	v.SetDefault("scanner.market_limit", 100)
	v.SetDefault("scanner.min_volume_24h_usd", 100)
	v.SetDefault("scanner.blacklist_keywords", []string{})
	v.SetDefault("scanner.blacklist_categories", []string{})
	v.SetDefault("risk.base_position_usd", 100)
	v.SetDefault("risk.max_position_usd", 100)
	v.SetDefault("risk.min_position_usd", 10)
	v.SetDefault("risk.max_spread", 0.05)
	v.SetDefault("risk.balance_buffer_ratio", 1.10)
	v.SetDefault("verify.enabled", true)
	v.SetDefault("verify.sports_api_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("verify.sports_api_key", "")
	v.SetDefault("verify.news_api_url", "https://newsapi.org/v2")
	v.SetDefault("verify.news_api_key", "")
	v.SetDefault("verify.timeout", "10s")
	v.SetDefault("executor.dry_run", true)
	v.SetDefault("executor.order_timeout", "30s")
	v.SetDefault("executor.monitor_interval", "10s")
	v.SetDefault("activity.capacity", 1000)
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.slack_webhook_url", "")
	v.SetDefault("notify.max_summary_items", 5)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	s := c.Scanner
	if s.MinProbability <= 0 || s.MinProbability >= 1 {
		return fmt.Errorf("scanner.min_probability must be in (0, 1), got %v", s.MinProbability)
	}
	if s.MaxProbability <= s.MinProbability || s.MaxProbability > 1 {
		return fmt.Errorf("scanner.max_probability must be in (min_probability, 1], got %v", s.MaxProbability)
	}
	if s.MinLiquidityUSD <= 0 {
		return fmt.Errorf("scanner.min_liquidity_usd must be positive, got %v", s.MinLiquidityUSD)
	}
	if s.MaxHoursToResolution <= 0 {
		return fmt.Errorf("scanner.max_hours_to_resolution must be positive, got %v", s.MaxHoursToResolution)
	}

	r := c.Risk
	if r.BasePositionUSD <= 0 {
		return fmt.Errorf("risk.base_position_usd must be positive, got %v", r.BasePositionUSD)
	}
	if r.MaxPositionUSD <= 0 {
		return fmt.Errorf("risk.max_position_usd must be positive, got %v", r.MaxPositionUSD)
	}
	if r.MaxSpread <= 0 || r.MaxSpread >= 1 {
		return fmt.Errorf("risk.max_spread must be in (0, 1), got %v", r.MaxSpread)
	}
	if r.BalanceBufferRatio < 1 {
		return fmt.Errorf("risk.balance_buffer_ratio must be >= 1, got %v", r.BalanceBufferRatio)
	}
	if s.MinLiquidityUSD < r.MaxPositionUSD {
		return fmt.Errorf("scanner.min_liquidity_usd (%v) must cover risk.max_position_usd (%v)", s.MinLiquidityUSD, r.MaxPositionUSD)
	}
	return nil
}
