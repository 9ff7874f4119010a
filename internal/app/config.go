package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/suvbot/core/config"
	coredatabase "github.com/m3rciful/suvbot/core/database"
)

// OrderConfig holds the pricing and delivery parameters of the shop.
type OrderConfig struct {
	UnitPrice int64  `yaml:"unit_price" envconfig:"ORDER_UNIT_PRICE"`
	Currency  string `yaml:"currency" envconfig:"ORDER_CURRENCY"`
	// TargetChatID is the operator chat receiving placed orders.
	TargetChatID int64 `yaml:"target_chat_id" envconfig:"ORDER_TARGET_CHAT_ID"`
	// Timezone is the fixed reference zone for delivery date offers.
	Timezone string `yaml:"timezone" envconfig:"ORDER_TIMEZONE"`
	// ExcludedWeekday names the weekday without deliveries, e.g. "sunday".
	ExcludedWeekday string `yaml:"excluded_weekday" envconfig:"ORDER_EXCLUDED_WEEKDAY"`
	DateOffers      int    `yaml:"date_offers" envconfig:"ORDER_DATE_OFFERS"`
}

// AssetsConfig points at the optional static files.
type AssetsConfig struct {
	ImagePath  string `yaml:"image_path" envconfig:"ASSETS_IMAGE_PATH"`
	PolicyPath string `yaml:"policy_path" envconfig:"ASSETS_POLICY_PATH"`
}

// Config aggregates core and bot-specific configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Order    OrderConfig         `yaml:"order"`
	Assets   AssetsConfig        `yaml:"assets"`
}

// CoreConfig exposes the embedded core configuration for the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalizeOrder(&cfg.Order); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeOrder(o *OrderConfig) error {
	if o.UnitPrice <= 0 {
		o.UnitPrice = 7000
	}
	if o.Currency == "" {
		o.Currency = "UZS"
	}
	if o.TargetChatID == 0 {
		return fmt.Errorf("order.target_chat_id is required")
	}
	if o.Timezone == "" {
		o.Timezone = "Asia/Tashkent"
	}
	if _, err := time.LoadLocation(o.Timezone); err != nil {
		return fmt.Errorf("invalid order.timezone %q: %w", o.Timezone, err)
	}
	if o.ExcludedWeekday == "" {
		o.ExcludedWeekday = "sunday"
	}
	if _, ok := parseWeekday(o.ExcludedWeekday); !ok {
		return fmt.Errorf("invalid order.excluded_weekday %q", o.ExcludedWeekday)
	}
	if o.DateOffers <= 0 {
		o.DateOffers = 5
	}
	return nil
}

func parseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, true
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	}
	return 0, false
}
