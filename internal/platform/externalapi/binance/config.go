// Package binance provides a client for the Binance market data REST API.
//
// The three exchange surfaces this product knows (spot-US, spot-global,
// futures) are one client parameterized by a Variant, not three code
// paths. A Variant carries everything that differs between surfaces:
// base URL, accepted quote-suffix patterns, request signing, and the
// field-name alias for base-currency turnover.
package binance

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Variant describes one exchange API surface.
type Variant struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	// QuoteSuffixes are the quote-currency suffixes a symbol must carry
	// to be retained (e.g., "USDT", "BUSD").
	QuoteSuffixes []string `yaml:"quote_suffixes"`
	// Perpetuals additionally accepts "<SUFFIX>_"-delimited perpetual
	// contract naming (e.g., "BTCUSDT_PERP") on top of plain suffixes.
	Perpetuals bool `yaml:"perpetuals"`
	// Signed marks a surface whose requests must carry an HMAC-SHA256
	// signature and an API-key header.
	Signed bool `yaml:"signed"`
	// BaseVolumeAlias marks a surface whose ticker payload reports
	// base-currency turnover as "baseVolume" instead of "volume".
	BaseVolumeAlias bool `yaml:"base_volume_alias"`
}

// Config holds configuration for the Binance API client.
type Config struct {
	Variant   Variant
	APIKey    string        // Required only when Variant.Signed
	APISecret string        // Required only when Variant.Signed
	Timeout   time.Duration // HTTP request timeout
}

// BuiltinVariants returns the known exchange surfaces keyed by name.
func BuiltinVariants() map[string]Variant {
	return map[string]Variant{
		"spot-us": {
			Name:          "spot-us",
			BaseURL:       "https://api.binance.us/api/v3",
			QuoteSuffixes: []string{"USDT", "BUSD"},
		},
		"spot-global": {
			Name:          "spot-global",
			BaseURL:       "https://api.binance.com/api/v3",
			QuoteSuffixes: []string{"USDT", "BUSD"},
		},
		"futures": {
			Name:            "futures",
			BaseURL:         "https://fapi.binance.com/fapi/v1",
			QuoteSuffixes:   []string{"USDT", "BUSD"},
			Perpetuals:      true,
			BaseVolumeAlias: true,
		},
	}
}

// LoadConfig loads the client configuration from environment variables.
//
//   - EXCHANGE_VARIANT: variant name (default "spot-us")
//   - EXCHANGE_VARIANTS_FILE: optional YAML file overriding or adding variants
//   - BINANCE_API_KEY / BINANCE_API_SECRET: credentials for signed variants
func LoadConfig() (Config, error) {
	variants := BuiltinVariants()

	if path := os.Getenv("EXCHANGE_VARIANTS_FILE"); path != "" {
		loaded, err := LoadVariantsFile(path)
		if err != nil {
			return Config{}, err
		}
		for name, v := range loaded {
			variants[name] = v
		}
	}

	name := os.Getenv("EXCHANGE_VARIANT")
	if name == "" {
		name = "spot-us"
	}
	v, ok := variants[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown exchange variant %q", name)
	}

	return Config{
		Variant:   v,
		APIKey:    os.Getenv("BINANCE_API_KEY"),
		APISecret: os.Getenv("BINANCE_API_SECRET"),
		Timeout:   10 * time.Second,
	}, nil
}

// LoadVariantsFile reads additional variant definitions from a YAML file.
// Entries with the same name replace the builtin definition.
func LoadVariantsFile(path string) (map[string]Variant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variants file: %w", err)
	}

	var doc struct {
		Variants []Variant `yaml:"variants"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse variants file: %w", err)
	}

	out := make(map[string]Variant, len(doc.Variants))
	for _, v := range doc.Variants {
		if v.Name == "" {
			return nil, fmt.Errorf("variants file %s: entry without a name", path)
		}
		if v.BaseURL == "" {
			return nil, fmt.Errorf("variant %q: base_url is required", v.Name)
		}
		out[v.Name] = v
	}
	return out, nil
}
