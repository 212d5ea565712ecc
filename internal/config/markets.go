package config

import (
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/phoenix-quoter/internal/common"
)

type MarketsConfig struct {
	// MarketAddresses lists the Phoenix market accounts to quote on,
	// comma-separated base58 keys.
	MarketAddresses []solana.PublicKey

	// RefreshIntervalMs is how often all tracked accounts are re-fetched
	// and every snapshot rebuilt. Default: 400 (roughly one slot).
	RefreshIntervalMs int

	// DBPath is the BoltDB file for market metadata persistence.
	DBPath string

	// PersistenceEnabled controls whether market metadata is persisted.
	PersistenceEnabled bool
}

func (c *MarketsConfig) Key() string {
	return MARKETS_CONFIG_KEY
}

func (c *MarketsConfig) Load() error {
	raw := common.GetEnvOrDefault("MARKET_ADDRESSES", "")
	c.MarketAddresses = c.MarketAddresses[:0]
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(part)
		if err != nil {
			return errors.New("invalid market address: " + part)
		}
		c.MarketAddresses = append(c.MarketAddresses, key)
	}

	c.RefreshIntervalMs = common.GetEnvOrDefaultInt("REFRESH_INTERVAL_MS", 400)
	c.DBPath = common.GetEnvOrDefault("QUOTER_DB_PATH", "./data/phoenix-quoter.db")
	c.PersistenceEnabled = common.GetEnvOrDefault("QUOTER_PERSISTENCE_ENABLED", "true") == "true"
	return nil
}

func (c *MarketsConfig) Validate() error {
	if len(c.MarketAddresses) == 0 {
		return errors.New("no market addresses configured")
	}
	if c.RefreshIntervalMs <= 0 {
		return errors.New("refresh interval must be positive")
	}
	return nil
}
