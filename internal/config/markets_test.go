package config

import (
	"testing"
)

func TestMarketsConfigLoad(t *testing.T) {
	t.Setenv("MARKET_ADDRESSES", "4DoNfFBfF7UokCC2FQzriy7yHK6DY6NVdYpuekQ5pRgg, Ew3vFDdtdGrknJAVVfraxCA37uNJtimXYPY4QjnfhFHH")
	t.Setenv("REFRESH_INTERVAL_MS", "250")
	t.Setenv("QUOTER_PERSISTENCE_ENABLED", "false")

	var c MarketsConfig
	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if len(c.MarketAddresses) != 2 {
		t.Errorf("parsed %d market addresses, expected 2", len(c.MarketAddresses))
	}
	if c.RefreshIntervalMs != 250 {
		t.Errorf("RefreshIntervalMs = %d, expected 250", c.RefreshIntervalMs)
	}
	if c.PersistenceEnabled {
		t.Error("PersistenceEnabled = true, expected false")
	}
}

func TestMarketsConfigRejectsBadAddress(t *testing.T) {
	t.Setenv("MARKET_ADDRESSES", "not-a-key")

	var c MarketsConfig
	if err := c.Load(); err == nil {
		t.Error("Load accepted an invalid base58 address")
	}
}

func TestMarketsConfigValidateEmpty(t *testing.T) {
	t.Setenv("MARKET_ADDRESSES", "")

	var c MarketsConfig
	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := c.Validate(); err == nil {
		t.Error("Validate accepted a config without markets")
	}
}
