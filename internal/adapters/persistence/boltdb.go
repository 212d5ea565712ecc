package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/phoenix-quoter/internal/domain"
)

const (
	MarketsBucket = "markets"

	DefaultDBPath = "./data/phoenix-quoter.db"
)

// StoredMarket is the on-disk form of a market's static parameters. Ladders
// are never persisted; they are useless without a fresh account fetch.
type StoredMarket struct {
	Address                         string `json:"address"`
	BaseMint                        string `json:"baseMint"`
	QuoteMint                       string `json:"quoteMint"`
	BaseVault                       string `json:"baseVault"`
	QuoteVault                      string `json:"quoteVault"`
	BaseDecimals                    uint32 `json:"baseDecimals"`
	QuoteDecimals                   uint32 `json:"quoteDecimals"`
	BaseLotSize                     uint64 `json:"baseLotSize"`
	QuoteLotSize                    uint64 `json:"quoteLotSize"`
	BaseLotsPerBaseUnit             uint64 `json:"baseLotsPerBaseUnit"`
	TickSizeInQuoteAtomsPerBaseUnit uint64 `json:"tickSizeInQuoteAtomsPerBaseUnit"`
	TakerFeeBps                     uint64 `json:"takerFeeBps"`
	LastSeenSlot                    uint64 `json:"lastSeenSlot"`
}

type Storage struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", filepath.Dir(dbPath), err)
	}

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[marketStorage] opened database")

	return &Storage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) SaveMarket(snapshot *domain.MarketSnapshot) error {
	stored := marketToStored(snapshot)
	data, err := sonic.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal market: %w", err)
	}

	return s.db.Set(MarketsBucket, []byte(stored.Address), data)
}

func (s *Storage) SaveMarketBatch(snapshots []*domain.MarketSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	for _, snapshot := range snapshots {
		stored := marketToStored(snapshot)
		data, err := sonic.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal market %s: %w", stored.Address, err)
		}

		value := data
		op := &boltdb.WriteOperation{
			Bucket: []byte(MarketsBucket),
			Key:    []byte(stored.Address),
			Value:  &value,
			Op:     boltdb.OpSet,
		}
		if err := batch.Add(op); err != nil {
			return fmt.Errorf("failed to add market %s to batch: %w", stored.Address, err)
		}
	}

	if err := batch.Execute(); err != nil {
		log.Error().Err(err).Int("count", len(snapshots)).Msg("[marketStorage] FAILED to execute batch")
		return err
	}

	log.Info().Int("count", len(snapshots)).Msg("[marketStorage] saved market batch")
	return nil
}

// LoadAllMarkets returns the persisted market parameters. Entries that fail
// to decode are skipped, not fatal: the refresh loop re-derives everything
// from chain state anyway.
func (s *Storage) LoadAllMarkets() ([]*domain.MarketParams, error) {
	data, err := s.db.List(MarketsBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}

	markets := make([]*domain.MarketParams, 0, len(data))
	failed := 0
	for address, value := range data {
		var stored StoredMarket
		if err := sonic.Unmarshal(value, &stored); err != nil {
			log.Error().Str("address", address).Err(err).Msg("[marketStorage] failed to unmarshal market, skipping")
			failed++
			continue
		}

		params, err := storedToMarket(&stored)
		if err != nil {
			log.Error().Str("address", address).Err(err).Msg("[marketStorage] failed to convert stored market, skipping")
			failed++
			continue
		}

		markets = append(markets, params)
	}

	if failed > 0 {
		log.Error().
			Int("total_in_db", len(data)).
			Int("loaded", len(markets)).
			Int("failed", failed).
			Msg("[marketStorage] market loading completed with errors")
	} else {
		log.Info().
			Int("total_in_db", len(data)).
			Int("loaded", len(markets)).
			Msg("[marketStorage] market loading completed successfully")
	}

	return markets, nil
}

func (s *Storage) GetMarketCount() (int, error) {
	data, err := s.db.List(MarketsBucket)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

func marketToStored(snapshot *domain.MarketSnapshot) *StoredMarket {
	params := snapshot.Params
	return &StoredMarket{
		Address:                         params.MarketKey.String(),
		BaseMint:                        params.BaseMint.String(),
		QuoteMint:                       params.QuoteMint.String(),
		BaseVault:                       params.BaseVault.String(),
		QuoteVault:                      params.QuoteVault.String(),
		BaseDecimals:                    params.BaseDecimals,
		QuoteDecimals:                   params.QuoteDecimals,
		BaseLotSize:                     params.BaseLotSize,
		QuoteLotSize:                    params.QuoteLotSize,
		BaseLotsPerBaseUnit:             params.BaseLotsPerBaseUnit,
		TickSizeInQuoteAtomsPerBaseUnit: params.TickSizeInQuoteAtomsPerBaseUnit,
		TakerFeeBps:                     params.TakerFeeBps,
		LastSeenSlot:                    snapshot.Slot,
	}
}

func storedToMarket(stored *StoredMarket) (*domain.MarketParams, error) {
	marketKey, err := solana.PublicKeyFromBase58(stored.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid market address: %w", err)
	}
	baseMint, err := solana.PublicKeyFromBase58(stored.BaseMint)
	if err != nil {
		return nil, fmt.Errorf("invalid base mint: %w", err)
	}
	quoteMint, err := solana.PublicKeyFromBase58(stored.QuoteMint)
	if err != nil {
		return nil, fmt.Errorf("invalid quote mint: %w", err)
	}
	baseVault, err := solana.PublicKeyFromBase58(stored.BaseVault)
	if err != nil {
		return nil, fmt.Errorf("invalid base vault: %w", err)
	}
	quoteVault, err := solana.PublicKeyFromBase58(stored.QuoteVault)
	if err != nil {
		return nil, fmt.Errorf("invalid quote vault: %w", err)
	}

	return &domain.MarketParams{
		MarketKey:                       marketKey,
		BaseMint:                        baseMint,
		QuoteMint:                       quoteMint,
		BaseVault:                       baseVault,
		QuoteVault:                      quoteVault,
		BaseDecimals:                    stored.BaseDecimals,
		QuoteDecimals:                   stored.QuoteDecimals,
		BaseLotSize:                     stored.BaseLotSize,
		QuoteLotSize:                    stored.QuoteLotSize,
		BaseLotsPerBaseUnit:             stored.BaseLotsPerBaseUnit,
		TickSizeInQuoteAtomsPerBaseUnit: stored.TickSizeInQuoteAtomsPerBaseUnit,
		TakerFeeBps:                     stored.TakerFeeBps,
	}, nil
}
