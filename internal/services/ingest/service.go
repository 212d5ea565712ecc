// Package ingest owns the account-fetch side of the quoter: it bootstraps
// the tracked markets, then re-fetches every watched account on a fixed
// interval and hands the fresh bytes to each engine. Engines swap snapshots
// atomically, so a failed refresh leaves the previous snapshot serving.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/phoenix-quoter/internal/adapters/persistence"
	"github.com/hxuan190/phoenix-quoter/internal/common"
	"github.com/hxuan190/phoenix-quoter/internal/config"
	"github.com/hxuan190/phoenix-quoter/internal/domain"
	"github.com/hxuan190/phoenix-quoter/internal/metrics"
	"github.com/hxuan190/phoenix-quoter/internal/services"
	"github.com/hxuan190/phoenix-quoter/internal/services/market"
	"github.com/hxuan190/phoenix-quoter/internal/services/quoter"
)

const INGEST_SERVICE = "ingest-service"

var (
	ErrMissingSnapshot = errors.New("missing snapshot for expected market")
)

type Service struct {
	container.BaseDIInstance

	rpcClient *rpc.Client
	registry  *quoter.Registry
	storage   *persistence.Storage
	config    *config.MarketsConfig
	log       *services.ServiceLogger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func (svc *Service) ID() string {
	return INGEST_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	rpcConfig := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)
	svc.config = c.GetConfig(config.MARKETS_CONFIG_KEY).(*config.MarketsConfig)

	svc.rpcClient = rpc.New(rpcConfig.RPCUrl)
	svc.registry = quoter.NewRegistry()
	svc.stopCh = make(chan struct{})
	svc.log = services.NewServiceLogger(svc)
	return nil
}

// Registry exposes the quoting engines to the HTTP layer.
func (svc *Service) Registry() *quoter.Registry {
	return svc.registry
}

func (svc *Service) Start() error {
	if svc.config.PersistenceEnabled {
		storage, err := persistence.NewStorage(svc.config.DBPath)
		if err != nil {
			return err
		}
		svc.storage = storage

		if persisted, err := storage.LoadAllMarkets(); err != nil {
			svc.log.Warn().Err(err).Msg("could not read persisted market metadata")
		} else if len(persisted) > 0 {
			svc.log.Info().Int("count", len(persisted)).Msg("found persisted market metadata")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := svc.bootstrap(ctx); err != nil {
		return err
	}

	svc.wg.Add(1)
	go svc.refreshLoop()

	svc.log.Info().
		Int("markets", svc.registry.Count()).
		Int("interval_ms", svc.config.RefreshIntervalMs).
		Msg("started")
	return nil
}

func (svc *Service) Stop() error {
	close(svc.stopCh)
	svc.wg.Wait()

	if svc.storage != nil {
		svc.persistAll()
		return svc.storage.Close()
	}
	return nil
}

// bootstrap fetches every configured market account once and builds the
// initial engines. A configured market that is absent on chain fails startup
// outright; serving quotes for a market that never existed is worse than not
// starting.
func (svc *Service) bootstrap(ctx context.Context) error {
	keys := make([]solana.PublicKey, 0, len(svc.config.MarketAddresses)+1)
	keys = append(keys, svc.config.MarketAddresses...)
	keys = append(keys, common.ClockSysvarID)

	accounts, err := svc.fetchAccounts(ctx, keys)
	if err != nil {
		return err
	}

	clk, err := decodeClockFromMap(accounts)
	if err != nil {
		return err
	}

	for _, marketKey := range svc.config.MarketAddresses {
		data, ok := accounts[marketKey]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingSnapshot, marketKey)
		}

		engine, err := quoter.NewMarket(marketKey, data, clk)
		if err != nil {
			return err
		}
		svc.registry.Register(engine)

		params := engine.Snapshot().Params
		svc.log.Info().
			Str("market", marketKey.String()).
			Str("base", params.BaseMint.String()).
			Str("quote", params.QuoteMint.String()).
			Uint64("takerFeeBps", params.TakerFeeBps).
			Msg("registered market")
	}

	svc.persistAll()
	return nil
}

func (svc *Service) refreshLoop() {
	defer svc.wg.Done()

	ticker := time.NewTicker(time.Duration(svc.config.RefreshIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-svc.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			svc.refresh(ctx)
			cancel()
		}
	}
}

// refresh re-fetches the union of every engine's watch list in one batched
// call and rebuilds each snapshot. Per-engine failures keep that engine on
// its previous snapshot; there is no partial refresh and no retry.
func (svc *Service) refresh(ctx context.Context) {
	start := time.Now()

	accounts, err := svc.fetchAccounts(ctx, svc.registry.AccountsToUpdate())
	if err != nil {
		metrics.MarketRefreshFailures.WithLabelValues("rpc").Inc()
		svc.log.Error().Err(err).Msg("account fetch failed")
		return
	}

	for _, engine := range svc.registry.All() {
		if err := engine.Update(accounts); err != nil {
			metrics.MarketRefreshFailures.WithLabelValues(refreshFailureReason(err)).Inc()
			svc.log.Error().Err(err).Str("market", engine.Key().String()).Msg("refresh failed, keeping previous snapshot")
			continue
		}

		snapshot := engine.Snapshot()
		marketLabel := engine.Key().String()
		metrics.LadderDepth.WithLabelValues(marketLabel, "bids").Set(float64(len(snapshot.Ladder.Bids)))
		metrics.LadderDepth.WithLabelValues(marketLabel, "asks").Set(float64(len(snapshot.Ladder.Asks)))
	}

	metrics.MarketRefreshes.Inc()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
}

func (svc *Service) fetchAccounts(ctx context.Context, keys []solana.PublicKey) (domain.AccountMap, error) {
	res, err := svc.rpcClient.GetMultipleAccounts(ctx, keys...)
	if err != nil {
		return nil, err
	}

	accounts := make(domain.AccountMap, len(keys))
	for i, account := range res.Value {
		if account == nil || account.Data == nil {
			continue
		}
		accounts[keys[i]] = account.Data.GetBinary()
	}
	return accounts, nil
}

func (svc *Service) persistAll() {
	if svc.storage == nil {
		return
	}

	engines := svc.registry.All()
	snapshots := make([]*domain.MarketSnapshot, 0, len(engines))
	for _, engine := range engines {
		snapshots = append(snapshots, engine.Snapshot())
	}
	if err := svc.storage.SaveMarketBatch(snapshots); err != nil {
		svc.log.Error().Err(err).Msg("failed to persist markets")
	}
}

func refreshFailureReason(err error) string {
	switch {
	case errors.Is(err, quoter.ErrMissingAccount):
		return "missing_account"
	case errors.Is(err, market.ErrMalformedSnapshot):
		return "malformed"
	default:
		return "other"
	}
}

func decodeClockFromMap(accounts domain.AccountMap) (*market.Clock, error) {
	data, ok := accounts[common.ClockSysvarID]
	if !ok {
		return nil, fmt.Errorf("%w: clock sysvar", ErrMissingSnapshot)
	}
	return market.DecodeClock(data)
}
