package quoter

import (
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/phoenix-quoter/internal/common"
	"github.com/hxuan190/phoenix-quoter/internal/domain"
	"github.com/hxuan190/phoenix-quoter/internal/metrics"
	"github.com/hxuan190/phoenix-quoter/internal/services/builder"
	"github.com/hxuan190/phoenix-quoter/internal/services/market"
)

var (
	ErrMissingAccount  = errors.New("missing account data for refresh")
	ErrUnknownMint     = errors.New("source mint is neither base nor quote")
	ErrMismatchedMints = errors.New("destination mint does not match market pair")
	ErrNoBestPrice     = errors.New("no ladder level matched, best price unavailable")
	ErrInvalidAmount   = errors.New("amount must be a non-negative integer")
	ErrAmountTooLarge  = errors.New("amount too large for u64")
)

// quoteCounter for sampling metrics (1/128 calls)
var quoteCounter atomic.Uint64

var bpsDenom = decimal.NewFromInt(common.BpsDenominator)

// Market is the quoting engine for one Phoenix market. It owns exactly one
// piece of state: the current immutable snapshot, published with an atomic
// pointer swap on every refresh. A quote loads the pointer once and never
// re-reads shared state mid-computation, so concurrent refreshes can never
// hand it a mixed ladder and constant set.
type Market struct {
	key      solana.PublicKey
	snapshot atomic.Pointer[domain.MarketSnapshot]
}

// NewMarket decodes the initial account data into the first snapshot.
// The clock may be nil on bootstrap; expiry filtering then starts with the
// first refresh that carries one.
func NewMarket(marketKey solana.PublicKey, accountData []byte, clk *market.Clock) (*Market, error) {
	snapshot, err := market.DecodeSnapshot(marketKey, accountData, clk)
	if err != nil {
		return nil, err
	}

	m := &Market{key: marketKey}
	m.snapshot.Store(snapshot)
	return m, nil
}

func (m *Market) Label() string {
	return "Phoenix"
}

func (m *Market) Key() solana.PublicKey {
	return m.key
}

func (m *Market) ProgramID() solana.PublicKey {
	return common.PhoenixProgramID
}

// ReserveMints returns the market's trading pair.
func (m *Market) ReserveMints() []solana.PublicKey {
	params := m.snapshot.Load().Params
	return []solana.PublicKey{params.BaseMint, params.QuoteMint}
}

// Snapshot returns the current immutable snapshot. Callers must hold the
// returned pointer for the whole computation instead of re-loading.
func (m *Market) Snapshot() *domain.MarketSnapshot {
	return m.snapshot.Load()
}

// AccountsToUpdate lists the accounts that must be watched for this engine's
// state to stay current: the market account and the clock sysvar.
func (m *Market) AccountsToUpdate() []solana.PublicKey {
	return []solana.PublicKey{m.key, common.ClockSysvarID}
}

// Update rebuilds the snapshot wholesale from freshly fetched account data.
// Fails without touching current state when an expected account is absent or
// malformed; there is no partial refresh.
func (m *Market) Update(accounts domain.AccountMap) error {
	marketData, ok := accounts[m.key]
	if !ok {
		return fmt.Errorf("%w: market %s", ErrMissingAccount, m.key)
	}
	clockData, ok := accounts[common.ClockSysvarID]
	if !ok {
		return fmt.Errorf("%w: clock sysvar", ErrMissingAccount)
	}

	clk, err := market.DecodeClock(clockData)
	if err != nil {
		return err
	}
	snapshot, err := market.DecodeSnapshot(m.key, marketData, clk)
	if err != nil {
		return err
	}

	m.snapshot.Store(snapshot)
	return nil
}

// Quote simulates selling params.Amount raw atoms of the input mint against
// the current ladder. Exact-in only; nothing is executed.
func (m *Market) Quote(params *domain.QuoteParams) (*domain.QuoteResult, error) {
	// Sample metrics 1/128 to keep the hot path cheap
	sample := quoteCounter.Add(1)&0x7F == 0
	var start time.Time
	if sample {
		start = time.Now()
	}

	if params.Amount == nil || params.Amount.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if !params.Amount.IsUint64() {
		return nil, ErrAmountTooLarge
	}
	amount := params.Amount.Uint64()

	snapshot := m.snapshot.Load()
	marketParams := &snapshot.Params
	conv := NewLotConverter(marketParams)

	var outcome walkOutcome
	switch params.InputMint {
	case marketParams.BaseMint:
		if params.OutputMint != marketParams.QuoteMint {
			return nil, fmt.Errorf("%w: market %s", ErrMismatchedMints, m.key)
		}
		outcome = walkBids(conv, snapshot.Ladder.Bids, amount)
	case marketParams.QuoteMint:
		if params.OutputMint != marketParams.BaseMint {
			return nil, fmt.Errorf("%w: market %s", ErrMismatchedMints, m.key)
		}
		outcome = walkAsks(conv, snapshot.Ladder.Asks, amount)
	default:
		return nil, fmt.Errorf("%w: %s on market %s", ErrUnknownMint, params.InputMint, m.key)
	}

	result, err := finishQuote(marketParams, params, outcome)
	if err != nil {
		return nil, err
	}

	if sample {
		metrics.QuoteSimDuration.Observe(time.Since(start).Seconds())
	}
	return result, nil
}

// finishQuote applies the taker fee to the gross matched output and derives
// the price impact against the first-level best price.
func finishQuote(marketParams *domain.MarketParams, params *domain.QuoteParams, outcome walkOutcome) (*domain.QuoteResult, error) {
	if outcome.levels == 0 || outcome.bestPrice.IsZero() {
		return nil, fmt.Errorf("%w: requested %s of %s", ErrNoBestPrice, params.Amount, params.InputMint)
	}

	grossOut := outcome.grossOut.ToBig()

	// outAfterFee = floor(grossOut * (10000 - takerFeeBps) / 10000).
	// feeAmount is the exact complement, so fee + out == gross always holds.
	outAfterFee := new(big.Int).Mul(grossOut, big.NewInt(int64(common.BpsDenominator-marketParams.TakerFeeBps)))
	outAfterFee.Quo(outAfterFee, big.NewInt(common.BpsDenominator))
	feeAmount := new(big.Int).Sub(grossOut, outAfterFee)

	// Realized price divides the gross output by the originally requested
	// amount, not the consumed amount. Partial fills therefore report an
	// inflated impact; callers treat notEnoughLiquidity accordingly.
	realizedPrice := decimal.NewFromBigInt(grossOut, 0).Div(decimal.NewFromBigInt(params.Amount, 0))
	priceImpactPct := outcome.bestPrice.Sub(realizedPrice).Div(outcome.bestPrice)

	return &domain.QuoteResult{
		InAmount:           outcome.inAtoms.ToBig(),
		OutAmount:          outAfterFee,
		FeeAmount:          feeAmount,
		FeeMint:            params.OutputMint,
		FeePct:             decimal.NewFromInt(int64(marketParams.TakerFeeBps)).Div(bpsDenom),
		PriceImpactPct:     priceImpactPct,
		NotEnoughLiquidity: outcome.notEnoughLiquidity,
	}, nil
}

// SwapAccounts exposes the venue accounts an external instruction builder
// needs to assemble the actual swap for a quoted trade.
func (m *Market) SwapAccounts(params *domain.SwapParams) (*domain.SwapAccounts, error) {
	snapshot := m.snapshot.Load()
	return builder.SwapAccountsForMarket(&snapshot.Params, params)
}
