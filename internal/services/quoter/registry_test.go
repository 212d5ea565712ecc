package quoter

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/phoenix-quoter/internal/common"
	"github.com/hxuan190/phoenix-quoter/internal/domain"
)

func TestRegistryFindByPairBothDirections(t *testing.T) {
	r := NewRegistry()
	m := newTestMarket(unitParams(0), domain.Ladder{
		Bids: []domain.LadderLevel{{PriceInTicks: 100, SizeInBaseLots: 5}},
		Asks: []domain.LadderLevel{{PriceInTicks: 101, SizeInBaseLots: 5}},
	})
	r.Register(m)

	if _, ok := r.FindByPair(testBaseMint, testQuoteMint); !ok {
		t.Error("pair not found in base->quote direction")
	}
	if _, ok := r.FindByPair(testQuoteMint, testBaseMint); !ok {
		t.Error("pair not found in quote->base direction")
	}

	other := solana.MustPublicKeyFromBase58("mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So")
	if _, ok := r.FindByPair(testBaseMint, other); ok {
		t.Error("found a pair no market trades")
	}
}

func TestRegistryQuoteRouting(t *testing.T) {
	r := NewRegistry()
	r.Register(newTestMarket(unitParams(0), domain.Ladder{
		Bids: []domain.LadderLevel{{PriceInTicks: 100, SizeInBaseLots: 5}},
	}))

	result, err := r.Quote(quoteParams(testBaseMint, testQuoteMint, 5))
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if got := result.OutAmount.Int64(); got != 500 {
		t.Errorf("OutAmount = %d, expected 500", got)
	}

	other := solana.MustPublicKeyFromBase58("mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So")
	_, err = r.Quote(quoteParams(other, testQuoteMint, 5))
	if !errors.Is(err, ErrMarketNotFound) {
		t.Errorf("Quote() error = %v, expected %v", err, ErrMarketNotFound)
	}
}

func TestRegistryAccountsToUpdateDeduplicated(t *testing.T) {
	r := NewRegistry()

	first := unitParams(0)
	r.Register(newTestMarket(first, domain.Ladder{}))

	second := unitParams(0)
	second.MarketKey = solana.MustPublicKeyFromBase58("Ew3vFDdtdGrknJAVVfraxCA37uNJtimXYPY4QjnfhFHH")
	r.Register(newTestMarket(second, domain.Ladder{}))

	accounts := r.AccountsToUpdate()
	if len(accounts) != 3 {
		t.Fatalf("AccountsToUpdate returned %d keys, expected 2 markets + 1 shared clock", len(accounts))
	}

	seen := make(map[solana.PublicKey]int, len(accounts))
	for _, key := range accounts {
		seen[key]++
	}
	if seen[common.ClockSysvarID] != 1 {
		t.Errorf("clock sysvar listed %d times, expected once", seen[common.ClockSysvarID])
	}
}
