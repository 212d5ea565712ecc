package quoter

import (
	"errors"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/phoenix-quoter/internal/domain"
	"github.com/hxuan190/phoenix-quoter/internal/metrics"
)

var (
	ErrMarketNotFound = errors.New("no market found")
)

// Registry holds the quoting engines for every tracked market and routes a
// quote request to the engine serving its pair. Registration happens at
// bootstrap and on discovery; quoting is lock-light reads.
type Registry struct {
	mu      sync.RWMutex
	markets map[solana.PublicKey]*Market
}

func NewRegistry() *Registry {
	return &Registry{
		markets: make(map[solana.PublicKey]*Market),
	}
}

func (r *Registry) Register(m *Market) {
	r.mu.Lock()
	r.markets[m.Key()] = m
	r.mu.Unlock()
	metrics.MarketCount.Set(float64(r.Count()))
}

func (r *Registry) Get(marketKey solana.PublicKey) (*Market, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.markets[marketKey]
	return m, ok
}

func (r *Registry) All() []*Market {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*Market, 0, len(r.markets))
	for _, m := range r.markets {
		all = append(all, m)
	}
	return all
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.markets)
}

// FindByPair returns the engine trading the given pair in either direction.
func (r *Registry) FindByPair(inputMint, outputMint solana.PublicKey) (*Market, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.markets {
		params := m.Snapshot().Params
		if (params.BaseMint == inputMint && params.QuoteMint == outputMint) ||
			(params.QuoteMint == inputMint && params.BaseMint == outputMint) {
			return m, true
		}
	}
	return nil, false
}

// Quote routes the request to the market serving the pair.
func (r *Registry) Quote(params *domain.QuoteParams) (*domain.QuoteResult, error) {
	m, ok := r.FindByPair(params.InputMint, params.OutputMint)
	if !ok {
		return nil, ErrMarketNotFound
	}
	return m.Quote(params)
}

// SwapAccounts resolves the account list for a trade on a specific market.
func (r *Registry) SwapAccounts(marketKey solana.PublicKey, params *domain.SwapParams) (*domain.SwapAccounts, error) {
	m, ok := r.Get(marketKey)
	if !ok {
		return nil, ErrMarketNotFound
	}
	return m.SwapAccounts(params)
}

// AccountsToUpdate is the deduplicated union of every engine's watch list,
// suitable for one batched fetch per refresh.
func (r *Registry) AccountsToUpdate() []solana.PublicKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[solana.PublicKey]struct{}, len(r.markets)+1)
	accounts := make([]solana.PublicKey, 0, len(r.markets)+1)
	for _, m := range r.markets {
		for _, key := range m.AccountsToUpdate() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			accounts = append(accounts, key)
		}
	}
	return accounts
}
