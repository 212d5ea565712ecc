package domain

import (
	"github.com/gagliardetto/solana-go"
)

// AccountMap carries raw account data keyed by account identity, as handed
// to a refresh by the account fetcher.
type AccountMap map[solana.PublicKey][]byte

// MarketParams holds the static venue parameters decoded from the market
// account header and body. All lot and tick constants are strictly positive
// for a well-formed market; the decoder rejects anything else.
type MarketParams struct {
	MarketKey solana.PublicKey `json:"marketKey"`
	ProgramID solana.PublicKey `json:"programId"`

	BaseMint  solana.PublicKey `json:"baseMint"`
	QuoteMint solana.PublicKey `json:"quoteMint"`

	BaseVault  solana.PublicKey `json:"baseVault"`
	QuoteVault solana.PublicKey `json:"quoteVault"`

	// Only here for convenience (display and logging)
	BaseDecimals  uint32 `json:"baseDecimals"`
	QuoteDecimals uint32 `json:"quoteDecimals"`

	// Raw atoms per lot
	BaseLotSize  uint64 `json:"baseLotSize"`
	QuoteLotSize uint64 `json:"quoteLotSize"`

	BaseLotsPerBaseUnit             uint64 `json:"baseLotsPerBaseUnit"`
	TickSizeInQuoteAtomsPerBaseUnit uint64 `json:"tickSizeInQuoteAtomsPerBaseUnit"`

	TakerFeeBps uint64 `json:"takerFeeBps"`
}

// LadderLevel is one L2 price level: aggregated resting size at a price.
type LadderLevel struct {
	PriceInTicks   uint64 `json:"priceInTicks"`
	SizeInBaseLots uint64 `json:"sizeInBaseLots"`
}

// Ladder is the L2 view of the book. Bids are ordered highest price first,
// asks lowest price first. Both slices are immutable once built.
type Ladder struct {
	Bids []LadderLevel `json:"bids"`
	Asks []LadderLevel `json:"asks"`
}

// MarketSnapshot is one immutable version of the market state. A refresh
// builds a complete new snapshot and publishes it with a single atomic
// pointer swap; readers never observe a partially updated mix of ladder
// and conversion constants.
type MarketSnapshot struct {
	Params MarketParams
	Ladder Ladder

	// Slot the snapshot was decoded at (from the clock sysvar)
	Slot          uint64
	UnixTimestamp int64
}
