package domain

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// QuoteParams describes an exact-in quote request: sell Amount raw atoms of
// InputMint, receive OutputMint. Exact-out quoting is not supported on a
// ladder walk.
type QuoteParams struct {
	InputMint  solana.PublicKey
	OutputMint solana.PublicKey
	Amount     *big.Int
}

// QuoteResult is the simulated outcome of a taker order against the current
// ladder snapshot. Nothing is executed.
type QuoteResult struct {
	// Raw input actually consumable given resting liquidity, always a
	// multiple of the input side's lot size and <= the requested amount.
	InAmount *big.Int

	// Raw output net of the taker fee.
	OutAmount *big.Int

	// Raw fee deducted from the gross matched output, denominated in FeeMint.
	FeeAmount *big.Int

	// Always the output asset.
	FeeMint solana.PublicKey

	// TakerFeeBps / 10000.
	FeePct decimal.Decimal

	// (bestPrice - realizedPrice) / bestPrice, where realizedPrice divides
	// the gross output by the originally requested amount. Partial fills
	// therefore show an inflated impact on purpose.
	PriceImpactPct decimal.Decimal

	// True when the ladder could not absorb the full requested budget.
	NotEnoughLiquidity bool
}
