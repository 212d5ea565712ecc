// Package quoter simulates taker orders against an immutable ladder snapshot
// of a Phoenix market. Every operation is a pure function of the snapshot
// plus its inputs: no I/O, no execution, no retained state between calls.
package quoter

import (
	"github.com/holiman/uint256"

	"github.com/hxuan190/phoenix-quoter/internal/domain"
)

// LotConverter translates between the three incommensurate units of one
// market: raw atomic amounts, exchange lots, and price ticks. It is derived
// once per snapshot; both walk directions share it so the rounding behavior
// cannot drift apart. Every division is an integer floor division and every
// divisor is validated non-zero at decode time.
//
// Unit chain: price is quoted in quote-ticks per base unit, sizes rest in
// base lots, and baseLotsPerBaseUnit reconciles the two. Intermediate
// products of price x size x tick ratio x lot size overflow 64 bits for
// realistic markets, so all products run in 256-bit space.
type LotConverter struct {
	baseLotSize         uint64
	quoteLotSize        uint64
	baseLotsPerBaseUnit uint64

	// Quote lots per base unit per tick: tick size divided by the quote
	// lot size, floored.
	tickSizeInQuoteLotsPerBaseUnit uint64
}

// NewLotConverter derives the per-snapshot conversion constants.
func NewLotConverter(p *domain.MarketParams) LotConverter {
	return LotConverter{
		baseLotSize:                    p.BaseLotSize,
		quoteLotSize:                   p.QuoteLotSize,
		baseLotsPerBaseUnit:            p.BaseLotsPerBaseUnit,
		tickSizeInQuoteLotsPerBaseUnit: p.TickSizeInQuoteAtomsPerBaseUnit / p.QuoteLotSize,
	}
}

func (c LotConverter) BaseAtomsToLots(atoms uint64) uint64 {
	return atoms / c.baseLotSize
}

func (c LotConverter) QuoteAtomsToLots(atoms uint64) uint64 {
	return atoms / c.quoteLotSize
}

// BaseLotsToAtoms returns lots x baseLotSize in 256-bit space.
func (c LotConverter) BaseLotsToAtoms(lots uint64) *uint256.Int {
	product := uint256.NewInt(lots)
	return product.Mul(product, uint256.NewInt(c.baseLotSize))
}

// QuoteLotsToAtoms returns lots x quoteLotSize in 256-bit space.
func (c LotConverter) QuoteLotsToAtoms(lots uint64) *uint256.Int {
	product := uint256.NewInt(lots)
	return product.Mul(product, uint256.NewInt(c.quoteLotSize))
}

// QuoteAtomsForBaseLots prices baseLots at priceInTicks and returns the raw
// quote atoms received:
//
//	floor(priceInTicks * baseLots * tickRatio * quoteLotSize / baseLotsPerBaseUnit)
//
// The single floor at the end reproduces the venue's matching arithmetic
// bit-for-bit; flooring the lot count first would lose atoms.
func (c LotConverter) QuoteAtomsForBaseLots(priceInTicks, baseLots uint64) *uint256.Int {
	product := uint256.NewInt(priceInTicks)
	product.Mul(product, uint256.NewInt(baseLots))
	product.Mul(product, uint256.NewInt(c.tickSizeInQuoteLotsPerBaseUnit))
	product.Mul(product, uint256.NewInt(c.quoteLotSize))
	return product.Div(product, uint256.NewInt(c.baseLotsPerBaseUnit))
}

// QuoteLotsForBaseLots prices baseLots at priceInTicks in quote lots:
//
//	floor(priceInTicks * baseLots * tickRatio / baseLotsPerBaseUnit)
//
// Used when a level is fully consumed, so the exact spend for the level's
// resting size is charged rather than the remaining budget.
func (c LotConverter) QuoteLotsForBaseLots(priceInTicks, baseLots uint64) *uint256.Int {
	product := uint256.NewInt(priceInTicks)
	product.Mul(product, uint256.NewInt(baseLots))
	product.Mul(product, uint256.NewInt(c.tickSizeInQuoteLotsPerBaseUnit))
	return product.Div(product, uint256.NewInt(c.baseLotsPerBaseUnit))
}

// BaseLotsPurchasable returns how many base lots a quote-lot budget buys at
// priceInTicks:
//
//	floor(floor(quoteLotBudget * baseLotsPerBaseUnit / tickRatio) / priceInTicks)
//
// The two sequential floors mirror the venue's evaluation order.
func (c LotConverter) BaseLotsPurchasable(priceInTicks, quoteLotBudget uint64) uint64 {
	product := uint256.NewInt(quoteLotBudget)
	product.Mul(product, uint256.NewInt(c.baseLotsPerBaseUnit))
	product.Div(product, uint256.NewInt(c.tickSizeInQuoteLotsPerBaseUnit))
	product.Div(product, uint256.NewInt(priceInTicks))
	if !product.IsUint64() {
		// Budget and price are both u64-range, so this cannot happen for a
		// well-formed market; saturate rather than wrap.
		return ^uint64(0)
	}
	return product.Uint64()
}
