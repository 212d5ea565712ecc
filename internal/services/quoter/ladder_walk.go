package quoter

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/phoenix-quoter/internal/domain"
)

// walkOutcome is the raw result of one ladder walk, before fees and impact.
type walkOutcome struct {
	// Gross matched output in raw atoms of the output asset, pre-fee.
	grossOut *uint256.Int

	// Raw input atoms consumed, always a whole number of input-side lots.
	inAtoms *uint256.Int

	// Levels that matched at least the attempt to fill. Zero means the best
	// price was never established.
	levels int

	// Output atoms per input atom at the first level touched. Never
	// recomputed at later levels.
	bestPrice decimal.Decimal

	notEnoughLiquidity bool
}

// walkBids simulates selling base into the bid side. The budget is counted
// in base lots; any remainder of the raw amount below one lot is never
// consumable and stays with the caller.
func walkBids(conv LotConverter, bids []domain.LadderLevel, amountInAtoms uint64) walkOutcome {
	outcome := walkOutcome{
		grossOut: uint256.NewInt(0),
		inAtoms:  uint256.NewInt(0),
	}

	lotBudget := conv.BaseAtomsToLots(amountInAtoms)
	initialLotBudget := lotBudget

	for _, level := range bids {
		if lotBudget == 0 {
			break
		}

		filledLots := level.SizeInBaseLots
		if lotBudget < filledLots {
			filledLots = lotBudget
		}
		filledQuoteAtoms := conv.QuoteAtomsForBaseLots(level.PriceInTicks, filledLots)

		if outcome.levels == 0 {
			inAtomsForLevel := conv.BaseLotsToAtoms(filledLots)
			outcome.bestPrice = atomRatio(filledQuoteAtoms, inAtomsForLevel)
		}
		outcome.levels++

		outcome.grossOut.Add(outcome.grossOut, filledQuoteAtoms)
		lotBudget -= filledLots
	}

	outcome.inAtoms = conv.BaseLotsToAtoms(initialLotBudget - lotBudget)
	outcome.notEnoughLiquidity = lotBudget > 0
	return outcome
}

// walkAsks simulates selling quote into the ask side. The budget is counted
// in quote lots. At each level the purchasable base-lot count is computed
// first; a fully consumed level charges the exact quote-lot cost of its
// resting size, while a partially consumed level swallows the entire
// remaining budget. The rounding residue of a partial fill is a closed,
// intentional loss and is never carried to the next level.
func walkAsks(conv LotConverter, asks []domain.LadderLevel, amountInAtoms uint64) walkOutcome {
	outcome := walkOutcome{
		grossOut: uint256.NewInt(0),
		inAtoms:  uint256.NewInt(0),
	}

	quoteLotBudget := conv.QuoteAtomsToLots(amountInAtoms)
	initialQuoteLotBudget := quoteLotBudget

	for _, level := range asks {
		if quoteLotBudget == 0 {
			break
		}

		purchasableBaseLots := conv.BaseLotsPurchasable(level.PriceInTicks, quoteLotBudget)

		var baseLots, quoteLots uint64
		if level.SizeInBaseLots > purchasableBaseLots {
			baseLots = purchasableBaseLots
			quoteLots = quoteLotBudget
		} else {
			baseLots = level.SizeInBaseLots
			quoteLots = exactQuoteLots(conv, level.PriceInTicks, baseLots, quoteLotBudget)
		}
		filledBaseAtoms := conv.BaseLotsToAtoms(baseLots)

		if outcome.levels == 0 {
			inAtomsForLevel := conv.QuoteLotsToAtoms(quoteLots)
			outcome.bestPrice = atomRatio(filledBaseAtoms, inAtomsForLevel)
		}
		outcome.levels++

		outcome.grossOut.Add(outcome.grossOut, filledBaseAtoms)
		quoteLotBudget -= quoteLots
	}

	outcome.inAtoms = conv.QuoteLotsToAtoms(initialQuoteLotBudget - quoteLotBudget)
	outcome.notEnoughLiquidity = quoteLotBudget > 0
	return outcome
}

// exactQuoteLots is the exact quote-lot cost of baseLots at the level price,
// clamped to the remaining budget. The clamp covers the floor-division edge
// where the exact cost lands one lot above what the purchasable check
// admitted.
func exactQuoteLots(conv LotConverter, priceInTicks, baseLots, budget uint64) uint64 {
	cost := conv.QuoteLotsForBaseLots(priceInTicks, baseLots)
	if !cost.IsUint64() || cost.Uint64() > budget {
		return budget
	}
	return cost.Uint64()
}

// atomRatio is out/in as a decimal; zero input yields a zero ratio, which
// the post-processor rejects as NoBestPrice.
func atomRatio(out, in *uint256.Int) decimal.Decimal {
	if in.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(out.ToBig(), 0).Div(decimal.NewFromBigInt(in.ToBig(), 0))
}
