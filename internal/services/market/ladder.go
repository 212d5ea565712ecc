package market

import (
	"sort"

	"github.com/hxuan190/phoenix-quoter/internal/domain"
)

// FullDepth requests every level on both sides.
const FullDepth = 0

// BuildLadder aggregates a decoded book into the L2 ladder: expired orders
// dropped, equal-price orders merged, bids sorted highest first, asks lowest
// first. The result is a fresh value every call; the previous ladder is
// never patched in place.
func BuildLadder(book *Book, clk *Clock, depth int) domain.Ladder {
	return domain.Ladder{
		Bids: buildSide(book.Bids, clk, depth, func(a, b uint64) bool { return a > b }),
		Asks: buildSide(book.Asks, clk, depth, func(a, b uint64) bool { return a < b }),
	}
}

func buildSide(orders []RestingOrder, clk *Clock, depth int, better func(a, b uint64) bool) []domain.LadderLevel {
	sizeByPrice := make(map[uint64]uint64, len(orders))
	for _, order := range orders {
		if isExpired(order, clk) {
			continue
		}
		sizeByPrice[order.PriceInTicks] += order.SizeInBaseLots
	}

	levels := make([]domain.LadderLevel, 0, len(sizeByPrice))
	for price, size := range sizeByPrice {
		levels = append(levels, domain.LadderLevel{PriceInTicks: price, SizeInBaseLots: size})
	}
	sort.Slice(levels, func(i, j int) bool {
		return better(levels[i].PriceInTicks, levels[j].PriceInTicks)
	})

	if depth > 0 && len(levels) > depth {
		levels = levels[:depth]
	}
	return levels
}

// isExpired reports whether an order's slot or timestamp bound has passed.
// Zero bounds mean the order never expires; without a clock nothing expires.
func isExpired(order RestingOrder, clk *Clock) bool {
	if clk == nil {
		return false
	}
	if order.LastValidSlot != 0 && clk.Slot > order.LastValidSlot {
		return true
	}
	if order.LastValidUnixTimestamp != 0 && clk.UnixTimestamp > int64(order.LastValidUnixTimestamp) {
		return true
	}
	return false
}
