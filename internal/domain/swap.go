package domain

import (
	"github.com/gagliardetto/solana-go"
)

// Side is the taker side of a swap from the book's perspective:
// selling base hits the bids (Ask), selling quote lifts the asks (Bid).
type Side uint8

const (
	SideBid Side = iota
	SideAsk
)

func (s Side) String() string {
	switch s {
	case SideBid:
		return "Bid"
	case SideAsk:
		return "Ask"
	default:
		return "UNKNOWN"
	}
}

// SwapParams carries the user-side identities an instruction builder needs
// to assemble an execution instruction for a previously quoted trade.
type SwapParams struct {
	SourceMint                  solana.PublicKey
	DestinationMint             solana.PublicKey
	UserSourceTokenAccount      solana.PublicKey
	UserDestinationTokenAccount solana.PublicKey
	UserTransferAuthority       solana.PublicKey
}

// SwapAccounts is the venue-specific account list for one swap leg, keyed by
// the computed trade side. The engine builds no instruction itself; the
// external builder consumes these metas.
type SwapAccounts struct {
	Side         Side
	AccountMetas []*solana.AccountMeta
}
