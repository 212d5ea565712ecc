package builder

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/phoenix-quoter/internal/common"
	"github.com/hxuan190/phoenix-quoter/internal/domain"
)

var (
	ErrInvalidSourceMint      = errors.New("source mint is neither base nor quote")
	ErrInvalidDestinationMint = errors.New("destination mint does not match market pair")
)

// SwapAccountsForMarket assembles the account list for one swap leg. Selling
// base hits the bids (Ask side), selling quote lifts the asks (Bid side);
// the user's base and quote token accounts are picked from the source and
// destination accordingly. Vault identities come from the decoded snapshot,
// passed through unchanged.
func SwapAccountsForMarket(marketParams *domain.MarketParams, params *domain.SwapParams) (*domain.SwapAccounts, error) {
	var side domain.Side
	var baseAccount, quoteAccount solana.PublicKey

	switch params.SourceMint {
	case marketParams.BaseMint:
		if params.DestinationMint != marketParams.QuoteMint {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDestinationMint, params.DestinationMint)
		}
		side = domain.SideAsk
		baseAccount = params.UserSourceTokenAccount
		quoteAccount = params.UserDestinationTokenAccount
	case marketParams.QuoteMint:
		if params.DestinationMint != marketParams.BaseMint {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDestinationMint, params.DestinationMint)
		}
		side = domain.SideBid
		baseAccount = params.UserDestinationTokenAccount
		quoteAccount = params.UserSourceTokenAccount
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidSourceMint, params.SourceMint)
	}

	// Order is part of the instruction ABI: program, market, log authority,
	// trader, then the token accounts and vaults.
	metas := []*solana.AccountMeta{
		{PublicKey: common.PhoenixProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: marketParams.MarketKey, IsSigner: false, IsWritable: true},
		{PublicKey: LogAuthority(), IsSigner: false, IsWritable: false},
		{PublicKey: params.UserTransferAuthority, IsSigner: true, IsWritable: false},
		{PublicKey: baseAccount, IsSigner: false, IsWritable: true},
		{PublicKey: quoteAccount, IsSigner: false, IsWritable: true},
		{PublicKey: marketParams.BaseVault, IsSigner: false, IsWritable: true},
		{PublicKey: marketParams.QuoteVault, IsSigner: false, IsWritable: true},
		{PublicKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
	}

	return &domain.SwapAccounts{
		Side:         side,
		AccountMetas: metas,
	}, nil
}
