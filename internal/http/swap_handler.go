package http

import (
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/phoenix-quoter/internal/domain"
	"github.com/hxuan190/phoenix-quoter/internal/http/httputil"
	"github.com/hxuan190/phoenix-quoter/internal/services/builder"
	"github.com/hxuan190/phoenix-quoter/internal/services/quoter"
)

type SwapHandler struct {
	registry *quoter.Registry
}

func NewSwapHandler(registry *quoter.Registry) *SwapHandler {
	return &SwapHandler{registry: registry}
}

func (h *SwapHandler) Root() string {
	return "/swap"
}

func (h *SwapHandler) SetRoutes(pub *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/accounts", h.getSwapAccounts)
}

type accountMetaResponse struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

type swapAccountsResponse struct {
	Market   string                `json:"market"`
	Side     string                `json:"side"`
	Accounts []accountMetaResponse `json:"accounts"`
}

func (h *SwapHandler) getSwapAccounts(c *gin.Context) {
	marketKey, err := solana.PublicKeyFromBase58(c.Query("market"))
	if err != nil {
		httputil.BadRequest(c, "invalid market address")
		return
	}

	params := &domain.SwapParams{}
	for _, f := range []struct {
		name string
		dst  *solana.PublicKey
	}{
		{"sourceMint", &params.SourceMint},
		{"destinationMint", &params.DestinationMint},
		{"userTransferAuthority", &params.UserTransferAuthority},
	} {
		key, err := solana.PublicKeyFromBase58(c.Query(f.name))
		if err != nil {
			httputil.BadRequest(c, "invalid "+f.name)
			return
		}
		*f.dst = key
	}

	// Token accounts default to the authority's ATA for the leg's mint.
	for _, f := range []struct {
		name string
		mint solana.PublicKey
		dst  *solana.PublicKey
	}{
		{"userSourceTokenAccount", params.SourceMint, &params.UserSourceTokenAccount},
		{"userDestinationTokenAccount", params.DestinationMint, &params.UserDestinationTokenAccount},
	} {
		raw := c.Query(f.name)
		if raw == "" {
			ata, err := builder.ATAAddress(params.UserTransferAuthority, f.mint)
			if err != nil {
				httputil.InternalError(c, "failed to derive "+f.name)
				return
			}
			*f.dst = ata
			continue
		}
		key, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			httputil.BadRequest(c, "invalid "+f.name)
			return
		}
		*f.dst = key
	}

	accounts, err := h.registry.SwapAccounts(marketKey, params)
	if err != nil {
		switch {
		case errors.Is(err, quoter.ErrMarketNotFound):
			httputil.NotFound(c, err.Error())
		case errors.Is(err, builder.ErrInvalidSourceMint),
			errors.Is(err, builder.ErrInvalidDestinationMint):
			httputil.BadRequest(c, err.Error())
		default:
			httputil.InternalError(c, err.Error())
		}
		return
	}

	metas := make([]accountMetaResponse, 0, len(accounts.AccountMetas))
	for _, meta := range accounts.AccountMetas {
		metas = append(metas, accountMetaResponse{
			Pubkey:     meta.PublicKey.String(),
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		})
	}

	httputil.Success(c, swapAccountsResponse{
		Market:   marketKey.String(),
		Side:     accounts.Side.String(),
		Accounts: metas,
	})
}
