package http

import (
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/phoenix-quoter/internal/domain"
	"github.com/hxuan190/phoenix-quoter/internal/http/httputil"
	"github.com/hxuan190/phoenix-quoter/internal/metrics"
	"github.com/hxuan190/phoenix-quoter/internal/services/quoter"
)

type QuoteHandler struct {
	registry *quoter.Registry
}

func NewQuoteHandler(registry *quoter.Registry) *QuoteHandler {
	return &QuoteHandler{registry: registry}
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
}

type quoteResponse struct {
	InputMint          string `json:"inputMint"`
	OutputMint         string `json:"outputMint"`
	InAmount           string `json:"inAmount"`
	OutAmount          string `json:"outAmount"`
	FeeAmount          string `json:"feeAmount"`
	FeeMint            string `json:"feeMint"`
	FeePct             string `json:"feePct"`
	PriceImpactPct     string `json:"priceImpactPct"`
	NotEnoughLiquidity bool   `json:"notEnoughLiquidity"`
}

func (h *QuoteHandler) getQuote(c *gin.Context) {
	inputMint, err := solana.PublicKeyFromBase58(c.Query("inputMint"))
	if err != nil {
		metrics.QuoteRequests.WithLabelValues("bad_request").Inc()
		httputil.BadRequest(c, "invalid inputMint")
		return
	}

	outputMint, err := solana.PublicKeyFromBase58(c.Query("outputMint"))
	if err != nil {
		metrics.QuoteRequests.WithLabelValues("bad_request").Inc()
		httputil.BadRequest(c, "invalid outputMint")
		return
	}

	amount, ok := new(big.Int).SetString(c.Query("amount"), 10)
	if !ok || amount.Sign() <= 0 {
		metrics.QuoteRequests.WithLabelValues("bad_request").Inc()
		httputil.BadRequest(c, "amount must be a positive integer")
		return
	}

	result, err := h.registry.Quote(&domain.QuoteParams{
		InputMint:  inputMint,
		OutputMint: outputMint,
		Amount:     amount,
	})
	if err != nil {
		h.writeQuoteError(c, err)
		return
	}

	metrics.QuoteRequests.WithLabelValues("ok").Inc()
	impact, _ := result.PriceImpactPct.Float64()
	metrics.PriceImpact.Observe(impact * 10_000)
	if result.NotEnoughLiquidity {
		metrics.NotEnoughLiquidity.Inc()
	}

	httputil.Success(c, quoteResponse{
		InputMint:          inputMint.String(),
		OutputMint:         outputMint.String(),
		InAmount:           result.InAmount.String(),
		OutAmount:          result.OutAmount.String(),
		FeeAmount:          result.FeeAmount.String(),
		FeeMint:            result.FeeMint.String(),
		FeePct:             result.FeePct.String(),
		PriceImpactPct:     result.PriceImpactPct.String(),
		NotEnoughLiquidity: result.NotEnoughLiquidity,
	})
}

func (h *QuoteHandler) writeQuoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quoter.ErrMarketNotFound):
		metrics.QuoteRequests.WithLabelValues("not_found").Inc()
		httputil.NotFound(c, err.Error())
	case errors.Is(err, quoter.ErrInvalidAmount),
		errors.Is(err, quoter.ErrAmountTooLarge),
		errors.Is(err, quoter.ErrUnknownMint),
		errors.Is(err, quoter.ErrMismatchedMints):
		metrics.QuoteRequests.WithLabelValues("bad_request").Inc()
		httputil.BadRequest(c, err.Error())
	case errors.Is(err, quoter.ErrNoBestPrice):
		metrics.QuoteRequests.WithLabelValues("no_liquidity").Inc()
		httputil.UnprocessableEntity(c, err.Error())
	default:
		metrics.QuoteRequests.WithLabelValues("error").Inc()
		httputil.InternalError(c, err.Error())
	}
}
