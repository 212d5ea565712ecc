package http

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/phoenix-quoter/internal/http/httputil"
	"github.com/hxuan190/phoenix-quoter/internal/services/quoter"
)

type MarketHandler struct {
	registry *quoter.Registry
}

func NewMarketHandler(registry *quoter.Registry) *MarketHandler {
	return &MarketHandler{registry: registry}
}

func (h *MarketHandler) Root() string {
	return "/markets"
}

func (h *MarketHandler) SetRoutes(pub *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.listMarkets)
	pub.GET("/:market/ladder", h.getLadder)
}

type marketResponse struct {
	Market        string `json:"market"`
	BaseMint      string `json:"baseMint"`
	QuoteMint     string `json:"quoteMint"`
	BaseDecimals  uint32 `json:"baseDecimals"`
	QuoteDecimals uint32 `json:"quoteDecimals"`
	TakerFeeBps   uint64 `json:"takerFeeBps"`
	Slot          uint64 `json:"slot"`
	BidLevels     int    `json:"bidLevels"`
	AskLevels     int    `json:"askLevels"`
}

func (h *MarketHandler) listMarkets(c *gin.Context) {
	engines := h.registry.All()
	markets := make([]marketResponse, 0, len(engines))
	for _, engine := range engines {
		snapshot := engine.Snapshot()
		markets = append(markets, marketResponse{
			Market:        engine.Key().String(),
			BaseMint:      snapshot.Params.BaseMint.String(),
			QuoteMint:     snapshot.Params.QuoteMint.String(),
			BaseDecimals:  snapshot.Params.BaseDecimals,
			QuoteDecimals: snapshot.Params.QuoteDecimals,
			TakerFeeBps:   snapshot.Params.TakerFeeBps,
			Slot:          snapshot.Slot,
			BidLevels:     len(snapshot.Ladder.Bids),
			AskLevels:     len(snapshot.Ladder.Asks),
		})
	}
	httputil.Success(c, markets)
}

type ladderLevelResponse struct {
	PriceInTicks   uint64 `json:"priceInTicks"`
	SizeInBaseLots uint64 `json:"sizeInBaseLots"`
}

type ladderResponse struct {
	Market string                `json:"market"`
	Slot   uint64                `json:"slot"`
	Bids   []ladderLevelResponse `json:"bids"`
	Asks   []ladderLevelResponse `json:"asks"`
}

func (h *MarketHandler) getLadder(c *gin.Context) {
	marketKey, err := solana.PublicKeyFromBase58(c.Param("market"))
	if err != nil {
		httputil.BadRequest(c, "invalid market address")
		return
	}

	engine, ok := h.registry.Get(marketKey)
	if !ok {
		httputil.NotFound(c, "market not found")
		return
	}

	snapshot := engine.Snapshot()
	resp := ladderResponse{
		Market: marketKey.String(),
		Slot:   snapshot.Slot,
		Bids:   make([]ladderLevelResponse, 0, len(snapshot.Ladder.Bids)),
		Asks:   make([]ladderLevelResponse, 0, len(snapshot.Ladder.Asks)),
	}
	for _, level := range snapshot.Ladder.Bids {
		resp.Bids = append(resp.Bids, ladderLevelResponse{level.PriceInTicks, level.SizeInBaseLots})
	}
	for _, level := range snapshot.Ladder.Asks {
		resp.Asks = append(resp.Asks, ladderLevelResponse{level.PriceInTicks, level.SizeInBaseLots})
	}
	httputil.Success(c, resp)
}
