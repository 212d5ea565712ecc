// Package market decodes raw Phoenix market account data into the immutable
// snapshot records the quoter consumes. Decoding is pure: no I/O, no caching,
// and a failed decode never leaves partial state behind.
package market

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/phoenix-quoter/internal/common"
	"github.com/hxuan190/phoenix-quoter/internal/domain"
)

var (
	ErrMalformedSnapshot = errors.New("malformed market snapshot")
)

const (
	// HeaderSize is the fixed byte size of MarketHeader on-chain.
	HeaderSize = 576

	marketStatusActive = 1
)

// TokenParams describes one side's asset in the market header.
type TokenParams struct {
	Decimals  uint32
	VaultBump uint32
	MintKey   solana.PublicKey
	VaultKey  solana.PublicKey
}

// MarketSizeParams bounds the book the market account can hold.
type MarketSizeParams struct {
	BidsSize uint64
	AsksSize uint64
	NumSeats uint64
}

// MarketHeader is the fixed-layout prefix of every Phoenix market account.
// The resting-order book follows it.
type MarketHeader struct {
	Discriminant                    uint64
	Status                          uint64
	MarketSizeParams                MarketSizeParams
	BaseParams                      TokenParams
	BaseLotSize                     uint64
	QuoteParams                     TokenParams
	QuoteLotSize                    uint64
	TickSizeInQuoteAtomsPerBaseUnit uint64
	Authority                       solana.PublicKey
	FeeRecipient                    solana.PublicKey
	MarketSequenceNumber            uint64
	Successor                       solana.PublicKey
	RawBaseUnitsPerBaseUnit         uint32
	Padding1                        uint32
	Padding2                        [32]uint64
}

// RestingOrder is one live order on the book. Zero in either LastValid field
// means the order never expires on that dimension.
type RestingOrder struct {
	PriceInTicks           uint64
	SizeInBaseLots         uint64
	LastValidSlot          uint64
	LastValidUnixTimestamp uint64
}

// Book is the dynamic portion of the market account: the per-market matching
// constants plus every resting order on both sides.
type Book struct {
	BaseLotsPerBaseUnit uint64
	TakerFeeBps         uint64
	OrderSequenceNumber uint64
	NumBids             uint64
	NumAsks             uint64
	Bids                []RestingOrder
	Asks                []RestingOrder
}

// DecodeHeader reads and validates the fixed market header.
func DecodeHeader(data []byte) (*MarketHeader, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: account data %d bytes, header needs %d", ErrMalformedSnapshot, len(data), HeaderSize)
	}

	var header MarketHeader
	if err := bin.NewBinDecoder(data[:HeaderSize]).Decode(&header); err != nil {
		return nil, fmt.Errorf("%w: header decode: %s", ErrMalformedSnapshot, err)
	}

	if header.Status != marketStatusActive {
		return nil, fmt.Errorf("%w: market status %d not active", ErrMalformedSnapshot, header.Status)
	}
	if header.BaseLotSize == 0 || header.QuoteLotSize == 0 {
		return nil, fmt.Errorf("%w: zero lot size", ErrMalformedSnapshot)
	}
	if header.TickSizeInQuoteAtomsPerBaseUnit == 0 {
		return nil, fmt.Errorf("%w: zero tick size", ErrMalformedSnapshot)
	}
	if header.TickSizeInQuoteAtomsPerBaseUnit < header.QuoteLotSize {
		return nil, fmt.Errorf("%w: tick size %d smaller than quote lot size %d",
			ErrMalformedSnapshot, header.TickSizeInQuoteAtomsPerBaseUnit, header.QuoteLotSize)
	}

	return &header, nil
}

// DecodeBook reads the resting-order book that follows the header. The bid
// and ask counts are bounded by the header's size params; anything larger is
// a corrupt account, not a book to be repaired.
func DecodeBook(header *MarketHeader, data []byte) (*Book, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: no book bytes after header", ErrMalformedSnapshot)
	}

	var book Book
	decoder := bin.NewBinDecoder(data[HeaderSize:])

	var err error
	if book.BaseLotsPerBaseUnit, err = decoder.ReadUint64(bin.LE); err != nil {
		return nil, fmt.Errorf("%w: book constants: %s", ErrMalformedSnapshot, err)
	}
	if book.TakerFeeBps, err = decoder.ReadUint64(bin.LE); err != nil {
		return nil, fmt.Errorf("%w: book constants: %s", ErrMalformedSnapshot, err)
	}
	if book.OrderSequenceNumber, err = decoder.ReadUint64(bin.LE); err != nil {
		return nil, fmt.Errorf("%w: book constants: %s", ErrMalformedSnapshot, err)
	}
	if book.NumBids, err = decoder.ReadUint64(bin.LE); err != nil {
		return nil, fmt.Errorf("%w: book constants: %s", ErrMalformedSnapshot, err)
	}
	if book.NumAsks, err = decoder.ReadUint64(bin.LE); err != nil {
		return nil, fmt.Errorf("%w: book constants: %s", ErrMalformedSnapshot, err)
	}

	if book.BaseLotsPerBaseUnit == 0 {
		return nil, fmt.Errorf("%w: zero base lots per base unit", ErrMalformedSnapshot)
	}
	if book.TakerFeeBps > common.BpsDenominator {
		return nil, fmt.Errorf("%w: taker fee %d bps out of range", ErrMalformedSnapshot, book.TakerFeeBps)
	}
	if book.NumBids > header.MarketSizeParams.BidsSize {
		return nil, fmt.Errorf("%w: %d bids exceeds market capacity %d",
			ErrMalformedSnapshot, book.NumBids, header.MarketSizeParams.BidsSize)
	}
	if book.NumAsks > header.MarketSizeParams.AsksSize {
		return nil, fmt.Errorf("%w: %d asks exceeds market capacity %d",
			ErrMalformedSnapshot, book.NumAsks, header.MarketSizeParams.AsksSize)
	}

	book.Bids, err = decodeOrders(decoder, book.NumBids)
	if err != nil {
		return nil, fmt.Errorf("%w: bids: %s", ErrMalformedSnapshot, err)
	}
	book.Asks, err = decodeOrders(decoder, book.NumAsks)
	if err != nil {
		return nil, fmt.Errorf("%w: asks: %s", ErrMalformedSnapshot, err)
	}

	return &book, nil
}

func decodeOrders(decoder *bin.Decoder, count uint64) ([]RestingOrder, error) {
	orders := make([]RestingOrder, 0, count)
	for i := uint64(0); i < count; i++ {
		var order RestingOrder
		if err := decoder.Decode(&order); err != nil {
			return nil, fmt.Errorf("order %d: %s", i, err)
		}
		if order.PriceInTicks == 0 || order.SizeInBaseLots == 0 {
			return nil, fmt.Errorf("order %d: zero price or size", i)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// DecodeSnapshot builds a complete immutable snapshot from one market
// account's raw bytes plus the decoded clock. The ladder is built at full
// depth; callers wanting a shallower view truncate it themselves.
func DecodeSnapshot(marketKey solana.PublicKey, data []byte, clk *Clock) (*domain.MarketSnapshot, error) {
	header, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	book, err := DecodeBook(header, data)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.MarketSnapshot{
		Params: domain.MarketParams{
			MarketKey:                       marketKey,
			ProgramID:                       common.PhoenixProgramID,
			BaseMint:                        header.BaseParams.MintKey,
			QuoteMint:                       header.QuoteParams.MintKey,
			BaseVault:                       header.BaseParams.VaultKey,
			QuoteVault:                      header.QuoteParams.VaultKey,
			BaseDecimals:                    header.BaseParams.Decimals,
			QuoteDecimals:                   header.QuoteParams.Decimals,
			BaseLotSize:                     header.BaseLotSize,
			QuoteLotSize:                    header.QuoteLotSize,
			BaseLotsPerBaseUnit:             book.BaseLotsPerBaseUnit,
			TickSizeInQuoteAtomsPerBaseUnit: header.TickSizeInQuoteAtomsPerBaseUnit,
			TakerFeeBps:                     book.TakerFeeBps,
		},
		Ladder: BuildLadder(book, clk, FullDepth),
	}
	if clk != nil {
		snapshot.Slot = clk.Slot
		snapshot.UnixTimestamp = clk.UnixTimestamp
	}

	return snapshot, nil
}
