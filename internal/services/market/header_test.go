package market

import (
	"bytes"
	"errors"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	testMarketKey = solana.MustPublicKeyFromBase58("4DoNfFBfF7UokCC2FQzriy7yHK6DY6NVdYpuekQ5pRgg")
	testBaseMint  = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	testQuoteMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
)

func validHeader() *MarketHeader {
	return &MarketHeader{
		Discriminant: 1,
		Status:       marketStatusActive,
		MarketSizeParams: MarketSizeParams{
			BidsSize: 512,
			AsksSize: 512,
			NumSeats: 128,
		},
		BaseParams: TokenParams{
			Decimals: 9,
			MintKey:  testBaseMint,
			VaultKey: solana.MustPublicKeyFromBase58("8g4Z9d6PqGkgH31tMW6FwxGhwYJrXpxZHQrkikpLJKrG"),
		},
		BaseLotSize: 1_000_000,
		QuoteParams: TokenParams{
			Decimals: 6,
			MintKey:  testQuoteMint,
			VaultKey: solana.MustPublicKeyFromBase58("3HSYXeGc3LjEPCuzoNDjQN37F1ebsSiR4CqXVqQCdekZ"),
		},
		QuoteLotSize:                    1,
		TickSizeInQuoteAtomsPerBaseUnit: 1_000,
	}
}

// encodeMarket serializes a header plus book the way the account lays them
// out on chain: fixed header, five book constants, then the bid and ask
// arrays back to back.
func encodeMarket(t *testing.T, header *MarketHeader, book *Book) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.Encode(header); err != nil {
		t.Fatalf("encode header: %v", err)
	}
	if buf.Len() != HeaderSize {
		t.Fatalf("encoded header is %d bytes, layout expects %d", buf.Len(), HeaderSize)
	}

	for _, v := range []uint64{book.BaseLotsPerBaseUnit, book.TakerFeeBps, book.OrderSequenceNumber, book.NumBids, book.NumAsks} {
		if err := enc.WriteUint64(v, bin.LE); err != nil {
			t.Fatalf("encode book constants: %v", err)
		}
	}
	for _, order := range append(append([]RestingOrder{}, book.Bids...), book.Asks...) {
		if err := enc.Encode(&order); err != nil {
			t.Fatalf("encode order: %v", err)
		}
	}
	return buf.Bytes()
}

func validBook() *Book {
	return &Book{
		BaseLotsPerBaseUnit: 1_000,
		TakerFeeBps:         25,
		OrderSequenceNumber: 42,
		NumBids:             2,
		NumAsks:             1,
		Bids: []RestingOrder{
			{PriceInTicks: 150_000, SizeInBaseLots: 2_000},
			{PriceInTicks: 149_990, SizeInBaseLots: 500},
		},
		Asks: []RestingOrder{
			{PriceInTicks: 150_010, SizeInBaseLots: 1_200},
		},
	}
}

func TestDecodeSnapshotRoundTrip(t *testing.T) {
	data := encodeMarket(t, validHeader(), validBook())
	clk := &Clock{Slot: 123_456, UnixTimestamp: 1_700_000_000}

	snapshot, err := DecodeSnapshot(testMarketKey, data, clk)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	p := snapshot.Params
	if p.MarketKey != testMarketKey {
		t.Errorf("MarketKey = %s", p.MarketKey)
	}
	if p.BaseMint != testBaseMint || p.QuoteMint != testQuoteMint {
		t.Errorf("mints = %s / %s", p.BaseMint, p.QuoteMint)
	}
	if p.BaseDecimals != 9 || p.QuoteDecimals != 6 {
		t.Errorf("decimals = %d / %d", p.BaseDecimals, p.QuoteDecimals)
	}
	if p.BaseLotSize != 1_000_000 || p.QuoteLotSize != 1 {
		t.Errorf("lot sizes = %d / %d", p.BaseLotSize, p.QuoteLotSize)
	}
	if p.BaseLotsPerBaseUnit != 1_000 || p.TickSizeInQuoteAtomsPerBaseUnit != 1_000 {
		t.Errorf("unit constants = %d / %d", p.BaseLotsPerBaseUnit, p.TickSizeInQuoteAtomsPerBaseUnit)
	}
	if p.TakerFeeBps != 25 {
		t.Errorf("TakerFeeBps = %d", p.TakerFeeBps)
	}
	if snapshot.Slot != 123_456 || snapshot.UnixTimestamp != 1_700_000_000 {
		t.Errorf("clock fields = %d / %d", snapshot.Slot, snapshot.UnixTimestamp)
	}

	if len(snapshot.Ladder.Bids) != 2 || len(snapshot.Ladder.Asks) != 1 {
		t.Fatalf("ladder depth = %d bids, %d asks", len(snapshot.Ladder.Bids), len(snapshot.Ladder.Asks))
	}
	if snapshot.Ladder.Bids[0].PriceInTicks != 150_000 {
		t.Errorf("best bid = %d, expected highest price first", snapshot.Ladder.Bids[0].PriceInTicks)
	}
}

func TestDecodeHeaderRejectsMalformed(t *testing.T) {
	shortData := make([]byte, HeaderSize-1)

	zeroLot := validHeader()
	zeroLot.BaseLotSize = 0

	zeroTick := validHeader()
	zeroTick.TickSizeInQuoteAtomsPerBaseUnit = 0

	tickBelowLot := validHeader()
	tickBelowLot.QuoteLotSize = 2_000

	inactive := validHeader()
	inactive.Status = 0

	cases := []struct {
		name string
		data []byte
	}{
		{"truncated header", shortData},
		{"zero base lot size", encodeMarket(t, zeroLot, validBook())},
		{"zero tick size", encodeMarket(t, zeroTick, validBook())},
		{"tick below quote lot", encodeMarket(t, tickBelowLot, validBook())},
		{"inactive market", encodeMarket(t, inactive, validBook())},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeHeader(tc.data); !errors.Is(err, ErrMalformedSnapshot) {
				t.Errorf("DecodeHeader() error = %v, expected %v", err, ErrMalformedSnapshot)
			}
		})
	}
}

func TestDecodeBookRejectsMalformed(t *testing.T) {
	feeOutOfRange := validBook()
	feeOutOfRange.TakerFeeBps = 10_001

	tooManyBids := validBook()
	tooManyBids.NumBids = 513

	zeroUnit := validBook()
	zeroUnit.BaseLotsPerBaseUnit = 0

	zeroPrice := validBook()
	zeroPrice.Bids[0].PriceInTicks = 0

	cases := []struct {
		name string
		book *Book
	}{
		{"fee above denominator", feeOutOfRange},
		{"bid count beyond capacity", tooManyBids},
		{"zero base lots per unit", zeroUnit},
		{"zero price order", zeroPrice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			header := validHeader()
			data := encodeMarket(t, header, tc.book)
			if _, err := DecodeBook(header, data); !errors.Is(err, ErrMalformedSnapshot) {
				t.Errorf("DecodeBook() error = %v, expected %v", err, ErrMalformedSnapshot)
			}
		})
	}
}

func TestDecodeBookTruncatedOrders(t *testing.T) {
	header := validHeader()
	data := encodeMarket(t, header, validBook())

	// Chop into the last order's bytes.
	truncated := data[:len(data)-8]
	if _, err := DecodeBook(header, truncated); !errors.Is(err, ErrMalformedSnapshot) {
		t.Errorf("DecodeBook() error = %v, expected %v", err, ErrMalformedSnapshot)
	}
}

func TestDecodeClockRoundTrip(t *testing.T) {
	clk := Clock{
		Slot:                987_654,
		EpochStartTimestamp: 1_699_990_000,
		Epoch:               512,
		LeaderScheduleEpoch: 513,
		UnixTimestamp:       1_700_000_123,
	}

	buf := new(bytes.Buffer)
	if err := bin.NewBinEncoder(buf).Encode(&clk); err != nil {
		t.Fatalf("encode clock: %v", err)
	}

	decoded, err := DecodeClock(buf.Bytes())
	if err != nil {
		t.Fatalf("decode clock: %v", err)
	}
	if *decoded != clk {
		t.Errorf("decoded clock = %+v, expected %+v", decoded, clk)
	}
}

func TestDecodeClockRejectsShortData(t *testing.T) {
	if _, err := DecodeClock(make([]byte, 16)); !errors.Is(err, ErrMalformedSnapshot) {
		t.Errorf("DecodeClock() error = %v, expected %v", err, ErrMalformedSnapshot)
	}
}
