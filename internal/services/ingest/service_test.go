package ingest

import (
	"bytes"
	"errors"
	"testing"

	bin "github.com/gagliardetto/binary"

	"github.com/hxuan190/phoenix-quoter/internal/common"
	"github.com/hxuan190/phoenix-quoter/internal/domain"
	"github.com/hxuan190/phoenix-quoter/internal/services/market"
	"github.com/hxuan190/phoenix-quoter/internal/services/quoter"
)

func TestDecodeClockFromMap(t *testing.T) {
	clk := market.Clock{Slot: 42, UnixTimestamp: 1_700_000_000}
	buf := new(bytes.Buffer)
	if err := bin.NewBinEncoder(buf).Encode(&clk); err != nil {
		t.Fatalf("encode clock: %v", err)
	}

	accounts := domain.AccountMap{common.ClockSysvarID: buf.Bytes()}
	decoded, err := decodeClockFromMap(accounts)
	if err != nil {
		t.Fatalf("decodeClockFromMap failed: %v", err)
	}
	if decoded.Slot != 42 || decoded.UnixTimestamp != 1_700_000_000 {
		t.Errorf("decoded clock = %+v", decoded)
	}

	_, err = decodeClockFromMap(domain.AccountMap{})
	if !errors.Is(err, ErrMissingSnapshot) {
		t.Errorf("error = %v, expected %v", err, ErrMissingSnapshot)
	}
}

func TestRefreshFailureReason(t *testing.T) {
	cases := []struct {
		err      error
		expected string
	}{
		{quoter.ErrMissingAccount, "missing_account"},
		{market.ErrMalformedSnapshot, "malformed"},
		{errors.New("rpc timeout"), "other"},
	}
	for _, tc := range cases {
		if got := refreshFailureReason(tc.err); got != tc.expected {
			t.Errorf("refreshFailureReason(%v) = %s, expected %s", tc.err, got, tc.expected)
		}
	}
}
