package market

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// Clock mirrors the layout of the on-chain clock sysvar account.
type Clock struct {
	Slot                uint64
	EpochStartTimestamp int64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       int64
}

// DecodeClock deserializes the clock sysvar account data.
func DecodeClock(data []byte) (*Clock, error) {
	var clk Clock
	if err := bin.NewBinDecoder(data).Decode(&clk); err != nil {
		return nil, fmt.Errorf("%w: clock sysvar: %s", ErrMalformedSnapshot, err)
	}
	return &clk, nil
}
