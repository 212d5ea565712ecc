// Package builder derives the venue-specific account identities an external
// instruction builder needs to turn a quoted trade into an executable swap.
// It builds no instruction itself.
package builder

import (
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/phoenix-quoter/internal/common"
)

var (
	logAuthorityOnce sync.Once
	logAuthorityPDA  solana.PublicKey
)

// LogAuthority is the program's event-log authority, derived once from the
// "log" seed.
func LogAuthority() solana.PublicKey {
	logAuthorityOnce.Do(func() {
		pda, _, err := solana.FindProgramAddress(
			[][]byte{[]byte(common.LogAuthoritySeed)},
			common.PhoenixProgramID,
		)
		if err != nil {
			panic("failed to derive log authority PDA: " + err.Error())
		}
		logAuthorityPDA = pda
	})
	return logAuthorityPDA
}

type vaultKey struct {
	market solana.PublicKey
	mint   solana.PublicKey
}

var (
	vaultPDACache   = make(map[vaultKey]solana.PublicKey)
	vaultPDACacheMu sync.RWMutex
)

// VaultPDA derives the custody vault for one mint of a market. PDAs are
// deterministic, so results are cached forever.
func VaultPDA(market, mint solana.PublicKey) (solana.PublicKey, error) {
	key := vaultKey{market: market, mint: mint}

	vaultPDACacheMu.RLock()
	if cached, ok := vaultPDACache[key]; ok {
		vaultPDACacheMu.RUnlock()
		return cached, nil
	}
	vaultPDACacheMu.RUnlock()

	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(common.VaultSeed), market[:], mint[:]},
		common.PhoenixProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, err
	}

	vaultPDACacheMu.Lock()
	vaultPDACache[key] = pda
	vaultPDACacheMu.Unlock()

	return pda, nil
}

type ataKey struct {
	wallet solana.PublicKey
	mint   solana.PublicKey
}

var (
	ataCache   = make(map[ataKey]solana.PublicKey)
	ataCacheMu sync.RWMutex
)

// ATAAddress derives the associated token account for a wallet and mint.
func ATAAddress(wallet, mint solana.PublicKey) (solana.PublicKey, error) {
	key := ataKey{wallet: wallet, mint: mint}

	ataCacheMu.RLock()
	if cached, ok := ataCache[key]; ok {
		ataCacheMu.RUnlock()
		return cached, nil
	}
	ataCacheMu.RUnlock()

	ata, _, err := solana.FindProgramAddress(
		[][]byte{wallet[:], common.TokenProgramID[:], mint[:]},
		common.ATAProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, err
	}

	ataCacheMu.Lock()
	ataCache[key] = ata
	ataCacheMu.Unlock()

	return ata, nil
}
