// Package common contains common constants and variables used across services
package common

import "github.com/gagliardetto/solana-go"

var (
	PhoenixProgramID = solana.MustPublicKeyFromBase58("PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY")

	TokenProgramID  = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	ATAProgramID    = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SystemProgramID = solana.SystemProgramID
	ClockSysvarID   = solana.SysVarClockPubkey

	// PDA seeds defined by the Phoenix program
	LogAuthoritySeed = "log"
	VaultSeed        = "vault"
)

const (
	// Basis point denominator for taker fees
	BpsDenominator = 10_000
)
