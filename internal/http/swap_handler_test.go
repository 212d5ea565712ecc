package http

import (
	"net/http"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/phoenix-quoter/internal/services/builder"
)

var testSwapAuthority = solana.MustPublicKeyFromBase58("Ew3vFDdtdGrknJAVVfraxCA37uNJtimXYPY4QjnfhFHH")

func TestGetSwapAccounts(t *testing.T) {
	r := testRouter(t)

	rec, resp := doRequest(t, r,
		"/api/v1/swap/accounts?market="+testMarketKey.String()+
			"&sourceMint="+testBaseMint.String()+
			"&destinationMint="+testQuoteMint.String()+
			"&userTransferAuthority="+testSwapAuthority.String()+
			"&userSourceTokenAccount=9wFFyRfZBsuAha4YcuxcXLKwMxJR43S7fPfQLusDBzvT"+
			"&userDestinationTokenAccount=HXk1WEyZFveDDtDnVK7hCKx7PegfMv7xzCFncTYMN2aP")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	data := resp.Data.(map[string]interface{})
	if data["side"] != "Ask" {
		t.Errorf("side = %v, selling base should be an Ask", data["side"])
	}

	accounts := data["accounts"].([]interface{})
	if len(accounts) != 9 {
		t.Fatalf("got %d accounts, expected 9", len(accounts))
	}
	second := accounts[1].(map[string]interface{})
	if second["pubkey"] != testMarketKey.String() {
		t.Errorf("account 1 = %v, expected the market after the program id", second["pubkey"])
	}
}

func TestGetSwapAccountsDefaultsToATAs(t *testing.T) {
	r := testRouter(t)

	rec, resp := doRequest(t, r,
		"/api/v1/swap/accounts?market="+testMarketKey.String()+
			"&sourceMint="+testBaseMint.String()+
			"&destinationMint="+testQuoteMint.String()+
			"&userTransferAuthority="+testSwapAuthority.String())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	baseATA, err := builder.ATAAddress(testSwapAuthority, testBaseMint)
	if err != nil {
		t.Fatalf("ATAAddress failed: %v", err)
	}
	quoteATA, err := builder.ATAAddress(testSwapAuthority, testQuoteMint)
	if err != nil {
		t.Fatalf("ATAAddress failed: %v", err)
	}

	accounts := resp.Data.(map[string]interface{})["accounts"].([]interface{})
	baseAccount := accounts[4].(map[string]interface{})
	if baseAccount["pubkey"] != baseATA.String() {
		t.Errorf("base token account = %v, expected the authority's base ATA %s", baseAccount["pubkey"], baseATA)
	}
	quoteAccount := accounts[5].(map[string]interface{})
	if quoteAccount["pubkey"] != quoteATA.String() {
		t.Errorf("quote token account = %v, expected the authority's quote ATA %s", quoteAccount["pubkey"], quoteATA)
	}
}

func TestGetSwapAccountsValidation(t *testing.T) {
	r := testRouter(t)

	rec, _ := doRequest(t, r,
		"/api/v1/swap/accounts?market="+testMarketKey.String()+
			"&sourceMint=junk"+
			"&destinationMint="+testQuoteMint.String()+
			"&userTransferAuthority="+testSwapAuthority.String())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d for a bad source mint, expected 400", rec.Code)
	}

	rec, _ = doRequest(t, r,
		"/api/v1/swap/accounts?market=9wFFyRfZBsuAha4YcuxcXLKwMxJR43S7fPfQLusDBzvT"+
			"&sourceMint="+testBaseMint.String()+
			"&destinationMint="+testQuoteMint.String()+
			"&userTransferAuthority="+testSwapAuthority.String())
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d for an unknown market, expected 404", rec.Code)
	}
}
