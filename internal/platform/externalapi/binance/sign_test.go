package binance

import (
	"net/url"
	"strings"
	"testing"
)

func TestCanonicalQuery_Deterministic(t *testing.T) {
	t.Parallel()

	params := url.Values{}
	params.Set("symbol", "BTCUSDT")
	params.Set("interval", "1d")
	params.Set("limit", "7")

	// url.Values.Encode sorts keys, so the canonical form is stable.
	want := "interval=1d&limit=7&symbol=BTCUSDT"
	for i := 0; i < 5; i++ {
		if got := canonicalQuery(params); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestSign_KnownVector(t *testing.T) {
	t.Parallel()

	// Example from the Binance API documentation.
	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
	query := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"
	want := "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71"

	if got := sign(secret, query); got != want {
		t.Errorf("expected signature %s, got %s", want, got)
	}
}

func TestSignedQuery_AppendsSignature(t *testing.T) {
	t.Parallel()

	params := url.Values{}
	params.Set("symbol", "BTCUSDT")

	got := signedQuery("secret", params)
	if !strings.HasPrefix(got, "symbol=BTCUSDT&signature=") {
		t.Errorf("expected signature appended after canonical query, got %q", got)
	}
	if sig := strings.TrimPrefix(got, "symbol=BTCUSDT&signature="); sig != sign("secret", "symbol=BTCUSDT") {
		t.Errorf("signature does not cover the canonical query: %q", sig)
	}
}
