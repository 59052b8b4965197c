package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// canonicalQuery encodes params deterministically: url.Values.Encode
// sorts by key and percent-encodes values, which is exactly the
// canonical form the exchange signs.
func canonicalQuery(params url.Values) string {
	return params.Encode()
}

// sign computes the hex HMAC-SHA256 signature of an encoded query
// string with the shared secret.
func sign(secret, encodedQuery string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(encodedQuery))
	return hex.EncodeToString(mac.Sum(nil))
}

// signedQuery returns the encoded query with the signature parameter
// appended. The signature covers everything before it.
func signedQuery(secret string, params url.Values) string {
	encoded := canonicalQuery(params)
	if encoded == "" {
		return "signature=" + sign(secret, encoded)
	}
	return encoded + "&signature=" + sign(secret, encoded)
}
