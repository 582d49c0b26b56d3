package crypto

import (
	"crypto/hmac"
	"encoding/hex"
	"hash"
	"strings"
)

// HMAC returns the hex-encoded HMAC of data.
func HMAC(hashFunc func() hash.Hash, data []byte, secret []byte) string {
	h := hmac.New(hashFunc, secret)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHMAC compares a hex-encoded signature with the HMAC of data in
// constant time. The comparison is case-insensitive on the hex digits.
func VerifyHMAC(hashFunc func() hash.Hash, data, secret []byte, signature string) bool {
	expected := HMAC(hashFunc, data, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
