package authenticator_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/luckywalk/backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

func TestAppleClientSecret(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	now := time.Now()
	secret, err := authenticator.AppleClientSecret(authenticator.AppleClientSecretParams{
		TeamID:     "TEAM123",
		KeyID:      "KEY456",
		ClientID:   "com.luckywalk.signin",
		PrivateKey: keyPEM,
		Expiration: time.Hour,
	}, now)
	require.NoError(t, err)

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(secret, &claims, func(t *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, "KEY456", token.Header["kid"])
	require.Equal(t, "ES256", token.Header["alg"])
	require.Equal(t, "TEAM123", claims.Issuer)
	require.Equal(t, "com.luckywalk.signin", claims.Subject)
	require.Equal(t, jwt.ClaimStrings{authenticator.AppleAudience}, claims.Audience)
}

func TestAppleClientSecret_InvalidKey(t *testing.T) {
	_, err := authenticator.AppleClientSecret(authenticator.AppleClientSecretParams{
		PrivateKey: []byte("not a key"),
	}, time.Now())
	require.Error(t, err)
}
