package authenticator

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const AppleAudience = "https://appleid.apple.com"

type AppleClientSecretParams struct {
	TeamID     string
	KeyID      string
	ClientID   string
	PrivateKey []byte
	Expiration time.Duration
}

// AppleClientSecret signs the ES256 client secret which Apple requires when
// exchanging an authorization code. PrivateKey is the PEM content of the .p8
// file downloaded from the developer console.
func AppleClientSecret(params AppleClientSecretParams, now time.Time) (string, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM(params.PrivateKey)
	if err != nil {
		return "", err
	}

	claims := jwt.RegisteredClaims{
		Issuer:    params.TeamID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(params.Expiration)),
		Audience:  jwt.ClaimStrings{AppleAudience},
		Subject:   params.ClientID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = params.KeyID
	return token.SignedString(key)
}
