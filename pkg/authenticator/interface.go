package authenticator

import (
	"context"
	"time"
)

// OAuth2User is the identity returned by an external provider after verifying
// a token or an authorization code.
type OAuth2User struct {
	ID           string
	Email        string
	Nickname     string
	GivenName    string
	ProfileImage string
	BirthYear    int
	Gender       string
}

type IOAuth2Service interface {
	Service() string
	VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error)
	VerifyAuthorizationCode(ctx context.Context, code, redirectURI string) (OAuth2User, error)
}

type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, obj any) error
}
