package client

import (
	"context"
	"errors"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/luckywalk/backend/pkg/authenticator"
	"github.com/luckywalk/backend/pkg/xcontext"
)

const AppleService = "apple"

type appleClaims struct {
	Email string `json:"email"`
	Name  *struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"name"`
	GivenName string `json:"given_name"`
}

type appleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewAppleVerifier checks id tokens against the public keys of the issuer,
// the keys are fetched on first use.
func NewAppleVerifier(ctx context.Context) *appleVerifier {
	cfg := xcontext.Configs(ctx).Apple
	keySet := oidc.NewRemoteKeySet(
		oidc.ClientContext(context.Background(), xcontext.HTTPClient(ctx)),
		strings.TrimSuffix(cfg.Issuer, "/")+"/auth/keys",
	)

	return &appleVerifier{
		verifier: oidc.NewVerifier(cfg.Issuer, keySet, &oidc.Config{ClientID: cfg.ClientID}),
	}
}

func (v *appleVerifier) Service() string {
	return AppleService
}

func (v *appleVerifier) VerifyIDToken(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
	token, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return authenticator.OAuth2User{}, err
	}

	var claims appleClaims
	if err := token.Claims(&claims); err != nil {
		return authenticator.OAuth2User{}, err
	}

	user := authenticator.OAuth2User{
		ID:        token.Subject,
		Email:     claims.Email,
		GivenName: claims.GivenName,
	}

	if claims.Name != nil {
		user.Nickname = strings.TrimSpace(claims.Name.FirstName + " " + claims.Name.LastName)
	}

	return user, nil
}

func (v *appleVerifier) VerifyAuthorizationCode(
	ctx context.Context, code, redirectURI string,
) (authenticator.OAuth2User, error) {
	return authenticator.OAuth2User{}, errors.New("apple login requires an identity token")
}
