package testutil

import (
	"context"

	"github.com/luckywalk/backend/pkg/authenticator"
)

type MockOAuth2 struct {
	Name                        string
	VerifyIDTokenFunc           func(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error)
	VerifyAuthorizationCodeFunc func(ctx context.Context, code, redirectURI string) (authenticator.OAuth2User, error)
}

func NewMockOAuth2(name string) *MockOAuth2 {
	return &MockOAuth2{Name: name}
}

func (m *MockOAuth2) Service() string {
	return m.Name
}

func (m *MockOAuth2) VerifyIDToken(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
	if m.VerifyIDTokenFunc != nil {
		return m.VerifyIDTokenFunc(ctx, rawIDToken)
	}

	return authenticator.OAuth2User{}, nil
}

func (m *MockOAuth2) VerifyAuthorizationCode(
	ctx context.Context, code, redirectURI string,
) (authenticator.OAuth2User, error) {
	if m.VerifyAuthorizationCodeFunc != nil {
		return m.VerifyAuthorizationCodeFunc(ctx, code, redirectURI)
	}

	return authenticator.OAuth2User{}, nil
}
