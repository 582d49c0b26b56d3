package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/luckywalk/backend/pkg/api"
	"github.com/luckywalk/backend/pkg/authenticator"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/oauth2"
)

const KakaoService = "kakao"

type kakaoProfile struct {
	ID         int64 `mapstructure:"id"`
	Properties struct {
		Nickname     string `mapstructure:"nickname"`
		ProfileImage string `mapstructure:"profile_image"`
	} `mapstructure:"properties"`
	KakaoAccount struct {
		Email     string `mapstructure:"email"`
		BirthYear string `mapstructure:"birthyear"`
		Gender    string `mapstructure:"gender"`
	} `mapstructure:"kakao_account"`
}

type kakaoClient struct {
	apiGenerator api.Generator
}

func NewKakaoClient(apiGenerator api.Generator) *kakaoClient {
	return &kakaoClient{apiGenerator: apiGenerator}
}

func (c *kakaoClient) Service() string {
	return KakaoService
}

func (c *kakaoClient) VerifyIDToken(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
	return authenticator.OAuth2User{}, errors.New("kakao login requires an authorization code")
}

func (c *kakaoClient) VerifyAuthorizationCode(
	ctx context.Context, code, redirectURI string,
) (authenticator.OAuth2User, error) {
	cfg := xcontext.Configs(ctx).Kakao
	oauth2Config := oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	token, err := oauth2Config.Exchange(
		context.WithValue(ctx, oauth2.HTTPClient, xcontext.HTTPClient(ctx)), code)
	if err != nil {
		return authenticator.OAuth2User{}, fmt.Errorf("cannot exchange authorization code: %w", err)
	}

	return c.getUser(ctx, token.AccessToken)
}

func (c *kakaoClient) getUser(ctx context.Context, accessToken string) (authenticator.OAuth2User, error) {
	cfg := xcontext.Configs(ctx).Kakao
	resp, err := c.apiGenerator.New(cfg.APIEndpoint, "/v2/user/me").
		GET(ctx, api.OAuth2("Bearer", accessToken))
	if err != nil {
		return authenticator.OAuth2User{}, err
	}

	if !resp.OK() {
		return authenticator.OAuth2User{}, fmt.Errorf("cannot get user information: %d %s",
			resp.Code, string(resp.RawBody))
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return authenticator.OAuth2User{}, errors.New("invalid user information")
	}

	var profile kakaoProfile
	if err := mapstructure.Decode(map[string]any(body), &profile); err != nil {
		return authenticator.OAuth2User{}, err
	}

	if profile.ID == 0 {
		return authenticator.OAuth2User{}, errors.New("missing kakao user id")
	}

	user := authenticator.OAuth2User{
		ID:           strconv.FormatInt(profile.ID, 10),
		Email:        profile.KakaoAccount.Email,
		Nickname:     profile.Properties.Nickname,
		ProfileImage: profile.Properties.ProfileImage,
		Gender:       profile.KakaoAccount.Gender,
	}

	if year, err := strconv.Atoi(profile.KakaoAccount.BirthYear); err == nil {
		user.BirthYear = year
	}

	return user, nil
}
