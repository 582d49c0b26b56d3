package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luckywalk/backend/internal/client"
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/authenticator"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/testutil"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

var authTestNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newTestAuthDomain(services ...authenticator.IOAuth2Service) *authDomain {
	d := NewAuthDomain(repository.NewUserRepository(), repository.NewProfileRepository(), services)
	d.now = func() time.Time { return authTestNow }
	return d
}

func mockKakao(user authenticator.OAuth2User, err error) *testutil.MockOAuth2 {
	m := testutil.NewMockOAuth2(client.KakaoService)
	m.VerifyAuthorizationCodeFunc = func(ctx context.Context, code, redirectURI string) (authenticator.OAuth2User, error) {
		return user, err
	}
	return m
}

func mockApple(user authenticator.OAuth2User, err error) *testutil.MockOAuth2 {
	m := testutil.NewMockOAuth2(client.AppleService)
	m.VerifyIDTokenFunc = func(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
		return user, err
	}
	return m
}

func Test_authDomain_KakaoLogin_NewUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	d := newTestAuthDomain(mockKakao(authenticator.OAuth2User{
		ID:           "1001",
		Nickname:     "walker",
		ProfileImage: "https://img/1.png",
		BirthYear:    1990,
		Gender:       "female",
	}, nil))

	resp, err := d.KakaoLogin(ctx, &model.KakaoLoginRequest{Code: "code", RedirectURI: "https://app/callback"})
	require.NoError(t, err)
	require.Equal(t, "1001@kakao.temp", resp.User.Email)
	require.Equal(t, "kakao", resp.User.Provider)
	require.NotNil(t, resp.User.LastLoginAt)
	require.Equal(t, model.KakaoUser{ID: "1001", Nickname: "walker", ProfileImage: "https://img/1.png"}, resp.KakaoUser)
	require.Equal(t, "bearer", resp.Session.TokenType)
	require.Equal(t, 86400, resp.Session.ExpiresIn)

	var token model.AccessToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(resp.Session.AccessToken, &token))
	require.Equal(t, resp.User.ID, token.ID)
	require.Equal(t, "kakao", token.Provider)

	user, err := repository.NewUserRepository().GetByKakaoID(ctx, "1001")
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, user.ID)

	profile, err := repository.NewProfileRepository().GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "walker", profile.Nickname)
	require.Equal(t, "https://img/1.png", profile.ProfileImageURL)
	require.Equal(t, int32(1990), profile.BirthYear.Int32)
	require.Equal(t, string(entity.Female), profile.Gender.String)

	var activities []entity.UserActivity
	require.NoError(t, xcontext.DB(ctx).Find(&activities, "uid=?", user.ID).Error)
	require.Len(t, activities, 1)
	require.Equal(t, entity.LoginActivity, activities[0].ActivityType)
	require.Equal(t, "kakao", activities[0].ActivityData["login_method"])
}

func Test_authDomain_KakaoLogin_ExistingUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	d := newTestAuthDomain(mockKakao(authenticator.OAuth2User{
		ID:       "kakao_" + testutil.User1,
		Email:    "changed@kakao.com",
		Nickname: "changed",
	}, nil))

	resp, err := d.KakaoLogin(ctx, &model.KakaoLoginRequest{Code: "code", RedirectURI: "https://app/callback"})
	require.NoError(t, err)
	require.Equal(t, testutil.User1, resp.User.ID)
	require.Equal(t, testutil.User1+"@kakao.temp", resp.User.Email)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User1)
	require.NoError(t, err)
	require.True(t, user.LastLoginAt.Valid)
	require.True(t, authTestNow.Equal(user.LastLoginAt.Time))

	// The profile of an existing user is not overwritten.
	profile, err := repository.NewProfileRepository().GetByUserID(ctx, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, testutil.User1, profile.Nickname)
}

func Test_authDomain_KakaoLogin_Gender(t *testing.T) {
	tests := []struct {
		gender string
		want   entity.Gender
	}{
		{gender: "male", want: entity.Male},
		{gender: "female", want: entity.Female},
		{gender: "", want: entity.PreferNotToSay},
		{gender: "other", want: entity.PreferNotToSay},
	}

	for _, tt := range tests {
		t.Run(tt.gender, func(t *testing.T) {
			ctx := testutil.MockContext()
			d := newTestAuthDomain(mockKakao(authenticator.OAuth2User{ID: "1001", Gender: tt.gender}, nil))

			resp, err := d.KakaoLogin(ctx, &model.KakaoLoginRequest{Code: "code", RedirectURI: "uri"})
			require.NoError(t, err)

			profile, err := repository.NewProfileRepository().GetByUserID(ctx, resp.User.ID)
			require.NoError(t, err)
			require.Equal(t, string(tt.want), profile.Gender.String)
		})
	}
}

func Test_authDomain_KakaoLogin_Errors(t *testing.T) {
	tests := []struct {
		name     string
		services []authenticator.IOAuth2Service
		req      *model.KakaoLoginRequest
		wantErr  error
	}{
		{
			name:     "missing code",
			services: []authenticator.IOAuth2Service{mockKakao(authenticator.OAuth2User{}, nil)},
			req:      &model.KakaoLoginRequest{RedirectURI: "uri"},
			wantErr:  errorx.New(errorx.BadRequest, "Missing required parameters"),
		},
		{
			name:     "missing redirect uri",
			services: []authenticator.IOAuth2Service{mockKakao(authenticator.OAuth2User{}, nil)},
			req:      &model.KakaoLoginRequest{Code: "code"},
			wantErr:  errorx.New(errorx.BadRequest, "Missing required parameters"),
		},
		{
			name:     "invalid code",
			services: []authenticator.IOAuth2Service{mockKakao(authenticator.OAuth2User{}, errors.New("invalid_grant"))},
			req:      &model.KakaoLoginRequest{Code: "code", RedirectURI: "uri"},
			wantErr:  errorx.New(errorx.BadRequest, "Failed to exchange authorization code"),
		},
		{
			name:     "not configured",
			services: []authenticator.IOAuth2Service{mockApple(authenticator.OAuth2User{}, nil)},
			req:      &model.KakaoLoginRequest{Code: "code", RedirectURI: "uri"},
			wantErr:  errorx.New(errorx.Unavailable, "Kakao login is not available"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			_, err := newTestAuthDomain(tt.services...).KakaoLogin(ctx, tt.req)
			require.Error(t, err)
			require.Equal(t, tt.wantErr, err)
		})
	}
}

func Test_authDomain_AppleLogin(t *testing.T) {
	tests := []struct {
		name         string
		appleUser    authenticator.OAuth2User
		req          *model.AppleLoginRequest
		wantNickname string
		wantEmail    string
	}{
		{
			name:         "name in token",
			appleUser:    authenticator.OAuth2User{ID: "apple1", Email: "a@privaterelay.appleid.com", Nickname: "Kim Minsu"},
			req:          &model.AppleLoginRequest{IdentityToken: "token"},
			wantNickname: "Kim Minsu",
			wantEmail:    "a@privaterelay.appleid.com",
		},
		{
			name:      "name in request",
			appleUser: authenticator.OAuth2User{ID: "apple1", GivenName: "Minsu"},
			req: &model.AppleLoginRequest{
				IdentityToken: "token",
				User: &model.AppleLoginUser{
					Name: &model.AppleName{FirstName: "Minsu", LastName: "Kim"},
				},
			},
			wantNickname: "Minsu Kim",
			wantEmail:    "apple1@apple.temp",
		},
		{
			name:         "given name",
			appleUser:    authenticator.OAuth2User{ID: "apple1", GivenName: "Minsu"},
			req:          &model.AppleLoginRequest{IdentityToken: "token"},
			wantNickname: "Minsu",
			wantEmail:    "apple1@apple.temp",
		},
		{
			name:         "no name",
			appleUser:    authenticator.OAuth2User{ID: "apple1"},
			req:          &model.AppleLoginRequest{IdentityToken: "token"},
			wantNickname: "Apple User",
			wantEmail:    "apple1@apple.temp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			d := newTestAuthDomain(mockApple(tt.appleUser, nil))

			resp, err := d.AppleLogin(ctx, tt.req)
			require.NoError(t, err)
			require.Equal(t, tt.wantEmail, resp.User.Email)
			require.Equal(t, "apple", resp.User.Provider)
			require.Equal(t, "apple1", resp.AppleUser.ID)
			require.NotEmpty(t, resp.Session.AccessToken)

			user, err := repository.NewUserRepository().GetByAppleID(ctx, "apple1")
			require.NoError(t, err)
			require.Equal(t, resp.User.ID, user.ID)

			profile, err := repository.NewProfileRepository().GetByUserID(ctx, user.ID)
			require.NoError(t, err)
			require.Equal(t, tt.wantNickname, profile.Nickname)

			// Signing in again reuses the account.
			again, err := d.AppleLogin(ctx, tt.req)
			require.NoError(t, err)
			require.Equal(t, resp.User.ID, again.User.ID)
		})
	}
}

func Test_authDomain_AppleLogin_Errors(t *testing.T) {
	ctx := testutil.MockContext()

	_, err := newTestAuthDomain(mockApple(authenticator.OAuth2User{}, nil)).
		AppleLogin(ctx, &model.AppleLoginRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Missing identity token"), err)

	_, err = newTestAuthDomain(mockApple(authenticator.OAuth2User{}, errors.New("expired"))).
		AppleLogin(ctx, &model.AppleLoginRequest{IdentityToken: "token"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid Apple identity token"), err)
}
