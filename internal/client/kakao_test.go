package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luckywalk/backend/config"
	"github.com/luckywalk/backend/pkg/api"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newKakaoServer(t *testing.T, profile string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "valid-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}

		require.Equal(t, "client-id", r.PostForm.Get("client_id"))
		require.Equal(t, "https://app/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"kakao-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer kakao-token", r.Header.Get("Authorization"))
		w.Write([]byte(profile))
	})

	return httptest.NewServer(mux)
}

func kakaoContext(serverURL string) context.Context {
	cfg := config.Default()
	cfg.Kakao.ClientID = "client-id"
	cfg.Kakao.TokenURL = serverURL + "/oauth/token"
	cfg.Kakao.APIEndpoint = serverURL
	return xcontext.WithConfigs(context.Background(), cfg)
}

func Test_kakaoClient_VerifyAuthorizationCode(t *testing.T) {
	server := newKakaoServer(t, `{
		"id": 123456789,
		"properties": {"nickname": "walker", "profile_image": "https://img/1.png"},
		"kakao_account": {"email": "walker@kakao.com", "birthyear": "1990", "gender": "female"}
	}`)
	defer server.Close()

	ctx := kakaoContext(server.URL)
	user, err := NewKakaoClient(api.NewGenerator()).
		VerifyAuthorizationCode(ctx, "valid-code", "https://app/callback")
	require.NoError(t, err)
	require.Equal(t, "123456789", user.ID)
	require.Equal(t, "walker@kakao.com", user.Email)
	require.Equal(t, "walker", user.Nickname)
	require.Equal(t, "https://img/1.png", user.ProfileImage)
	require.Equal(t, 1990, user.BirthYear)
	require.Equal(t, "female", user.Gender)
}

func Test_kakaoClient_VerifyAuthorizationCode_InvalidCode(t *testing.T) {
	server := newKakaoServer(t, `{}`)
	defer server.Close()

	ctx := kakaoContext(server.URL)
	_, err := NewKakaoClient(api.NewGenerator()).
		VerifyAuthorizationCode(ctx, "invalid-code", "https://app/callback")
	require.Error(t, err)
}

func Test_kakaoClient_VerifyAuthorizationCode_MissingID(t *testing.T) {
	server := newKakaoServer(t, `{"properties": {"nickname": "walker"}}`)
	defer server.Close()

	ctx := kakaoContext(server.URL)
	_, err := NewKakaoClient(api.NewGenerator()).
		VerifyAuthorizationCode(ctx, "valid-code", "https://app/callback")
	require.Error(t, err)
}
