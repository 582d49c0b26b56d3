package model

import "time"

// AccessToken is the payload carried by the issued access token.
type AccessToken struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Provider    string     `json:"provider"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type KakaoLoginRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

type KakaoUser struct {
	ID           string `json:"id"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
}

type KakaoLoginResponse struct {
	User      User      `json:"user"`
	Session   Session   `json:"session"`
	KakaoUser KakaoUser `json:"kakao_user"`
}

type AppleName struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// AppleLoginUser is only sent by the client on the first authorization.
type AppleLoginUser struct {
	Name  *AppleName `json:"name"`
	Email string     `json:"email"`
}

type AppleLoginRequest struct {
	IdentityToken     string          `json:"identityToken"`
	AuthorizationCode string          `json:"authorizationCode"`
	User              *AppleLoginUser `json:"user"`
}

type AppleUser struct {
	ID    string     `json:"id"`
	Email string     `json:"email,omitempty"`
	Name  *AppleName `json:"name,omitempty"`
}

type AppleLoginResponse struct {
	User      User      `json:"user"`
	Session   Session   `json:"session"`
	AppleUser AppleUser `json:"apple_user"`
}
