package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luckywalk/backend/internal/client"
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/authenticator"
	"github.com/luckywalk/backend/pkg/enum"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/xcontext"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultAppleNickname = "Apple User"

type AuthDomain interface {
	KakaoLogin(context.Context, *model.KakaoLoginRequest) (*model.KakaoLoginResponse, error)
	AppleLogin(context.Context, *model.AppleLoginRequest) (*model.AppleLoginResponse, error)
}

type authDomain struct {
	userRepo       repository.UserRepository
	profileRepo    repository.ProfileRepository
	oauth2Services []authenticator.IOAuth2Service
	now            func() time.Time
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	oauth2Services []authenticator.IOAuth2Service,
) *authDomain {
	return &authDomain{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		oauth2Services: oauth2Services,
		now:            time.Now,
	}
}

func (d *authDomain) KakaoLogin(
	ctx context.Context, req *model.KakaoLoginRequest,
) (*model.KakaoLoginResponse, error) {
	if req.Code == "" || req.RedirectURI == "" {
		return nil, errorx.New(errorx.BadRequest, "Missing required parameters")
	}

	service, ok := d.getOAuth2Service(client.KakaoService)
	if !ok {
		return nil, errorx.New(errorx.Unavailable, "Kakao login is not available")
	}

	kakaoUser, err := service.VerifyAuthorizationCode(ctx, req.Code, req.RedirectURI)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot verify kakao authorization code: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Failed to exchange authorization code")
	}

	email := kakaoUser.Email
	if email == "" {
		email = kakaoUser.ID + "@kakao.temp"
	}

	profile := &entity.UserProfile{
		Nickname:        kakaoUser.Nickname,
		ProfileImageURL: kakaoUser.ProfileImage,
		Gender:          sql.NullString{String: string(normalizeGender(kakaoUser.Gender)), Valid: true},
	}

	if kakaoUser.BirthYear > 0 {
		profile.BirthYear = sql.NullInt32{Int32: int32(kakaoUser.BirthYear), Valid: true}
	}

	user, err := d.login(ctx, entity.KakaoProvider, kakaoUser.ID, email, profile)
	if err != nil {
		return nil, err
	}

	session, err := d.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.KakaoLoginResponse{
		User:    convertUser(user),
		Session: session,
		KakaoUser: model.KakaoUser{
			ID:           kakaoUser.ID,
			Nickname:     kakaoUser.Nickname,
			ProfileImage: kakaoUser.ProfileImage,
		},
	}, nil
}

func (d *authDomain) AppleLogin(
	ctx context.Context, req *model.AppleLoginRequest,
) (*model.AppleLoginResponse, error) {
	if req.IdentityToken == "" {
		return nil, errorx.New(errorx.BadRequest, "Missing identity token")
	}

	service, ok := d.getOAuth2Service(client.AppleService)
	if !ok {
		return nil, errorx.New(errorx.Unavailable, "Apple login is not available")
	}

	appleUser, err := service.VerifyIDToken(ctx, req.IdentityToken)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot verify apple identity token: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid Apple identity token")
	}

	var name *model.AppleName
	if req.User != nil && req.User.Name != nil {
		name = req.User.Name
	}

	nickname := appleUser.Nickname
	if nickname == "" && name != nil {
		nickname = strings.TrimSpace(name.FirstName + " " + name.LastName)
	}

	if nickname == "" {
		nickname = appleUser.GivenName
	}

	if nickname == "" {
		nickname = defaultAppleNickname
	}

	email := appleUser.Email
	if email == "" {
		email = appleUser.ID + "@apple.temp"
	}

	user, err := d.login(ctx, entity.AppleProvider, appleUser.ID, email, &entity.UserProfile{Nickname: nickname})
	if err != nil {
		return nil, err
	}

	session, err := d.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.AppleLoginResponse{
		User:    convertUser(user),
		Session: session,
		AppleUser: model.AppleUser{
			ID:    appleUser.ID,
			Email: appleUser.Email,
			Name:  name,
		},
	}, nil
}

// login finds the user by its provider id or signs it up. The profile is only
// stored for a new user and a failure there does not fail the login.
func (d *authDomain) login(
	ctx context.Context,
	provider entity.AuthProvider,
	serviceUserID string,
	email string,
	profile *entity.UserProfile,
) (*entity.User, error) {
	now := d.now()

	var user *entity.User
	var err error
	switch provider {
	case entity.KakaoProvider:
		user, err = d.userRepo.GetByKakaoID(ctx, serviceUserID)
	case entity.AppleProvider:
		user, err = d.userRepo.GetByAppleID(ctx, serviceUserID)
	default:
		return nil, errorx.New(errorx.BadRequest, "Unsupported provider %s", provider)
	}

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err == nil {
		if err := d.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
			return nil, errorx.New(errorx.Internal, "Failed to update user")
		}

		user.LastLoginAt = sql.NullTime{Time: now, Valid: true}
	} else {
		user = &entity.User{
			Base:        entity.Base{ID: uuid.NewString()},
			Email:       email,
			Provider:    provider,
			LastLoginAt: sql.NullTime{Time: now, Valid: true},
		}

		if provider == entity.KakaoProvider {
			user.KakaoID = sql.NullString{String: serviceUserID, Valid: true}
		} else {
			user.AppleID = sql.NullString{String: serviceUserID, Valid: true}
		}

		if err := d.userRepo.Create(ctx, user); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
			return nil, errorx.New(errorx.Internal, "Failed to create user")
		}

		profile.ID = uuid.NewString()
		profile.UserID = user.ID
		if err := d.profileRepo.Create(ctx, profile); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create profile of user %s: %v", user.ID, err)
		}
	}

	err = d.userRepo.CreateActivity(ctx, &entity.UserActivity{
		Base:          entity.Base{ID: uuid.NewString()},
		UserID:        user.ID,
		ActivityType:  entity.LoginActivity,
		ActivityValue: 1,
		ActivityData: datatypes.JSONMap{
			"login_method": string(provider),
			"timestamp":    now.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot log login activity of user %s: %v", user.ID, err)
	}

	return user, nil
}

func (d *authDomain) issueSession(ctx context.Context, user *entity.User) (model.Session, error) {
	cfg := xcontext.Configs(ctx).Auth.AccessToken
	token, err := xcontext.TokenEngine(ctx).Generate(cfg.Expiration, model.AccessToken{
		ID:       user.ID,
		Provider: string(user.Provider),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return model.Session{}, errorx.Unknown
	}

	return model.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(cfg.Expiration.Seconds()),
	}, nil
}

func (d *authDomain) getOAuth2Service(name string) (authenticator.IOAuth2Service, bool) {
	for _, s := range d.oauth2Services {
		if s.Service() == name {
			return s, true
		}
	}

	return nil, false
}

func normalizeGender(gender string) entity.Gender {
	g, err := enum.ToEnum[entity.Gender](gender)
	if err != nil {
		return entity.PreferNotToSay
	}

	return g
}
