package testutil

import (
	"context"
	"database/sql"

	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/repository"
)

const (
	User1 = "user1"
	User2 = "user2"
	User3 = "user3"
	Admin = "admin1"
)

// CreateFixtureDb inserts three regular users and one administrator.
func CreateFixtureDb(ctx context.Context) {
	for _, id := range []string{User1, User2, User3, Admin} {
		InsertUser(ctx, id)
	}

	err := repository.NewRoleRepository().Create(ctx, &entity.UserRole{
		Base:   entity.Base{ID: "role_" + Admin},
		UserID: Admin,
		Role:   entity.RoleAdmin,
	})
	if err != nil {
		panic(err)
	}
}

// InsertUser creates a user together with its profile. Modifiers are applied
// to the profile before it is stored.
func InsertUser(ctx context.Context, id string, modifiers ...func(*entity.UserProfile)) {
	err := repository.NewUserRepository().Create(ctx, &entity.User{
		Base:     entity.Base{ID: id},
		Email:    id + "@kakao.temp",
		KakaoID:  sql.NullString{String: "kakao_" + id, Valid: true},
		Provider: entity.KakaoProvider,
	})
	if err != nil {
		panic(err)
	}

	profile := &entity.UserProfile{
		Base:     entity.Base{ID: "profile_" + id},
		UserID:   id,
		Nickname: id,
	}

	for _, m := range modifiers {
		m(profile)
	}

	if err := repository.NewProfileRepository().Create(ctx, profile); err != nil {
		panic(err)
	}
}

func WithDevice(fingerprint string) func(*entity.UserProfile) {
	return func(p *entity.UserProfile) {
		p.DeviceFingerprint = sql.NullString{String: fingerprint, Valid: true}
	}
}

func WithFCMToken(token string) func(*entity.UserProfile) {
	return func(p *entity.UserProfile) {
		p.FCMToken = sql.NullString{String: token, Valid: true}
	}
}

func Flagged(reason entity.AbuseReason) func(*entity.UserProfile) {
	return func(p *entity.UserProfile) {
		p.AbuseFlag = true
		p.AbuseReason = sql.NullString{String: string(reason), Valid: true}
		p.AbuseScore = 1
	}
}
