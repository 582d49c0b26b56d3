package entity

import (
	"context"

	"github.com/luckywalk/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&UserRole{},
		&UserProfile{},
		&UserActivity{},
		&Round{},
		&Ticket{},
		&ResultUser{},
		&LotteryRound{},
		&UserTicket{},
		&LotteryResult{},
		&AdSession{},
		&DailyProgress{},
		&AdminAction{},
		&AnalyticsEvent{},
	)
}
