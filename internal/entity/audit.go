package entity

import "gorm.io/datatypes"

type AdminAction struct {
	Base

	AdminUID   string `gorm:"index"`
	ActionType string
	Payload    datatypes.JSONMap
	IPAddress  string
}

type AnalyticsEvent struct {
	Base

	EventName  string `gorm:"index"`
	Parameters datatypes.JSONMap
}
