package model

import "time"

type StartAdSessionRequest struct {
	AdUnitID string `json:"ad_unit_id"`
	Seq      int    `json:"seq"`
}

type StartAdSessionResponse struct {
	Success   bool      `json:"success"`
	SessionID string    `json:"session_id"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
	Seq       int       `json:"seq"`
}

type CompleteAdSessionRequest struct {
	SessionID string `json:"session_id"`
	Nonce     string `json:"nonce"`
	DeviceID  string `json:"device_id"`
	Signature string `json:"signature"`
}

type CompleteAdSessionResponse struct {
	Success       bool      `json:"success"`
	RewardTickets int       `json:"reward_tickets"`
	Seq           int       `json:"seq"`
	CompletedAt   time.Time `json:"completed_at"`
}
