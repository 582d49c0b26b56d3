package model

import "time"

type AbuseSweepRequest struct{}

type AbuseSweepResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Results   AbuseSweepResult `json:"results"`
	Timestamp time.Time        `json:"timestamp"`
}

type AbuseSweepResult struct {
	SuspiciousDevices int `json:"suspiciousDevices" structs:"suspicious_devices"`
	FlaggedUsers      int `json:"flaggedUsers" structs:"flagged_users"`
	FakeStepsDetected int `json:"fakeStepsDetected" structs:"fake_steps_detected"`
	AdFraudDetected   int `json:"adFraudDetected" structs:"ad_fraud_detected"`
	TotalFlagged      int `json:"totalFlagged" structs:"total_flagged"`
}

type DailyResetRequest struct{}

type DailyResetResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Date       string    `json:"date"`
	UsersCount int       `json:"users_count"`
	Timestamp  time.Time `json:"timestamp"`
}
