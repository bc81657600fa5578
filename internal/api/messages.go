package api

import (
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/timex"
)

// A UserID of 0 in any request means "the caller".

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	UserID int64  `json:"user_id"`
	PIN    string `json:"pin"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role"`
}

type DayRequest struct {
	UserID int64      `json:"user_id,omitempty"`
	Date   timex.Date `json:"date"`
}

type DayResponse struct {
	UserID int64              `json:"user_id"`
	Date   timex.Date         `json:"date"`
	Events []attendance.Event `json:"events"`
}

type RangeRequest struct {
	UserID int64      `json:"user_id,omitempty"`
	From   timex.Date `json:"from"`
	To     timex.Date `json:"to"`
}

type ComplianceResponse struct {
	UserID   int64                     `json:"user_id"`
	Verdicts []attendance.DailyVerdict `json:"verdicts"`
}

type ValidateRequest struct {
	Events []attendance.Event `json:"events"`
}

type ValidateResponse struct {
	Valid     bool                  `json:"valid"`
	Violation *attendance.Violation `json:"violation,omitempty"`
	Reason    string                `json:"reason,omitempty"`
}

type ProposeRequest struct {
	Date   timex.Date         `json:"date"`
	Events []attendance.Event `json:"events"`
}

type ProposeResponse struct {
	Proposals []attendance.Event `json:"proposals"`
}

type CommitRequest struct {
	UserID int64              `json:"user_id,omitempty"`
	Date   timex.Date         `json:"date"`
	Events []attendance.Event `json:"events"`
}

type CommitResponse struct {
	Deleted int                `json:"deleted"`
	Created int                `json:"created"`
	Updated int                `json:"updated"`
	Events  []attendance.Event `json:"events"`
}

type ClockRequest struct {
	Type attendance.EventType `json:"type"`
}

type ClockResponse struct {
	Event  attendance.Event     `json:"event"`
	Status attendance.DayStatus `json:"status"`
}

type StatusRequest struct {
	UserID int64 `json:"user_id,omitempty"`
}

type StatusResponse struct {
	Date        timex.Date             `json:"date"`
	Status      attendance.DayStatus   `json:"status"`
	Actions     []attendance.EventType `json:"actions"`
	Events      []attendance.Event     `json:"events"`
	WorkedHours float64                `json:"worked_hours"`
}

type HistoryRequest struct {
	UserID int64 `json:"user_id,omitempty"`
	Limit  int   `json:"limit,omitempty"`
}

type HistoryResponse struct {
	Events []attendance.Event `json:"events"`
}

type OpenDaysResponse struct {
	UserID int64        `json:"user_id"`
	Days   []timex.Date `json:"days"`
}

type ExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
