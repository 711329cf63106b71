package domain

import "time"

// Audit actions recorded by the gateway.
const (
	AuditLogin         = "login"
	AuditLogout        = "logout"
	AuditRegister      = "register"
	AuditUpload        = "document.upload"
	AuditUpdate        = "document.update"
	AuditDelete        = "document.delete"
	AuditDownload      = "document.download"
	AuditStatusChange  = "patient.status"
	AuditBanChange     = "patient.ban"
	AuditResolution    = "patient.view"
)

// AuditEvent is one entry in the recent-activity feed.
type AuditEvent struct {
	Time     time.Time `json:"time"`
	UserID   int64     `json:"userId"`
	Username string    `json:"username"`
	Action   string    `json:"action"`
	Detail   string    `json:"detail,omitempty"`
}
