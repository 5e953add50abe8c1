package models

import "time"

// Audit actions recorded by the auth flows.
const (
	AuditActionSignUp = "SIGNUP"
	AuditActionSignIn = "SIGNIN"
	AuditActionLogout = "LOGOUT"
)

// AuditLog is one row of the authentication audit trail.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	ProfileID  *string   `db:"profile_id" json:"profile_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
