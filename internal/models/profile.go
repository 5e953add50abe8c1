package models

import "time"

// ProfileRole is the closed set of roles a profile may hold.
type ProfileRole string

const (
	RoleHead    ProfileRole = "head"
	RoleTeacher ProfileRole = "teacher"
	RoleStudent ProfileRole = "student"
)

// Valid reports whether the role is one of the known values.
func (r ProfileRole) Valid() bool {
	switch r {
	case RoleHead, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Profile is the identity record for every user. school_id scopes which
// classrooms and students the profile can see; it is set when a head
// creates a school or at signup for teachers and students.
type Profile struct {
	ID           string      `db:"id" json:"id"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Name         string      `db:"name" json:"name"`
	Role         ProfileRole `db:"role" json:"role"`
	SchoolID     *string     `db:"school_id" json:"school_id,omitempty"`
	ProfileURL   *string     `db:"profile_url" json:"profileUrl,omitempty"`
	RollNumber   *string     `db:"roll_number" json:"rollnumber,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// ProfileSummary is the roster/picker projection of a profile.
type ProfileSummary struct {
	ID         string      `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	Role       ProfileRole `db:"role" json:"role"`
	ProfileURL *string     `db:"profile_url" json:"profileUrl,omitempty"`
	SchoolID   *string     `db:"school_id" json:"school_id,omitempty"`
}
