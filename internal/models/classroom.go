package models

import "time"

// Classroom belongs to exactly one school and carries at most one
// assigned teacher.
type Classroom struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	TeacherID *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassroomDetail is the classroom page view: the assigned teacher and
// the de-duplicated student roster derived from the progress ledger.
// Roster entries keep the nested "profiles" key the clients expect.
type ClassroomDetail struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Teacher *ProfileSummary `json:"teacher,omitempty"`
	Roster  []RosterEntry   `json:"progress"`
}

// RosterEntry wraps one enrolled student in the classroom view.
type RosterEntry struct {
	Profile ProfileSummary `json:"profiles"`
}
