package models

import "time"

// Placeholder values written when a student is first added to a
// classroom. The row marks enrollment before any grading happens.
const (
	PlaceholderSubject = "Default Subject"
	PlaceholderRemarks = "Not graded yet"
	PlaceholderScore   = 0
)

// Progress is one subject-grade record in the enrollment/progress
// ledger. Existence of any row for a (student, classroom) pair is what
// makes the student "enrolled" there.
type Progress struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	Subject     string    `db:"subject" json:"subject"`
	Score       int       `db:"score" json:"score"`
	Remarks     string    `db:"remarks" json:"remarks"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ProgressDetail is the repository projection of a progress row joined
// with its student profile.
type ProgressDetail struct {
	Progress
	StudentName       string  `db:"student_name" json:"-"`
	StudentProfileURL *string `db:"student_profile_url" json:"-"`
}

// StudentProgress is the wire shape of a graded row on the student
// detail page, with the joined profile under the nested key clients
// expect.
type StudentProgress struct {
	Progress
	Profiles ProfileSummary `json:"profiles"`
}

// ToStudentProgress lifts the flat join into the nested wire shape.
func (d ProgressDetail) ToStudentProgress() StudentProgress {
	return StudentProgress{
		Progress: d.Progress,
		Profiles: ProfileSummary{
			ID:         d.StudentID,
			Name:       d.StudentName,
			Role:       RoleStudent,
			ProfileURL: d.StudentProfileURL,
		},
	}
}
