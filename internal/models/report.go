package models

import "time"

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// Valid reports whether the format is supported.
func (f ReportFormat) Valid() bool {
	return f == ReportFormatCSV || f == ReportFormatPDF
}

// ReportStatus tracks the lifecycle of an export job.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "PENDING"
	ReportStatusRunning   ReportStatus = "RUNNING"
	ReportStatusCompleted ReportStatus = "COMPLETED"
	ReportStatusFailed    ReportStatus = "FAILED"
)

// ReportJob is a queued classroom grade-sheet export.
type ReportJob struct {
	ID          string       `db:"id" json:"id"`
	ClassroomID string       `db:"classroom_id" json:"classroom_id"`
	Format      ReportFormat `db:"format" json:"format"`
	Status      ReportStatus `db:"status" json:"status"`
	FilePath    *string      `db:"file_path" json:"-"`
	Error       *string      `db:"error" json:"error,omitempty"`
	RequestedBy string       `db:"requested_by" json:"requested_by"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	CompletedAt *time.Time   `db:"completed_at" json:"completed_at,omitempty"`
}

// ReportJobStatus is the wire view of a job, carrying a signed download
// URL once the export completed.
type ReportJobStatus struct {
	ReportJob
	DownloadURL *string    `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// GradeSheetRow is one exported line of a classroom grade sheet.
type GradeSheetRow struct {
	StudentName string `db:"student_name" json:"student_name"`
	Subject     string `db:"subject" json:"subject"`
	Score       int    `db:"score" json:"score"`
	Remarks     string `db:"remarks" json:"remarks"`
}
