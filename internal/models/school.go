package models

import "time"

// School is the tenant boundary. Profiles reference it through
// school_id and only see classrooms and students sharing it.
type School struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Location  *string   `db:"location" json:"location,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	LogoURL   *string   `db:"logo_url" json:"logoUrl,omitempty"`
	BannerURL *string   `db:"banner_url" json:"bannerUrl,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SchoolDetail bundles a school with its classrooms and member profiles.
type SchoolDetail struct {
	School
	Classrooms []Classroom      `json:"classrooms"`
	Profiles   []ProfileSummary `json:"profiles"`
}
