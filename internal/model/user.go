package model

import "time"

// User is the persisted account record. Optional display fields stay nil
// until the student fills in their profile.
type User struct {
	ID            string    `json:"id"`
	FirstName     *string   `json:"first_name,omitempty"`
	LastName      *string   `json:"last_name,omitempty"`
	PersonalEmail *string   `json:"personal_email,omitempty"`
	Description   *string   `json:"description,omitempty"`
	CourseID      *int64    `json:"course_id,omitempty"`
	ImageID       *string   `json:"image_id,omitempty"`
	Verified      bool      `json:"verified"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProfileUpdate carries the full replacement state for the editable profile
// fields. Nil values clear the column.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	PersonalEmail *string
	Description   *string
	CourseID      *int64
}

// UserProfile is the public shape of a verified account, with the course and
// profile image resolved to display values.
type UserProfile struct {
	ID            string  `json:"id"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	PersonalEmail *string `json:"personal_email,omitempty"`
	Description   *string `json:"description,omitempty"`
	CourseName    *string `json:"course_name,omitempty"`
	ImageName     *string `json:"image_name,omitempty"`
}
