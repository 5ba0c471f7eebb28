package model

import "time"

// lms_name values accepted in lms_settings rows.
const (
	LmsCanvas = "canvas"
	LmsMoodle = "moodle"
	LmsGoogle = "google"
)

// LmsSetting is a per-user connection profile for one external LMS.
// Rows are created by the account owner through the settings UI and
// are read-only to the publish engine.
type LmsSetting struct {
	ID              int       `db:"id"                json:"id"`
	UserID          int       `db:"user_id"           json:"user_id"`
	LmsName         string    `db:"lms_name"          json:"lms_name"`
	LmsURL          string    `db:"lms_url"           json:"lms_url"`
	LmsAccessToken  string    `db:"lms_access_token"  json:"-"`
	LmsAccessKey    *string   `db:"lms_access_key"    json:"-"`
	LmsAccessSecret *string   `db:"lms_access_secret" json:"-"`
	LtiClientID     *string   `db:"lti_client_id"     json:"lti_client_id,omitempty"`
	SiteName        *string   `db:"site_name"         json:"site_name,omitempty"`
	CreatedAt       time.Time `db:"created_at"        json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"        json:"updated_at"`
}
