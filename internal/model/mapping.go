package model

import "time"

// internal_kind values for publish_mappings rows.
const (
	KindPlaylist = "playlist"
	KindActivity = "activity"
)

// PublishMapping records the external counterpart of an internal entity
// under one LMS setting. At most one row exists per
// (internal_kind, internal_id, lms_setting_id, counter); republishing
// updates the row in place instead of inserting a duplicate.
type PublishMapping struct {
	ID               int       `db:"id"                 json:"id"`
	InternalKind     string    `db:"internal_kind"      json:"internal_kind"`
	InternalID       int       `db:"internal_id"        json:"internal_id"`
	LmsSettingID     int       `db:"lms_setting_id"     json:"lms_setting_id"`
	LmsName          string    `db:"lms_name"           json:"lms_name"`
	Counter          int       `db:"counter"            json:"counter"`
	ExternalID       string    `db:"external_id"        json:"external_id"`
	ExternalParentID *string   `db:"external_parent_id" json:"external_parent_id,omitempty"`
	ExternalURL      *string   `db:"external_url"       json:"external_url,omitempty"`
	UpdatedAt        time.Time `db:"updated_at"         json:"updated_at"`
}
