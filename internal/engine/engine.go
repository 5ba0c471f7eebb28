// Package engine hosts the publish, fetch, and classroom-copy
// orchestrators. Orchestrators are written once against the normalized
// lms.Adapter contract and stay unaware of backend quirks; all external
// state they track lives in publish_mappings via the db.Store.
package engine

import (
	"context"

	"github.com/curriculab/studio/internal/lms"
	"github.com/curriculab/studio/internal/model"
)

// AdapterFactory builds the adapter matching a setting's lms_name.
// Injected so tests can substitute fakes.
type AdapterFactory func(ctx context.Context, setting *model.LmsSetting) (lms.Adapter, error)

// ClassroomAdapter extends the normalized contract with the
// course-listing call only Google Classroom offers.
type ClassroomAdapter interface {
	lms.Adapter
	ListCourses(ctx context.Context) ([]lms.Course, error)
}

// ClassroomFactory builds a classroom adapter authenticated as a user.
type ClassroomFactory func(ctx context.Context, userID int) (ClassroomAdapter, error)

// PublishRequest selects one playlist and one LMS connection. Counter
// is a caller-supplied disambiguator: supplying a new value forces a
// fresh, uniquely named external topic; each counter value is
// independently idempotent.
type PublishRequest struct {
	LmsName    string
	ProjectID  int
	PlaylistID int
	SettingID  *int
	Counter    *int
}

type PublishResult struct {
	Course   lms.Course        `json:"course"`
	Playlist PublishedPlaylist `json:"playlist"`
	Errors   []string          `json:"errors,omitempty"`
}

type PublishedPlaylist struct {
	ID      int             `json:"id"`
	Title   string          `json:"title"`
	TopicID string          `json:"topic_id"`
	Items   []PublishedItem `json:"items"`
}

type PublishedItem struct {
	ActivityID int    `json:"activity_id"`
	Title      string `json:"title"`
	ExternalID string `json:"external_id"`
	URL        string `json:"url"`
	State      string `json:"state"`
}

type FetchRequest struct {
	LmsName   string
	ProjectID int
	SettingID *int
}

type FetchResult struct {
	Course    string   `json:"course"`
	Playlists []string `json:"playlists"`
}

type CopyResult struct {
	Course lms.Course    `json:"course"`
	Topics []CopiedTopic `json:"topics"`
}

type CopiedTopic struct {
	Name       string       `json:"name"`
	CourseWork []CopiedWork `json:"courseWork"`
}

type CopiedWork struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
	State string `json:"state"`
}

// Error messages surfaced through the HTTP layer. Kept identical to
// the documented API contract.
const (
	MsgInvalidIDs    = "Invalid project or playlist Id."
	MsgNotAuthorized = "You are not authorized to perform this action."
	MsgForeignShare  = "Forbidden. You are trying to share other user's project."
)
