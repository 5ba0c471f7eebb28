// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/curriculab/studio/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)

	// project tree (read-only to the publish engine)
	GetProjectByID(id int) (*model.Project, error)
	ListProjectsForLti(lmsURL, ltiClientID string) ([]model.Project, error)
	GetPlaylistByID(id int) (*model.Playlist, error)
	ListPlaylists(projectID int) ([]model.Playlist, error)
	ListActivities(playlistID int) ([]model.Activity, error)

	// lms settings (read-only to the publish engine)
	GetLmsSetting(id int) (*model.LmsSetting, error)
	ListLmsSettings(userID int) ([]model.LmsSetting, error)
	DefaultLmsSetting(userID int, lmsName string) (*model.LmsSetting, error)

	// publish mappings
	GetMapping(kind string, internalID, settingID, counter int) (*model.PublishMapping, error)
	CourseMappingForProject(projectID, settingID int) (*model.PublishMapping, error)
	UpsertMapping(m *model.PublishMapping) error
	DeleteMappingsFor(kind string, internalID int) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}
