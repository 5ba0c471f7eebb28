package endpoints

import (
	"database/sql"

	"github.com/curriculab/studio/internal/model"
)

// stubStore satisfies db.Store with empty answers; tests embed it and
// override the methods they care about.
type stubStore struct{}

func (stubStore) CreateUser(string, string, *string) (int, error) { return 0, sql.ErrNoRows }
func (stubStore) GetUserByEmail(string) (*model.User, error) { return nil, sql.ErrNoRows }
func (stubStore) GetUserByID(int) (*model.User, error) { return nil, sql.ErrNoRows }

func (stubStore) GetProjectByID(int) (*model.Project, error) { return nil, sql.ErrNoRows }
func (stubStore) ListProjectsForLti(string, string) ([]model.Project, error) {
	return nil, nil
}
func (stubStore) GetPlaylistByID(int) (*model.Playlist, error) { return nil, sql.ErrNoRows }
func (stubStore) ListPlaylists(int) ([]model.Playlist, error) { return nil, nil }
func (stubStore) ListActivities(int) ([]model.Activity, error) { return nil, nil }
func (stubStore) GetLmsSetting(int) (*model.LmsSetting, error) { return nil, sql.ErrNoRows }
func (stubStore) ListLmsSettings(int) ([]model.LmsSetting, error) { return nil, nil }
func (stubStore) DefaultLmsSetting(int, string) (*model.LmsSetting, error) {
	return nil, sql.ErrNoRows
}

func (stubStore) GetMapping(string, int, int, int) (*model.PublishMapping, error) {
	return nil, sql.ErrNoRows
}
func (stubStore) CourseMappingForProject(int, int) (*model.PublishMapping, error) {
	return nil, sql.ErrNoRows
}
func (stubStore) UpsertMapping(*model.PublishMapping) error { return nil }
func (stubStore) DeleteMappingsFor(string, int) error { return nil }
