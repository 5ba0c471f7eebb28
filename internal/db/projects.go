package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/curriculab/studio/internal/model"
)

// @ PROJECT
func (s *pgStore) GetProjectByID(id int) (*model.Project, error) {
	var p model.Project
	const q = `
	SELECT id, name, description, is_public, shared, created_by, created_at, updated_at
	FROM projects
	WHERE id = $1;`
	if err := s.db.Get(&p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("[db] GetProjectByID: failed to get project")
		return nil, err
	}
	return &p, nil
}

// ListProjectsForLti returns projects owned by users whose LMS settings
// match the given LTI configuration. Used when an LMS launches Studio
// and asks which projects it may import from.
func (s *pgStore) ListProjectsForLti(lmsURL, ltiClientID string) ([]model.Project, error) {
	var out []model.Project
	const q = `
	SELECT DISTINCT p.id, p.name, p.description, p.is_public, p.shared,
	       p.created_by, p.created_at, p.updated_at
	FROM projects p
	JOIN lms_settings ls ON ls.user_id = p.created_by
	WHERE ls.lms_url = $1 AND ls.lti_client_id = $2
	ORDER BY p.id;`
	if err := s.db.Select(&out, q, lmsURL, ltiClientID); err != nil {
		log.Error().Err(err).Msg("[db] ListProjectsForLti: failed to select projects")
		return nil, err
	}
	return out, nil
}

// @ PLAYLIST
func (s *pgStore) GetPlaylistByID(id int) (*model.Playlist, error) {
	var p model.Playlist
	const q = `
	SELECT id, project_id, title, position, created_at, updated_at
	FROM playlists
	WHERE id = $1;`
	if err := s.db.Get(&p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("[db] GetPlaylistByID: failed to get playlist")
		return nil, err
	}
	return &p, nil
}

func (s *pgStore) ListPlaylists(projectID int) ([]model.Playlist, error) {
	var out []model.Playlist
	const q = `
	SELECT id, project_id, title, position, created_at, updated_at
	FROM playlists
	WHERE project_id = $1
	ORDER BY position, id;`
	if err := s.db.Select(&out, q, projectID); err != nil {
		log.Error().Err(err).Msg("[db] ListPlaylists: failed to select playlists")
		return nil, err
	}
	return out, nil
}

// @ ACTIVITY
// Ordering is the publish order contract: position ascending, id breaks ties.
func (s *pgStore) ListActivities(playlistID int) ([]model.Activity, error) {
	var out []model.Activity
	const q = `
	SELECT id, playlist_id, title, type, content_ref, position, created_at, updated_at
	FROM activities
	WHERE playlist_id = $1
	ORDER BY position, id;`
	if err := s.db.Select(&out, q, playlistID); err != nil {
		log.Error().Err(err).Msg("[db] ListActivities: failed to select activities")
		return nil, err
	}
	return out, nil
}
