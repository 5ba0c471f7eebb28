package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/curriculab/studio/internal/model"
)

// @ PUBLISH MAPPINGS
// The unique index on (internal_kind, internal_id, lms_setting_id, counter)
// is what makes republish idempotent: a second writer lands on the same
// row via ON CONFLICT instead of creating a duplicate external object
// reference.

func (s *pgStore) GetMapping(kind string, internalID, settingID, counter int) (*model.PublishMapping, error) {
	var m model.PublishMapping
	const q = `
	SELECT id, internal_kind, internal_id, lms_setting_id, lms_name, counter,
	       external_id, external_parent_id, external_url, updated_at
	FROM publish_mappings
	WHERE internal_kind = $1 AND internal_id = $2 AND lms_setting_id = $3 AND counter = $4;`
	if err := s.db.Get(&m, q, kind, internalID, settingID, counter); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("[db] GetMapping: failed to get mapping")
		return nil, err
	}
	return &m, nil
}

func (s *pgStore) UpsertMapping(m *model.PublishMapping) error {
	const q = `
	INSERT INTO publish_mappings
	(internal_kind, internal_id, lms_setting_id, lms_name, counter,
	 external_id, external_parent_id, external_url, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	ON CONFLICT (internal_kind, internal_id, lms_setting_id, counter)
	DO UPDATE SET
		external_id        = EXCLUDED.external_id,
		external_parent_id = EXCLUDED.external_parent_id,
		external_url       = EXCLUDED.external_url,
		updated_at         = now()
	RETURNING id, updated_at;`
	err := s.db.QueryRowx(q,
		m.InternalKind, m.InternalID, m.LmsSettingID, m.LmsName, m.Counter,
		m.ExternalID, m.ExternalParentID, m.ExternalURL,
	).Scan(&m.ID, &m.UpdatedAt)
	if err != nil {
		log.Error().Err(err).
			Str("kind", m.InternalKind).
			Int("internal_id", m.InternalID).
			Msg("[db] UpsertMapping: failed to upsert mapping")
	}
	return err
}

// CourseMappingForProject returns the most recently refreshed playlist
// mapping under a project, which carries the external course id in
// external_parent_id. Used by fetch, which must not create anything.
func (s *pgStore) CourseMappingForProject(projectID, settingID int) (*model.PublishMapping, error) {
	var m model.PublishMapping
	const q = `
	SELECT pm.id, pm.internal_kind, pm.internal_id, pm.lms_setting_id, pm.lms_name,
	       pm.counter, pm.external_id, pm.external_parent_id, pm.external_url, pm.updated_at
	FROM publish_mappings pm
	JOIN playlists pl ON pl.id = pm.internal_id
	WHERE pm.internal_kind = 'playlist' AND pl.project_id = $1 AND pm.lms_setting_id = $2
	ORDER BY pm.updated_at DESC
	LIMIT 1;`
	if err := s.db.Get(&m, q, projectID, settingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("[db] CourseMappingForProject: failed to get mapping")
		return nil, err
	}
	return &m, nil
}

// DeleteMappingsFor removes all mappings for one internal entity. Only
// called when the source entity itself is deleted.
func (s *pgStore) DeleteMappingsFor(kind string, internalID int) error {
	_, err := s.db.Exec(
		`DELETE FROM publish_mappings WHERE internal_kind = $1 AND internal_id = $2;`,
		kind, internalID,
	)
	if err != nil {
		log.Error().Err(err).Msg("[db] DeleteMappingsFor: failed to delete mappings")
	}
	return err
}
