package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/curriculab/studio/internal/model"
)

// @ LMS SETTINGS

const settingColumns = `
	id, user_id, lms_name, lms_url, lms_access_token,
	lms_access_key, lms_access_secret, lti_client_id, site_name,
	created_at, updated_at`

func (s *pgStore) GetLmsSetting(id int) (*model.LmsSetting, error) {
	var out model.LmsSetting
	q := `SELECT ` + settingColumns + ` FROM lms_settings WHERE id = $1;`
	if err := s.db.Get(&out, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("[db] GetLmsSetting: failed to get setting")
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) ListLmsSettings(userID int) ([]model.LmsSetting, error) {
	var out []model.LmsSetting
	q := `SELECT ` + settingColumns + ` FROM lms_settings WHERE user_id = $1 ORDER BY id;`
	if err := s.db.Select(&out, q, userID); err != nil {
		log.Error().Err(err).Msg("[db] ListLmsSettings: failed to select settings")
		return nil, err
	}
	return out, nil
}

// DefaultLmsSetting returns the user's oldest setting for an LMS, used
// when a publish request does not name one explicitly.
func (s *pgStore) DefaultLmsSetting(userID int, lmsName string) (*model.LmsSetting, error) {
	var out model.LmsSetting
	q := `SELECT ` + settingColumns + `
	FROM lms_settings
	WHERE user_id = $1 AND lms_name = $2
	ORDER BY id
	LIMIT 1;`
	if err := s.db.Get(&out, q, userID, lmsName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("[db] DefaultLmsSetting: failed to get setting")
		return nil, err
	}
	return &out, nil
}
