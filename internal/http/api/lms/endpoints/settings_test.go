package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curriculab/studio/internal/model"
)

type settingsStore struct {
	stubStore
	settings []model.LmsSetting
	projects []model.Project
	lastURL  string
	lastLti  string
}

func (s *settingsStore) ListLmsSettings(userID int) ([]model.LmsSetting, error) {
	return s.settings, nil
}

func (s *settingsStore) ListProjectsForLti(lmsURL, ltiClientID string) ([]model.Project, error) {
	s.lastURL, s.lastLti = lmsURL, ltiClientID
	return s.projects, nil
}

func TestMySettings(t *testing.T) {
	store := &settingsStore{settings: []model.LmsSetting{
		{ID: 11, UserID: 1, LmsName: model.LmsCanvas, LmsURL: "https://canvas.example"},
	}}
	r := testRouter(&model.User{ID: 1}, SettingsModule(store))

	w, body := doJSON(t, r, http.MethodGet, "/api/v1/go/lms-settings/user/me", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]any)
	settings := data["settings"].([]any)
	require.Len(t, settings, 1)
	assert.Equal(t, "canvas", settings[0].(map[string]any)["lms_name"])
}

func TestLtiProjects(t *testing.T) {
	desc := "Intro course"
	store := &settingsStore{projects: []model.Project{
		{ID: 1, Name: "Biology 101", Description: &desc},
	}}
	r := testRouter(&model.User{ID: 1}, SettingsModule(store))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/go/lms/projects",
		`{"lms_url": "https://canvas.example", "lti_client_id": "client-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://canvas.example", store.lastURL)
	assert.Equal(t, "client-1", store.lastLti)

	projects := body["projects"].([]any)
	require.Len(t, projects, 1)
	assert.Equal(t, "Biology 101", projects[0].(map[string]any)["name"])
}

func TestLtiProjects_RequiresBothFields(t *testing.T) {
	r := testRouter(&model.User{ID: 1}, SettingsModule(&settingsStore{}))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/go/lms/projects",
		`{"lms_url": "https://canvas.example"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "lms_url and lti_client_id are required.", body["errors"])
}
