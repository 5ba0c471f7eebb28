package endpoints

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curriculab/studio/internal/http/api"
	"github.com/curriculab/studio/internal/model"
)

const testSecret = "test-secret"

// userStore keeps just enough state for the signup/login round trip.
type userStore struct {
	users  map[int]*model.User
	nextID int
}

func newUserStore() *userStore {
	return &userStore{users: make(map[int]*model.User)}
}

func (s *userStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	s.nextID++
	s.users[s.nextID] = &model.User{ID: s.nextID, Email: email, HashedPassword: hashedPassword, Name: name}
	return s.nextID, nil
}

func (s *userStore) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userStore) GetUserByID(id int) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userStore) GetProjectByID(int) (*model.Project, error) { return nil, sql.ErrNoRows }
func (s *userStore) ListProjectsForLti(string, string) ([]model.Project, error) {
	return nil, nil
}
func (s *userStore) GetPlaylistByID(int) (*model.Playlist, error) { return nil, sql.ErrNoRows }
func (s *userStore) ListPlaylists(int) ([]model.Playlist, error) { return nil, nil }
func (s *userStore) ListActivities(int) ([]model.Activity, error) { return nil, nil }
func (s *userStore) GetLmsSetting(int) (*model.LmsSetting, error) { return nil, sql.ErrNoRows }
func (s *userStore) ListLmsSettings(int) ([]model.LmsSetting, error) { return nil, nil }
func (s *userStore) DefaultLmsSetting(int, string) (*model.LmsSetting, error) {
	return nil, sql.ErrNoRows
}
func (s *userStore) GetMapping(string, int, int, int) (*model.PublishMapping, error) {
	return nil, sql.ErrNoRows
}
func (s *userStore) CourseMappingForProject(int, int) (*model.PublishMapping, error) {
	return nil, sql.ErrNoRows
}
func (s *userStore) UpsertMapping(*model.PublishMapping) error { return nil }
func (s *userStore) DeleteMappingsFor(string, int) error { return nil }

func authRouter(store *userStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/v1"},
		AuthPublicModule(testSecret, store))
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/v1", Auth: true, SecretKey: testSecret, Store: store,
	}, AuthSessionModule(testSecret, store))
	return r
}

func post(t *testing.T, r *gin.Engine, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestSignupLoginProfileRoundTrip(t *testing.T) {
	store := newUserStore()
	r := authRouter(store)

	w, body := post(t, r, "/api/v1/auth/signup",
		`{"email": "author@studio.test", "password": "swordfish1", "name": "Ada"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, body["token"])

	w, body = post(t, r, "/api/v1/auth/login",
		`{"email": "author@studio.test", "password": "swordfish1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/current_profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "author@studio.test", profile["email"])
	assert.Equal(t, "Ada", profile["name"])
}

func TestSignup_DuplicateEmail(t *testing.T) {
	store := newUserStore()
	r := authRouter(store)

	w, _ := post(t, r, "/api/v1/auth/signup",
		`{"email": "author@studio.test", "password": "swordfish1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := post(t, r, "/api/v1/auth/signup",
		`{"email": "author@studio.test", "password": "swordfish1"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already registered", body["errors"])
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newUserStore()
	r := authRouter(store)

	post(t, r, "/api/v1/auth/signup",
		`{"email": "author@studio.test", "password": "swordfish1"}`)

	w, body := post(t, r, "/api/v1/auth/login",
		`{"email": "author@studio.test", "password": "wrong-password"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", body["errors"])
}

func TestCurrentProfile_RejectsBadToken(t *testing.T) {
	r := authRouter(newUserStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/current_profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
