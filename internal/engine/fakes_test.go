package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/curriculab/studio/internal/lms"
	"github.com/curriculab/studio/internal/model"
)

// fakeStore is an in-memory db.Store used by the orchestrator tests.
type fakeStore struct {
	mu         sync.Mutex
	users      map[int]*model.User
	projects   map[int]*model.Project
	playlists  map[int]*model.Playlist
	activities map[int][]model.Activity
	settings   map[int]*model.LmsSetting
	mappings   map[string]*model.PublishMapping
	nextMapID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[int]*model.User),
		projects:   make(map[int]*model.Project),
		playlists:  make(map[int]*model.Playlist),
		activities: make(map[int][]model.Activity),
		settings:   make(map[int]*model.LmsSetting),
		mappings:   make(map[string]*model.PublishMapping),
	}
}

func mappingKey(kind string, internalID, settingID, counter int) string {
	return fmt.Sprintf("%s:%d:%d:%d", kind, internalID, settingID, counter)
}

func (s *fakeStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	id := len(s.users) + 1
	s.users[id] = &model.User{ID: id, Email: email, HashedPassword: hashedPassword, Name: name}
	return id, nil
}

func (s *fakeStore) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) GetUserByID(id int) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) GetProjectByID(id int) (*model.Project, error) {
	if p, ok := s.projects[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) ListProjectsForLti(lmsURL, ltiClientID string) ([]model.Project, error) {
	var out []model.Project
	for _, p := range s.projects {
		for _, st := range s.settings {
			if st.UserID == p.CreatedBy && st.LmsURL == lmsURL &&
				st.LtiClientID != nil && *st.LtiClientID == ltiClientID {
				out = append(out, *p)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetPlaylistByID(id int) (*model.Playlist, error) {
	if p, ok := s.playlists[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) ListPlaylists(projectID int) ([]model.Playlist, error) {
	var out []model.Playlist
	for _, p := range s.playlists {
		if p.ProjectID == projectID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListActivities honors the publish-order contract: position ascending,
// id breaks ties, regardless of insertion order.
func (s *fakeStore) ListActivities(playlistID int) ([]model.Activity, error) {
	out := append([]model.Activity(nil), s.activities[playlistID]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *fakeStore) GetLmsSetting(id int) (*model.LmsSetting, error) {
	if st, ok := s.settings[id]; ok {
		return st, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) ListLmsSettings(userID int) ([]model.LmsSetting, error) {
	var out []model.LmsSetting
	for _, st := range s.settings {
		if st.UserID == userID {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) DefaultLmsSetting(userID int, lmsName string) (*model.LmsSetting, error) {
	settings, _ := s.ListLmsSettings(userID)
	for i := range settings {
		if settings[i].LmsName == lmsName {
			return &settings[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) GetMapping(kind string, internalID, settingID, counter int) (*model.PublishMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.mappings[mappingKey(kind, internalID, settingID, counter)]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) CourseMappingForProject(projectID, settingID int) (*model.PublishMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *model.PublishMapping
	for _, m := range s.mappings {
		if m.InternalKind != model.KindPlaylist || m.LmsSettingID != settingID {
			continue
		}
		pl, ok := s.playlists[m.InternalID]
		if !ok || pl.ProjectID != projectID {
			continue
		}
		if latest == nil || m.UpdatedAt.After(latest.UpdatedAt) {
			latest = m
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	cp := *latest
	return &cp, nil
}

func (s *fakeStore) UpsertMapping(m *model.PublishMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := mappingKey(m.InternalKind, m.InternalID, m.LmsSettingID, m.Counter)
	if existing, ok := s.mappings[key]; ok {
		m.ID = existing.ID
	} else {
		s.nextMapID++
		m.ID = s.nextMapID
	}
	m.UpdatedAt = time.Now()
	cp := *m
	s.mappings[key] = &cp
	return nil
}

func (s *fakeStore) DeleteMappingsFor(kind string, internalID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, m := range s.mappings {
		if m.InternalKind == kind && m.InternalID == internalID {
			delete(s.mappings, key)
		}
	}
	return nil
}

func (s *fakeStore) mappingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mappings)
}

// fakeAdapter records every external call so tests can assert on call
// order and write counts.
type fakeAdapter struct {
	mu      sync.Mutex
	name    string
	nextID  int
	courses map[string]string // name -> id
	topics  map[string]string // courseID+title -> id
	items   map[string]lms.ExternalItem

	calls          []string
	publishedOrder []string

	failTitle string // PublishItem fails when req.Title matches
	failErr   error
	courseErr error
}

func newFakeAdapter(name string) *fakeAdapter {
	return &fakeAdapter{
		name:    name,
		courses: make(map[string]string),
		topics:  make(map[string]string),
		items:   make(map[string]lms.ExternalItem),
	}
}

func (f *fakeAdapter) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeAdapter) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeAdapter) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) FindOrCreateCourse(_ context.Context, externalCourseID, defaultName string) (lms.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.courseErr != nil {
		return lms.Course{}, f.courseErr
	}
	if externalCourseID != "" {
		f.record("course.verify")
		return lms.Course{ID: externalCourseID, Name: defaultName}, nil
	}
	if id, ok := f.courses[defaultName]; ok {
		f.record("course.find")
		return lms.Course{ID: id, Name: defaultName}, nil
	}
	id := f.id("course")
	f.courses[defaultName] = id
	f.record("course.create")
	return lms.Course{ID: id, Name: defaultName}, nil
}

func (f *fakeAdapter) FindOrCreateTopic(_ context.Context, courseID, title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := courseID + "/" + title
	if id, ok := f.topics[key]; ok {
		f.record("topic.find")
		return id, nil
	}
	id := f.id("topic")
	f.topics[key] = id
	f.record("topic.create:" + title)
	return id, nil
}

func (f *fakeAdapter) PublishItem(_ context.Context, req lms.ItemRequest) (lms.ExternalItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTitle != "" && req.Title == f.failTitle {
		return lms.ExternalItem{}, f.failErr
	}
	f.publishedOrder = append(f.publishedOrder, req.Title)

	if req.ExternalID != "" {
		item, ok := f.items[req.ExternalID]
		if !ok {
			return lms.ExternalItem{}, lms.NotFound("item not found")
		}
		f.record("item.update:" + req.Title)
		return item, nil
	}

	item := lms.ExternalItem{
		ID:    f.id("item"),
		URL:   "https://lms.example/items/" + req.Title,
		State: lms.StatePublished,
	}
	f.items[item.ID] = item
	f.record("item.create:" + req.Title)
	return item, nil
}

func (f *fakeAdapter) FetchCourseStructure(_ context.Context, courseID string) (lms.CourseStructure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("fetch")
	structure := lms.CourseStructure{CourseName: "Fetched Course"}
	for key, id := range f.topics {
		structure.Topics = append(structure.Topics, lms.TopicStructure{ID: id, Name: key})
	}
	return structure, nil
}

func (f *fakeAdapter) ListCourses(_ context.Context) ([]lms.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("courses.list")
	var out []lms.Course
	for name, id := range f.courses {
		out = append(out, lms.Course{ID: id, Name: name})
	}
	return out, nil
}

/* -------- shared fixture -------- */

// seedWorld builds one user with a project, a playlist of three
// activities, and a canvas setting.
func seedWorld(store *fakeStore) {
	store.users[1] = &model.User{ID: 1, Email: "author@studio.test"}
	store.users[2] = &model.User{ID: 2, Email: "other@studio.test"}

	store.projects[1] = &model.Project{ID: 1, Name: "Biology 101", CreatedBy: 1}
	store.playlists[1] = &model.Playlist{ID: 1, ProjectID: 1, Title: "Cells", Order: 0}

	// deliberately inserted out of order; the store contract sorts
	store.activities[1] = []model.Activity{
		{ID: 12, PlaylistID: 1, Title: "Mitosis Quiz", Type: "h5p", ContentRef: "c-12", Order: 2},
		{ID: 10, PlaylistID: 1, Title: "Cell Intro", Type: "h5p", ContentRef: "c-10", Order: 0},
		{ID: 11, PlaylistID: 1, Title: "Organelles", Type: "h5p", ContentRef: "c-11", Order: 1},
	}

	store.settings[11] = &model.LmsSetting{
		ID: 11, UserID: 1, LmsName: model.LmsCanvas, LmsURL: "https://canvas.example",
	}
}

func staticFactory(a lms.Adapter) AdapterFactory {
	return func(context.Context, *model.LmsSetting) (lms.Adapter, error) {
		return a, nil
	}
}
