package engine

import (
	"context"

	"github.com/curriculab/studio/internal/db"
	"github.com/curriculab/studio/internal/lms"
)

// Fetcher reads an external course's structure for import preview.
// Strictly read-only: no external writes, no mapping side effects.
type Fetcher struct {
	store    db.Store
	adapters AdapterFactory
}

func NewFetcher(store db.Store, adapters AdapterFactory) *Fetcher {
	return &Fetcher{store: store, adapters: adapters}
}

func (f *Fetcher) Fetch(ctx context.Context, userID int, req FetchRequest) (*FetchResult, error) {
	setting, err := resolveSetting(f.store, userID, req.LmsName, req.SettingID)
	if err != nil {
		return nil, err
	}

	project, err := f.store.GetProjectByID(req.ProjectID)
	if err != nil {
		return nil, lms.Validation(MsgInvalidIDs)
	}
	if project.CreatedBy != userID {
		return nil, lms.Forbidden(MsgNotAuthorized)
	}

	// the external course id comes from a prior publish; fetching a
	// never-published project has nothing to preview
	mapping, err := f.store.CourseMappingForProject(project.ID, setting.ID)
	if err != nil || mapping.ExternalParentID == nil {
		return nil, lms.NotFound("This project has not been published to this LMS.")
	}

	adapter, err := f.adapters(ctx, setting)
	if err != nil {
		return nil, err
	}

	structure, err := adapter.FetchCourseStructure(ctx, *mapping.ExternalParentID)
	if err != nil {
		return nil, err
	}

	out := &FetchResult{Course: structure.CourseName}
	for _, t := range structure.Topics {
		out.Playlists = append(out.Playlists, t.Name)
	}
	return out, nil
}
