package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/curriculab/studio/internal/content"
	"github.com/curriculab/studio/internal/db"
	"github.com/curriculab/studio/internal/lms"
	"github.com/curriculab/studio/internal/model"
)

// Publisher pushes one playlist into an external course as a topic
// plus one item per activity, reusing stored mappings so repeated
// publishes update in place instead of duplicating external objects.
type Publisher struct {
	store    db.Store
	resolver content.Resolver
	adapters AdapterFactory

	// topics collapses concurrent topic creation for the same
	// (playlist, setting, counter) key into a single external call;
	// the loser observes the winner's mapping.
	topics singleflight.Group
}

func NewPublisher(store db.Store, resolver content.Resolver, adapters AdapterFactory) *Publisher {
	return &Publisher{store: store, resolver: resolver, adapters: adapters}
}

type topicHandle struct {
	course  lms.Course
	topicID string
}

// Publish implements the full push pipeline: resolve setting,
// authorize, resolve course and topic, then publish activities in
// order. Item-level failures stop the batch but keep everything
// already written; earlier mappings are never rolled back because the
// external objects they reference are real.
func (p *Publisher) Publish(ctx context.Context, userID int, req PublishRequest) (*PublishResult, error) {
	setting, err := resolveSetting(p.store, userID, req.LmsName, req.SettingID)
	if err != nil {
		return nil, err
	}

	project, playlist, err := p.authorizeProject(userID, req.ProjectID, req.PlaylistID)
	if err != nil {
		return nil, err
	}

	adapter, err := p.adapters(ctx, setting)
	if err != nil {
		return nil, err
	}

	counter := 0
	if req.Counter != nil {
		counter = *req.Counter
	}

	handle, err := p.resolveTopic(ctx, adapter, setting, project, playlist, req.Counter, counter)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{
		Course: handle.course,
		Playlist: PublishedPlaylist{
			ID:      playlist.ID,
			Title:   topicTitle(playlist.Title, req.Counter),
			TopicID: handle.topicID,
		},
	}

	activities, err := p.store.ListActivities(playlist.ID)
	if err != nil {
		return nil, lms.Upstream("could not load activities", err)
	}

	for i := range activities {
		activity := &activities[i]
		item, err := p.publishActivity(ctx, adapter, setting, handle, activity, counter)
		if err != nil {
			// stop at the first hard failure; what was already
			// published stays published and stays mapped
			log.Error().Err(err).
				Int("activity_id", activity.ID).
				Str("lms", setting.LmsName).
				Msg("[publish] activity failed, stopping batch")
			result.Errors = append(result.Errors,
				fmt.Sprintf("could not publish activity %q: %s", activity.Title, lms.KindOf(err)))
			break
		}
		result.Playlist.Items = append(result.Playlist.Items, PublishedItem{
			ActivityID: activity.ID,
			Title:      activity.Title,
			ExternalID: item.ID,
			URL:        item.URL,
			State:      item.State,
		})
	}

	return result, nil
}

// resolveSetting picks the explicit setting when given (and owned by
// the caller), else the user's default for the target LMS.
func resolveSetting(store db.Store, userID int, lmsName string, settingID *int) (*model.LmsSetting, error) {
	if settingID != nil {
		setting, err := store.GetLmsSetting(*settingID)
		if err != nil {
			return nil, lms.Validation(MsgInvalidIDs)
		}
		if setting.UserID != userID {
			return nil, lms.Forbidden(MsgNotAuthorized)
		}
		if setting.LmsName != lmsName {
			return nil, lms.Validation(MsgInvalidIDs)
		}
		return setting, nil
	}

	setting, err := store.DefaultLmsSetting(userID, lmsName)
	if err != nil {
		return nil, lms.Validation(fmt.Sprintf("No %s settings found for this user.", lmsName))
	}
	return setting, nil
}

func (p *Publisher) authorizeProject(userID, projectID, playlistID int) (*model.Project, *model.Playlist, error) {
	project, err := p.store.GetProjectByID(projectID)
	if err != nil {
		return nil, nil, lms.Validation(MsgInvalidIDs)
	}
	if project.CreatedBy != userID {
		return nil, nil, lms.Forbidden(MsgNotAuthorized)
	}

	playlist, err := p.store.GetPlaylistByID(playlistID)
	if err != nil || playlist.ProjectID != projectID {
		return nil, nil, lms.Validation(MsgInvalidIDs)
	}
	return project, playlist, nil
}

// resolveTopic returns the external course and topic for a playlist.
// A stored mapping short-circuits all external lookups; otherwise the
// course and topic are found or created and the mapping is persisted.
// singleflight keys concurrent callers to one external creation.
func (p *Publisher) resolveTopic(
	ctx context.Context,
	adapter lms.Adapter,
	setting *model.LmsSetting,
	project *model.Project,
	playlist *model.Playlist,
	reqCounter *int,
	counter int,
) (topicHandle, error) {
	key := fmt.Sprintf("%d:%d:%d", playlist.ID, setting.ID, counter)
	v, err, _ := p.topics.Do(key, func() (any, error) {
		if m, err := p.store.GetMapping(model.KindPlaylist, playlist.ID, setting.ID, counter); err == nil {
			courseID := ""
			if m.ExternalParentID != nil {
				courseID = *m.ExternalParentID
			}
			return topicHandle{
				course:  lms.Course{ID: courseID, Name: project.Name},
				topicID: m.ExternalID,
			}, nil
		}

		course, err := adapter.FindOrCreateCourse(ctx, "", project.Name)
		if err != nil {
			return topicHandle{}, err
		}

		topicID, err := adapter.FindOrCreateTopic(ctx, course.ID, topicTitle(playlist.Title, reqCounter))
		if err != nil {
			return topicHandle{}, err
		}

		mapping := &model.PublishMapping{
			InternalKind:     model.KindPlaylist,
			InternalID:       playlist.ID,
			LmsSettingID:     setting.ID,
			LmsName:          setting.LmsName,
			Counter:          counter,
			ExternalID:       topicID,
			ExternalParentID: &course.ID,
		}
		if err := p.store.UpsertMapping(mapping); err != nil {
			return topicHandle{}, lms.Upstream("could not persist playlist mapping", err)
		}
		return topicHandle{course: course, topicID: topicID}, nil
	})
	if err != nil {
		return topicHandle{}, err
	}
	return v.(topicHandle), nil
}

func (p *Publisher) publishActivity(
	ctx context.Context,
	adapter lms.Adapter,
	setting *model.LmsSetting,
	handle topicHandle,
	activity *model.Activity,
	counter int,
) (lms.ExternalItem, error) {
	externalID := ""
	if m, err := p.store.GetMapping(model.KindActivity, activity.ID, setting.ID, counter); err == nil {
		externalID = m.ExternalID
	}

	item, err := adapter.PublishItem(ctx, lms.ItemRequest{
		CourseID:   handle.course.ID,
		TopicID:    handle.topicID,
		ExternalID: externalID,
		Title:      activity.Title,
		Link:       p.resolver.LinkFor(activity),
	})
	if err != nil {
		return lms.ExternalItem{}, err
	}

	mapping := &model.PublishMapping{
		InternalKind:     model.KindActivity,
		InternalID:       activity.ID,
		LmsSettingID:     setting.ID,
		LmsName:          setting.LmsName,
		Counter:          counter,
		ExternalID:       item.ID,
		ExternalParentID: &handle.topicID,
		ExternalURL:      &item.URL,
	}
	if err := p.store.UpsertMapping(mapping); err != nil {
		return lms.ExternalItem{}, lms.Upstream("could not persist activity mapping", err)
	}
	return item, nil
}

func topicTitle(base string, counter *int) string {
	if counter == nil {
		return base
	}
	return fmt.Sprintf("%s - %d", base, *counter)
}
