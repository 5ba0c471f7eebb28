package engine

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/curriculab/studio/internal/content"
	"github.com/curriculab/studio/internal/db"
	"github.com/curriculab/studio/internal/lms"
)

// Copier clones an entire project into a Google Classroom course: one
// topic per playlist, one courseWork entry per activity. Classroom
// enforces per-minute write quotas, so every external write runs
// serially; a quota response aborts with KindQuota so callers know the
// operation is retryable later rather than permanently failed.
type Copier struct {
	store     db.Store
	resolver  content.Resolver
	classroom ClassroomFactory
}

func NewCopier(store db.Store, resolver content.Resolver, classroom ClassroomFactory) *Copier {
	return &Copier{store: store, resolver: resolver, classroom: classroom}
}

// CopyProject walks the whole project. The ownership check runs before
// the adapter is even built, so a forbidden copy performs zero
// external calls.
func (c *Copier) CopyProject(ctx context.Context, userID, projectID int, targetCourseID string) (*CopyResult, error) {
	project, err := c.store.GetProjectByID(projectID)
	if err != nil {
		return nil, lms.Validation(MsgInvalidIDs)
	}
	if project.CreatedBy != userID {
		return nil, lms.Forbidden(MsgForeignShare)
	}

	playlists, err := c.store.ListPlaylists(project.ID)
	if err != nil {
		return nil, lms.Upstream("could not load playlists", err)
	}

	adapter, err := c.classroom(ctx, userID)
	if err != nil {
		return nil, err
	}

	course, err := adapter.FindOrCreateCourse(ctx, targetCourseID, project.Name)
	if err != nil {
		return nil, err
	}

	result := &CopyResult{Course: course}
	for i := range playlists {
		playlist := &playlists[i]

		topicID, err := adapter.FindOrCreateTopic(ctx, course.ID, playlist.Title)
		if err != nil {
			log.Error().Err(err).Int("playlist_id", playlist.ID).Msg("[copy] topic creation failed")
			return result, err
		}

		topic := CopiedTopic{Name: playlist.Title}
		activities, err := c.store.ListActivities(playlist.ID)
		if err != nil {
			return result, lms.Upstream("could not load activities", err)
		}

		for j := range activities {
			activity := &activities[j]
			link := c.resolver.LinkFor(activity)
			work, err := adapter.PublishItem(ctx, lms.ItemRequest{
				CourseID: course.ID,
				TopicID:  topicID,
				Title:    activity.Title,
				Link:     link,
			})
			if err != nil {
				log.Error().Err(err).Int("activity_id", activity.ID).Msg("[copy] coursework creation failed")
				result.Topics = append(result.Topics, topic)
				return result, err
			}
			topic.CourseWork = append(topic.CourseWork, CopiedWork{
				ID:    work.ID,
				Title: activity.Title,
				Link:  link,
				State: work.State,
			})
		}
		result.Topics = append(result.Topics, topic)
	}

	return result, nil
}

// ListCourses surfaces the user's Classroom courses for target
// selection before a copy.
func (c *Copier) ListCourses(ctx context.Context, userID int) ([]lms.Course, error) {
	adapter, err := c.classroom(ctx, userID)
	if err != nil {
		return nil, err
	}
	return adapter.ListCourses(ctx)
}
