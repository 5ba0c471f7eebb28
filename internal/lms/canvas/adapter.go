package canvas

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/curriculab/studio/internal/httpx"
	"github.com/curriculab/studio/internal/lms"
	"github.com/curriculab/studio/internal/model"
)

// Adapter implements lms.Adapter against a Canvas instance.
type Adapter struct {
	client *Client
}

func New(setting *model.LmsSetting) *Adapter {
	return &Adapter{client: NewClient(setting.LmsURL, setting.LmsAccessToken)}
}

// NewWithClient is used by tests to point the adapter at a fake server.
func NewWithClient(c *Client) *Adapter { return &Adapter{client: c} }

func (a *Adapter) Name() string { return model.LmsCanvas }

func (a *Adapter) FindOrCreateCourse(ctx context.Context, externalCourseID, defaultName string) (lms.Course, error) {
	if externalCourseID != "" {
		course, err := a.client.GetCourse(ctx, externalCourseID)
		if err != nil {
			return lms.Course{}, classify(err, "could not verify canvas course")
		}
		return lms.Course{ID: strconv.Itoa(course.ID), Name: course.Name}, nil
	}

	courses, err := a.client.ListCourses(ctx)
	if err != nil {
		return lms.Course{}, classify(err, "could not list canvas courses")
	}
	for _, c := range courses {
		if c.Name == defaultName {
			return lms.Course{ID: strconv.Itoa(c.ID), Name: c.Name}, nil
		}
	}

	created, err := a.client.CreateCourse(ctx, defaultName)
	if err != nil {
		return lms.Course{}, classify(err, "could not create canvas course")
	}
	log.Info().Int("course_id", created.ID).Str("name", created.Name).Msg("[canvas] created course")
	return lms.Course{ID: strconv.Itoa(created.ID), Name: created.Name}, nil
}

func (a *Adapter) FindOrCreateTopic(ctx context.Context, courseID, title string) (string, error) {
	modules, err := a.client.ListModules(ctx, courseID, false)
	if err != nil {
		return "", classify(err, "could not list canvas modules")
	}
	for _, m := range modules {
		if m.Name == title {
			return strconv.Itoa(m.ID), nil
		}
	}

	created, err := a.client.CreateModule(ctx, courseID, title)
	if err != nil {
		return "", classify(err, "could not create canvas module")
	}
	if _, err := a.client.PublishModule(ctx, courseID, created.ID); err != nil {
		return "", classify(err, "could not publish canvas module")
	}
	return strconv.Itoa(created.ID), nil
}

func (a *Adapter) PublishItem(ctx context.Context, req lms.ItemRequest) (lms.ExternalItem, error) {
	if req.ExternalID != "" {
		item, err := a.client.UpdateModuleItem(ctx, req.CourseID, req.TopicID, req.ExternalID, req.Title, req.Link, true)
		if err != nil {
			return lms.ExternalItem{}, classify(err, "could not update canvas module item")
		}
		return normalizeItem(item), nil
	}

	item, err := a.client.CreateModuleItem(ctx, req.CourseID, req.TopicID, req.Title, req.Link)
	if err != nil {
		return lms.ExternalItem{}, classify(err, "could not create canvas module item")
	}
	// new items start unpublished; a second call flips them live so a
	// half-created item is never reported as published
	published, err := a.client.UpdateModuleItem(ctx, req.CourseID, req.TopicID, strconv.Itoa(item.ID), req.Title, req.Link, true)
	if err != nil {
		return lms.ExternalItem{}, classify(err, "could not publish canvas module item")
	}
	return normalizeItem(published), nil
}

func (a *Adapter) FetchCourseStructure(ctx context.Context, courseID string) (lms.CourseStructure, error) {
	course, err := a.client.GetCourse(ctx, courseID)
	if err != nil {
		return lms.CourseStructure{}, classify(err, "could not fetch canvas course")
	}
	modules, err := a.client.ListModules(ctx, courseID, true)
	if err != nil {
		return lms.CourseStructure{}, classify(err, "could not fetch canvas modules")
	}

	out := lms.CourseStructure{CourseName: course.Name}
	for _, m := range modules {
		topic := lms.TopicStructure{ID: strconv.Itoa(m.ID), Name: m.Name}
		for _, it := range m.Items {
			topic.Items = append(topic.Items, it.Title)
		}
		out.Topics = append(out.Topics, topic)
	}
	return out, nil
}

func normalizeItem(item *ModuleItem) lms.ExternalItem {
	state := "unpublished"
	if item.Published {
		state = lms.StatePublished
	}
	return lms.ExternalItem{
		ID:    strconv.Itoa(item.ID),
		URL:   item.HTMLURL,
		State: state,
	}
}

// classify maps a transport-level failure to the engine taxonomy.
func classify(err error, msg string) error {
	var serr *httpx.StatusError
	if !errors.As(err, &serr) {
		return lms.Upstream(msg, err)
	}
	switch serr.StatusCode {
	case http.StatusUnauthorized:
		return lms.Auth("canvas rejected the access token", serr)
	case http.StatusForbidden:
		return lms.Forbidden("canvas denied access to this course")
	case http.StatusNotFound:
		return lms.NotFound("canvas object not found")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &lms.Error{Kind: lms.KindValidation, Message: msg, Err: serr}
	default:
		return lms.Upstream(msg, serr)
	}
}
