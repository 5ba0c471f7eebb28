package moodle

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/curriculab/studio/internal/httpx"
	"github.com/curriculab/studio/internal/lms"
	"github.com/curriculab/studio/internal/model"
)

// Adapter implements lms.Adapter against a Moodle site with the
// Studio companion plugin installed.
type Adapter struct {
	client *Client
}

func New(setting *model.LmsSetting) *Adapter {
	return &Adapter{client: NewClient(setting.LmsURL, setting.LmsAccessToken)}
}

// NewWithClient is used by tests to point the adapter at a fake server.
func NewWithClient(c *Client) *Adapter { return &Adapter{client: c} }

func (a *Adapter) Name() string { return model.LmsMoodle }

func (a *Adapter) FindOrCreateCourse(ctx context.Context, externalCourseID, defaultName string) (lms.Course, error) {
	if externalCourseID != "" {
		courses, err := a.client.GetCoursesByField(ctx, "id", externalCourseID)
		if err != nil {
			return lms.Course{}, classify(err, "could not verify moodle course")
		}
		if len(courses) == 0 {
			return lms.Course{}, lms.NotFound("moodle course not found")
		}
		return normalizeCourse(courses[0]), nil
	}

	short := shortName(defaultName)
	courses, err := a.client.GetCoursesByField(ctx, "shortname", short)
	if err != nil {
		return lms.Course{}, classify(err, "could not search moodle courses")
	}
	if len(courses) > 0 {
		return normalizeCourse(courses[0]), nil
	}

	created, err := a.client.CreateCourse(ctx, defaultName, short)
	if err != nil {
		return lms.Course{}, classify(err, "could not create moodle course")
	}
	log.Info().Int("course_id", created.ID).Str("name", defaultName).Msg("[moodle] created course")
	return normalizeCourse(*created), nil
}

func (a *Adapter) FindOrCreateTopic(ctx context.Context, courseID, title string) (string, error) {
	sections, err := a.client.GetContents(ctx, courseID)
	if err != nil {
		return "", classify(err, "could not list moodle sections")
	}
	for _, s := range sections {
		if s.Name == title {
			return strconv.Itoa(s.ID), nil
		}
	}

	created, err := a.client.CreateSection(ctx, courseID, title)
	if err != nil {
		return "", classify(err, "could not create moodle section")
	}
	return strconv.Itoa(created.ID), nil
}

func (a *Adapter) PublishItem(ctx context.Context, req lms.ItemRequest) (lms.ExternalItem, error) {
	mod, err := a.client.UpsertModule(ctx, req.CourseID, req.TopicID, req.ExternalID, req.Title, req.Link)
	if err != nil {
		return lms.ExternalItem{}, classify(err, "could not publish moodle module")
	}
	state := "hidden"
	if mod.Visible == 1 {
		state = lms.StatePublished
	}
	return lms.ExternalItem{ID: strconv.Itoa(mod.ID), URL: mod.URL, State: state}, nil
}

func (a *Adapter) FetchCourseStructure(ctx context.Context, courseID string) (lms.CourseStructure, error) {
	courses, err := a.client.GetCoursesByField(ctx, "id", courseID)
	if err != nil {
		return lms.CourseStructure{}, classify(err, "could not fetch moodle course")
	}
	if len(courses) == 0 {
		return lms.CourseStructure{}, lms.NotFound("moodle course not found")
	}

	sections, err := a.client.GetContents(ctx, courseID)
	if err != nil {
		return lms.CourseStructure{}, classify(err, "could not fetch moodle contents")
	}

	out := lms.CourseStructure{CourseName: courses[0].FullName}
	for _, s := range sections {
		topic := lms.TopicStructure{ID: strconv.Itoa(s.ID), Name: s.Name}
		for _, m := range s.Modules {
			topic.Items = append(topic.Items, m.Name)
		}
		out.Topics = append(out.Topics, topic)
	}
	return out, nil
}

func normalizeCourse(c Course) lms.Course {
	return lms.Course{ID: strconv.Itoa(c.ID), Name: c.FullName}
}

// shortName derives the Moodle shortname Moodle requires to be unique
// per site from a course title. Truncation counts runes so a multibyte
// title never gets cut mid-character.
func shortName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), "-")
	if runes := []rune(s); len(runes) > 64 {
		s = string(runes[:64])
	}
	return s
}

// classify maps webservice exceptions and transport failures to the
// engine taxonomy.
func classify(err error, msg string) error {
	var exc *wsException
	if errors.As(err, &exc) {
		switch exc.ErrorCode {
		case "invalidtoken", "accessexception":
			return lms.Auth("moodle rejected the webservice token", exc)
		case "nopermissions", "requireloginerror":
			return lms.Forbidden("moodle denied access to this course")
		case "invalidrecord", "invalidcourseid":
			return lms.NotFound("moodle object not found")
		case "invalidparameter", "missingparam":
			return &lms.Error{Kind: lms.KindValidation, Message: msg, Err: exc}
		default:
			return lms.Upstream(msg, exc)
		}
	}

	var serr *httpx.StatusError
	if errors.As(err, &serr) {
		return lms.Upstream(msg, serr)
	}
	return lms.Upstream(msg, err)
}
