package google

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/curriculab/studio/internal/lms"
	"github.com/curriculab/studio/internal/model"
)

// Adapter implements lms.Adapter against Google Classroom through the
// official API client. Classroom applies per-minute write quotas, so
// the copy engine drives this adapter strictly serially and quota
// responses classify as KindQuota rather than KindUpstream.
type Adapter struct {
	svc     *classroom.Service
	timeout time.Duration
}

// callTimeout bounds each Classroom call the same way the Canvas and
// Moodle clients bound theirs; gin request contexts carry no deadline.
const callTimeout = 30 * time.Second

// New builds an adapter authenticated with the user's OAuth access
// token. Extra options are used by tests to point at a fake server.
func New(ctx context.Context, accessToken string, extra ...option.ClientOption) (*Adapter, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, extra...)
	svc, err := classroom.NewService(ctx, opts...)
	if err != nil {
		return nil, lms.Upstream("could not initialize classroom client", err)
	}
	return &Adapter{svc: svc, timeout: callTimeout}, nil
}

func (a *Adapter) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.timeout)
}

func (a *Adapter) Name() string { return model.LmsGoogle }

// ListCourses returns the courses the token's user teaches, used by
// the UI to pick a copy target.
func (a *Adapter) ListCourses(ctx context.Context) ([]lms.Course, error) {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	var out []lms.Course
	call := a.svc.Courses.List().TeacherId("me").PageSize(100)
	err := call.Pages(ctx, func(resp *classroom.ListCoursesResponse) error {
		for _, c := range resp.Courses {
			out = append(out, lms.Course{ID: c.Id, Name: c.Name})
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, "could not list classroom courses")
	}
	return out, nil
}

func (a *Adapter) FindOrCreateCourse(ctx context.Context, externalCourseID, defaultName string) (lms.Course, error) {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if externalCourseID != "" {
		c, err := a.svc.Courses.Get(externalCourseID).Context(ctx).Do()
		if err != nil {
			return lms.Course{}, classify(err, "could not verify classroom course")
		}
		return lms.Course{ID: c.Id, Name: c.Name}, nil
	}

	created, err := a.svc.Courses.Create(&classroom.Course{
		Name:        defaultName,
		OwnerId:     "me",
		CourseState: "PROVISIONED",
	}).Context(ctx).Do()
	if err != nil {
		return lms.Course{}, classify(err, "could not create classroom course")
	}
	return lms.Course{ID: created.Id, Name: created.Name}, nil
}

func (a *Adapter) FindOrCreateTopic(ctx context.Context, courseID, title string) (string, error) {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	list, err := a.svc.Courses.Topics.List(courseID).Context(ctx).Do()
	if err != nil {
		return "", classify(err, "could not list classroom topics")
	}
	for _, t := range list.Topic {
		if t.Name == title {
			return t.TopicId, nil
		}
	}

	created, err := a.svc.Courses.Topics.Create(courseID, &classroom.Topic{Name: title}).Context(ctx).Do()
	if err != nil {
		return "", classify(err, "could not create classroom topic")
	}
	return created.TopicId, nil
}

func (a *Adapter) PublishItem(ctx context.Context, req lms.ItemRequest) (lms.ExternalItem, error) {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if req.ExternalID != "" {
		// courseWork.patch rejects "materials" in its update mask:
		// attached links are immutable after creation, so an update can
		// only refresh the title. The link itself targets the same
		// activity URL anyway.
		patched, err := a.svc.Courses.CourseWork.Patch(req.CourseID, req.ExternalID, &classroom.CourseWork{
			Title: req.Title,
		}).UpdateMask("title").Context(ctx).Do()
		if err != nil {
			return lms.ExternalItem{}, classify(err, "could not update classroom coursework")
		}
		return normalizeWork(patched), nil
	}

	created, err := a.svc.Courses.CourseWork.Create(req.CourseID, &classroom.CourseWork{
		Title:    req.Title,
		TopicId:  req.TopicID,
		WorkType: "ASSIGNMENT",
		State:    "PUBLISHED",
		Materials: []*classroom.Material{
			{Link: &classroom.Link{Url: req.Link}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return lms.ExternalItem{}, classify(err, "could not create classroom coursework")
	}
	return normalizeWork(created), nil
}

func (a *Adapter) FetchCourseStructure(ctx context.Context, courseID string) (lms.CourseStructure, error) {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	course, err := a.svc.Courses.Get(courseID).Context(ctx).Do()
	if err != nil {
		return lms.CourseStructure{}, classify(err, "could not fetch classroom course")
	}

	topics, err := a.svc.Courses.Topics.List(courseID).Context(ctx).Do()
	if err != nil {
		return lms.CourseStructure{}, classify(err, "could not fetch classroom topics")
	}
	work, err := a.svc.Courses.CourseWork.List(courseID).Context(ctx).Do()
	if err != nil {
		return lms.CourseStructure{}, classify(err, "could not fetch classroom coursework")
	}

	byTopic := make(map[string][]string)
	for _, w := range work.CourseWork {
		byTopic[w.TopicId] = append(byTopic[w.TopicId], w.Title)
	}

	out := lms.CourseStructure{CourseName: course.Name}
	for _, t := range topics.Topic {
		out.Topics = append(out.Topics, lms.TopicStructure{
			ID:    t.TopicId,
			Name:  t.Name,
			Items: byTopic[t.TopicId],
		})
	}
	return out, nil
}

func normalizeWork(w *classroom.CourseWork) lms.ExternalItem {
	state := strings.ToLower(w.State)
	if state == "published" {
		state = lms.StatePublished
	}
	return lms.ExternalItem{ID: w.Id, URL: w.AlternateLink, State: state}
}

// classify maps googleapi errors to the engine taxonomy. Rate limiting
// surfaces as 429 or as 403 with a rate/quota reason.
func classify(err error, msg string) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return lms.Upstream(msg, err)
	}
	switch gerr.Code {
	case 401:
		return lms.Auth("google rejected the access token", gerr)
	case 403:
		if quotaReason(gerr) {
			return lms.Quota("classroom write quota exceeded", gerr)
		}
		return lms.Forbidden("google denied access to this course")
	case 404:
		return lms.NotFound("classroom object not found")
	case 400:
		return &lms.Error{Kind: lms.KindValidation, Message: msg, Err: gerr}
	case 429:
		return lms.Quota("classroom rate limit exceeded", gerr)
	default:
		return lms.Upstream(msg, gerr)
	}
}

func quotaReason(gerr *googleapi.Error) bool {
	for _, e := range gerr.Errors {
		switch e.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "quotaExceeded":
			return true
		}
	}
	return strings.Contains(strings.ToLower(gerr.Message), "quota")
}
