// Package lms defines the normalized contract between the publish
// orchestrators and the three external LMS backends. Each backend
// package (canvas, moodle, google) parses its own wire shapes and
// returns only the types declared here.
package lms

import "context"

// Course is the external counterpart of a Studio project.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExternalItem is the external counterpart of one activity. State is
// "published" only once the external object is fully materialized.
type ExternalItem struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	State string `json:"state"`
}

const StatePublished = "published"

// ItemRequest carries everything an adapter needs to create or update
// one module item / courseWork entry. ExternalID empty means create;
// set means update the existing external object in place.
type ItemRequest struct {
	CourseID   string
	TopicID    string
	ExternalID string
	Title      string
	Link       string
}

// CourseStructure is the read-only projection used for import preview.
type CourseStructure struct {
	CourseName string           `json:"course"`
	Topics     []TopicStructure `json:"topics"`
}

type TopicStructure struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Adapter translates one normalized operation into one external API
// call. Implementations must classify every failure with the taxonomy
// in errors.go before returning.
type Adapter interface {
	Name() string

	// FindOrCreateCourse verifies externalCourseID when given, or else
	// finds a course named defaultName, or else creates one.
	FindOrCreateCourse(ctx context.Context, externalCourseID, defaultName string) (Course, error)

	// FindOrCreateTopic is idempotent by (courseID, title). Callers
	// holding a stored mapping skip this call entirely.
	FindOrCreateTopic(ctx context.Context, courseID, title string) (string, error)

	PublishItem(ctx context.Context, req ItemRequest) (ExternalItem, error)

	// FetchCourseStructure must not mutate external state.
	FetchCourseStructure(ctx context.Context, courseID string) (CourseStructure, error)
}
