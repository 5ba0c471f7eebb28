package packets

import "github.com/curriculab/studio/internal/engine"

// CourseResponse is the wire shape of a copied course: the course
// identity flattened alongside its topics.
type CourseResponse struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Topics []engine.CopiedTopic `json:"topics"`
}
