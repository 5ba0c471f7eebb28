// Package content resolves activities to the public launch links that
// get embedded in external LMS items. The H5P runtime itself lives in
// a separate service; all this package knows is its URL scheme.
package content

import (
	"fmt"
	"strings"

	"github.com/curriculab/studio/internal/model"
)

type Resolver interface {
	// LinkFor returns the embeddable/launchable URL for one activity.
	LinkFor(activity *model.Activity) string
}

type studioResolver struct {
	baseURL string
}

func NewResolver(contentBaseURL string) Resolver {
	return &studioResolver{baseURL: strings.TrimRight(contentBaseURL, "/")}
}

func (r *studioResolver) LinkFor(activity *model.Activity) string {
	return fmt.Sprintf("%s/activity/%d/shared", r.baseURL, activity.ID)
}
