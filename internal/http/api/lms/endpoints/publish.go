package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/curriculab/studio/internal/engine"
	"github.com/curriculab/studio/internal/http/api"
	"github.com/curriculab/studio/internal/http/api/lms/packets"
	"github.com/curriculab/studio/internal/lms"
	"github.com/curriculab/studio/internal/model"
)

// Publisher and Fetcher are the slices of the engine these endpoints
// need; tests substitute fakes.
type Publisher interface {
	Publish(ctx context.Context, userID int, req engine.PublishRequest) (*engine.PublishResult, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, userID int, req engine.FetchRequest) (*engine.FetchResult, error)
}

type PublishController struct {
	lmsName   string
	publisher Publisher
	fetcher   Fetcher
}

func newPublishController(lmsName string, p Publisher, f Fetcher) *PublishController {
	return &PublishController{lmsName: lmsName, publisher: p, fetcher: f}
}

// CanvasModule mounts the Canvas publish/fetch endpoints under /go/canvas.
func CanvasModule(p Publisher, f Fetcher) api.Module {
	ctl := newPublishController(model.LmsCanvas, p, f)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/go/canvas/projects/:project/playlists/:playlist/publish", ctl.publishPlaylist)
		c.POST("/go/canvas/projects/:project/fetch", ctl.fetchProject)
	})
}

// MoodleModule mounts the Moodle publish/fetch endpoints under /go/moodle.
func MoodleModule(p Publisher, f Fetcher) api.Module {
	ctl := newPublishController(model.LmsMoodle, p, f)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/go/moodle/projects/:project/playlists/:playlist/publish", ctl.publishPlaylist)
		c.POST("/go/moodle/projects/:project/fetch", ctl.fetchProject)
	})
}

// publishPlaylist pushes one playlist into the target LMS.
func (p *PublishController) publishPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	projectID, err1 := strconv.Atoi(ctx.Param("project"))
	playlistID, err2 := strconv.Atoi(ctx.Param("playlist"))
	if err1 != nil || err2 != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: engine.MsgInvalidIDs}
	}

	var req packets.PublishRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
	}

	result, err := p.publisher.Publish(ctx.Request.Context(), user.ID, engine.PublishRequest{
		LmsName:    p.lmsName,
		ProjectID:  projectID,
		PlaylistID: playlistID,
		SettingID:  req.SettingID,
		Counter:    req.Counter,
	})
	if err != nil {
		return nil, p.publishError(err)
	}

	return gin.H{"playlist": result}, nil
}

// fetchProject previews the external course structure; read-only.
func (p *PublishController) fetchProject(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	projectID, err := strconv.Atoi(ctx.Param("project"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: engine.MsgInvalidIDs}
	}

	var req packets.FetchRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
	}

	result, err := p.fetcher.Fetch(ctx.Request.Context(), user.ID, engine.FetchRequest{
		LmsName:   p.lmsName,
		ProjectID: projectID,
		SettingID: req.SettingID,
	})
	if err != nil {
		return nil, p.publishError(err)
	}

	return gin.H{"project": result}, nil
}

// publishError maps a classified engine error onto the documented
// status/body contract. Upstream failures carry the per-LMS message.
func (p *PublishController) publishError(err error) *api.APIError {
	kind := lms.KindOf(err)
	code := api.StatusForKind(kind)

	var message string
	switch kind {
	case lms.KindUpstream, lms.KindQuota:
		message = fmt.Sprintf("Error sending playlists to %s.", p.lmsName)
	default:
		var lerr *lms.Error
		if errors.As(err, &lerr) {
			message = lerr.Message
		} else {
			message = err.Error()
		}
	}

	log.Error().Err(err).Str("lms", p.lmsName).Str("kind", kind.String()).
		Msg("[lms] request failed")
	return &api.APIError{Code: code, Message: message}
}
