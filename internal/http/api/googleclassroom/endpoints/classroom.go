package endpoints

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/curriculab/studio/internal/engine"
	"github.com/curriculab/studio/internal/http/api"
	"github.com/curriculab/studio/internal/http/api/googleclassroom/packets"
	"github.com/curriculab/studio/internal/lms"
	googlelms "github.com/curriculab/studio/internal/lms/google"
	"github.com/curriculab/studio/internal/model"
)

// Copier is the slice of the engine these endpoints need.
type Copier interface {
	CopyProject(ctx context.Context, userID, projectID int, targetCourseID string) (*engine.CopyResult, error)
	ListCourses(ctx context.Context, userID int) ([]lms.Course, error)
}

type ClassroomController struct {
	copier Copier
	tokens googlelms.TokenStore
}

// ClassroomModule mounts the Google Classroom endpoints.
func ClassroomModule(copier Copier, tokens googlelms.TokenStore) api.Module {
	ctl := &ClassroomController{copier: copier, tokens: tokens}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/google-classroom/access-token", ctl.saveAccessToken)
		c.GET("/google-classroom/courses", ctl.listCourses)
		c.POST("/google-classroom/projects/:project/copy", ctl.copyProject)
	})
}

// POST /api/v1/google-classroom/access-token
// The frontend completes the OAuth dance and hands us the opaque token.
func (g *ClassroomController) saveAccessToken(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.AccessTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := g.tokens.Save(ctx.Request.Context(), user.ID, req.AccessToken); err != nil {
		log.Error().Err(err).Int("user_id", user.ID).Msg("[classroom] could not store access token")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store access token"}
	}
	return gin.H{"message": "Access token saved."}, nil
}

// GET /api/v1/google-classroom/courses
func (g *ClassroomController) listCourses(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	courses, err := g.copier.ListCourses(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, classroomError(err)
	}
	return gin.H{"courses": courses}, nil
}

// POST /api/v1/google-classroom/projects/:project/copy
func (g *ClassroomController) copyProject(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	projectID, err := strconv.Atoi(ctx.Param("project"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: engine.MsgInvalidIDs}
	}

	var req packets.CopyProjectRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
	}

	result, err := g.copier.CopyProject(ctx.Request.Context(), user.ID, projectID, req.CourseID)
	if err != nil {
		return nil, classroomError(err)
	}
	return gin.H{"course": packets.CourseResponse{
		ID:     result.Course.ID,
		Name:   result.Course.Name,
		Topics: result.Topics,
	}}, nil
}

func classroomError(err error) *api.APIError {
	kind := lms.KindOf(err)
	code := api.StatusForKind(kind)

	message := "Error syncing with google classroom."
	switch kind {
	case lms.KindQuota:
		message = "Google classroom rate limit reached. Please retry in a minute."
	case lms.KindForbidden, lms.KindValidation, lms.KindAuth, lms.KindNotFound:
		var lerr *lms.Error
		if errors.As(err, &lerr) {
			message = lerr.Message
		}
	}

	log.Error().Err(err).Str("kind", kind.String()).Msg("[classroom] request failed")
	return &api.APIError{Code: code, Message: message}
}
