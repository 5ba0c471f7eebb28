package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/curriculab/studio/internal/db"
	"github.com/curriculab/studio/internal/http/api"
	"github.com/curriculab/studio/internal/http/api/lms/packets"
	"github.com/curriculab/studio/internal/model"
)

type SettingsController struct {
	store db.Store
}

// SettingsModule mounts the LMS settings and LTI project-resolution
// endpoints.
func SettingsModule(store db.Store) api.Module {
	ctl := &SettingsController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/go/lms-settings/user/me", ctl.mySettings)
		c.POST("/go/lms/projects", ctl.ltiProjects)
	})
}

// GET /api/v1/go/lms-settings/user/me
func (s *SettingsController) mySettings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	settings, err := s.store.ListLmsSettings(user.ID)
	if err != nil {
		log.Error().Err(err).Int("user_id", user.ID).Msg("[lms] could not list settings")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list LMS settings"}
	}
	return gin.H{"data": packets.SettingsResponse{Settings: settings}}, nil
}

// POST /api/v1/go/lms/projects
// Resolves the projects visible to an LMS launch sharing our LTI
// configuration.
func (s *SettingsController) ltiProjects(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.LtiProjectsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if req.LmsURL == "" || req.LtiClientID == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "lms_url and lti_client_id are required."}
	}

	projects, err := s.store.ListProjectsForLti(req.LmsURL, req.LtiClientID)
	if err != nil {
		log.Error().Err(err).Msg("[lms] could not resolve LTI projects")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not resolve projects"}
	}

	out := make([]packets.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, packets.ProjectResponse{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	return gin.H{"projects": out}, nil
}
