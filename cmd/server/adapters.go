package main

import (
	"context"

	"github.com/curriculab/studio/internal/engine"
	"github.com/curriculab/studio/internal/lms"
	"github.com/curriculab/studio/internal/lms/canvas"
	googlelms "github.com/curriculab/studio/internal/lms/google"
	"github.com/curriculab/studio/internal/lms/moodle"
	"github.com/curriculab/studio/internal/model"
)

// adapterFactory selects the backend matching a setting's lms_name.
func adapterFactory(_ context.Context, setting *model.LmsSetting) (lms.Adapter, error) {
	switch setting.LmsName {
	case model.LmsCanvas:
		return canvas.New(setting), nil
	case model.LmsMoodle:
		return moodle.New(setting), nil
	default:
		return nil, lms.Validation("unsupported LMS: " + setting.LmsName)
	}
}

// classroomFactory authenticates a Classroom adapter with the user's
// stored OAuth access token.
func classroomFactory(tokens googlelms.TokenStore) engine.ClassroomFactory {
	return func(ctx context.Context, userID int) (engine.ClassroomAdapter, error) {
		token, err := tokens.Get(ctx, userID)
		if err != nil {
			return nil, lms.Auth("no google access token stored; connect google classroom first", err)
		}
		return googlelms.New(ctx, token)
	}
}
