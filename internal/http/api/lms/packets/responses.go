package packets

import "github.com/curriculab/studio/internal/model"

type SettingsResponse struct {
	Settings []model.LmsSetting `json:"settings"`
}

type ProjectResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}
