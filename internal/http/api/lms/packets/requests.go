package packets

type PublishRequest struct {
	SettingID *int `json:"setting_id"`
	Counter   *int `json:"counter"`
}

type FetchRequest struct {
	SettingID *int `json:"setting_id"`
}

type LtiProjectsRequest struct {
	LmsURL      string `json:"lms_url"`
	LtiClientID string `json:"lti_client_id"`
}
