package packets

type AccessTokenRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

type CopyProjectRequest struct {
	CourseID string `json:"course_id"`
}
