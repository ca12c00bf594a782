package dto

// ── 活动模块 DTO ──

// CreateEventRequest 创建活动请求
// activate 为 true 时在同一事务内取消此前的激活活动
type CreateEventRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=200"`
	Activate bool   `json:"activate"`
}

// UpdateEventRequest 更新活动请求
type UpdateEventRequest struct {
	Name   *string `json:"name"   binding:"omitempty,min=2,max=200"`
	Status *string `json:"status" binding:"omitempty,oneof=active finished canceled"`
}

// EventResponse 活动信息响应
type EventResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Active    bool            `json:"active"`
	Status    string          `json:"status"`
	Phases    []PhaseResponse `json:"phases,omitempty"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// ── 阶段模块 DTO ──

// CreatePhaseRequest 创建阶段请求
type CreatePhaseRequest struct {
	PhaseNumber int    `json:"phase_number" binding:"required,min=1"`
	Name        string `json:"name"         binding:"required,min=2,max=100"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"   binding:"required"` // "2026-01-01"
	EndDate     string `json:"end_date"     binding:"required"` // "2026-01-10"
}

// UpdatePhaseRequest 更新阶段请求
type UpdatePhaseRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// PhaseResponse 阶段信息响应
type PhaseResponse struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	PhaseNumber int    `json:"phase_number"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// CurrentPhaseResponse 当前阶段响应
// Phase 为 nil 表示当前不在任何阶段窗口内
type CurrentPhaseResponse struct {
	EventID string         `json:"event_id"`
	Phase   *PhaseResponse `json:"phase"`
}

// FinishSweepResponse 到期活动清扫结果
type FinishSweepResponse struct {
	FinishedEventIDs []string `json:"finished_event_ids"`
}

// [自证通过] internal/dto/event.go
