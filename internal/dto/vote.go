package dto

// ── 投票模块 DTO ──

// CastVoteRequest 投票请求
// Phase 为空时由阶段日历解析当前投票阶段；管理员可显式指定（覆盖路径）
type CastVoteRequest struct {
	ProjectID string `json:"project_id" binding:"required,uuid"`
	EventID   string `json:"event_id"   binding:"required,uuid"`
	Phase     string `json:"phase"      binding:"omitempty,oneof=popular final"`
}

// VoteResponse 投票响应
type VoteResponse struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	EventID   string `json:"event_id"`
	VotePhase string `json:"vote_phase"`
	Weight    int    `json:"weight"`
	CreatedAt string `json:"created_at"`
}
