package dto

// ── 用户模块 DTO ──

// ListUsersRequest 用户列表查询参数
type ListUsersRequest struct {
	PaginationRequest
}

// UpdateUserRoleRequest 调整用户角色请求（仅管理员）
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user professor admin"`
}
