package dto

// ── 评审模块 DTO ──

// ScoreInput 单项评分（0-10 分制）
type ScoreInput struct {
	CriterionID string `json:"criterion_id" binding:"required,uuid"`
	Score       int    `json:"score"        binding:"min=0,max=10"`
}

// RecordEvaluationRequest 提交/更新评审请求
// 同一教授对同一参赛记录重复提交走原地更新
type RecordEvaluationRequest struct {
	SubmissionID string       `json:"submission_id" binding:"required,uuid"`
	Scores       []ScoreInput `json:"scores"        binding:"required,min=1,dive"`
}

// EvaluationResponse 评审响应
type EvaluationResponse struct {
	ID                 string               `json:"id"`
	SubmissionID       string               `json:"submission_id"`
	ProfessorID        string               `json:"professor_id"`
	TotalScore         int                  `json:"total_score"`
	ApprovalPercentage int                  `json:"approval_percentage"`
	Scores             []ScoreItemResponse  `json:"scores,omitempty"`
}

// ScoreItemResponse 单项评分响应
type ScoreItemResponse struct {
	CriterionID string `json:"criterion_id"`
	Score       int    `json:"score"`
}

// EvaluationAggregateResponse 评审聚合结果
type EvaluationAggregateResponse struct {
	SubmissionID      string                   `json:"submission_id"`
	EvaluationCount   int                      `json:"evaluation_count"`
	OverallAverage    float64                  `json:"overall_average"`
	CriterionAverages []CriterionAverageEntry  `json:"criterion_averages"`
}

// CriterionAverageEntry 按评审标准的平均分
type CriterionAverageEntry struct {
	CriterionID string  `json:"criterion_id"`
	Average     float64 `json:"average"`
}
