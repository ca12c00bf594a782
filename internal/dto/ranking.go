package dto

// ── 排名模块 DTO ──

// RankingEntry 单条排名记录
// TotalWeightedScore = PopularVotes + FinalVotes×3 + EvaluationAverage
type RankingEntry struct {
	SubmissionID       string  `json:"submission_id"`
	ProjectID          string  `json:"project_id"`
	ProjectTitle       string  `json:"project_title"`
	CategoryID         string  `json:"category_id"`
	Status             string  `json:"status"`
	PopularVotes       int     `json:"popular_votes"`
	FinalVotes         int     `json:"final_votes"`
	EvaluationAverage  float64 `json:"evaluation_average"`
	TotalWeightedScore float64 `json:"total_weighted_score"`
}

// RankingResponse 活动排名响应
type RankingResponse struct {
	EventID string         `json:"event_id"`
	Entries []RankingEntry `json:"entries"`
}

// SelectFinalistsResponse 入围评选结果
type SelectFinalistsResponse struct {
	EventID     string   `json:"event_id"`
	FinalistIDs []string `json:"finalist_ids"`
}
