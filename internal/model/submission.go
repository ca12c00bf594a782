package model

// 参赛记录状态
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusApproved  = "approved"
	SubmissionStatusRejected  = "rejected"
	SubmissionStatusFinalist  = "finalist"
	SubmissionStatusWinner    = "winner"
)

// Submission 参赛记录表 — 对应 submissions
// Project 与 Event 的连接实体，评分引擎的排名单位
type Submission struct {
	SubmissionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"submission_id"`
	ProjectID    string `gorm:"type:uuid;not null"                             json:"project_id"`
	EventID      string `gorm:"type:uuid;not null"                             json:"event_id"`
	Status       string `gorm:"type:varchar(20);not null;default:'submitted'"  json:"status"` // submitted | approved | rejected | finalist | winner
	BaseModel

	// 关联
	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
	Event   *Event   `gorm:"foreignKey:EventID;references:EventID"     json:"event,omitempty"`
}

// TableName 指定表名
func (Submission) TableName() string { return "submissions" }

// [自证通过] internal/model/submission.go
