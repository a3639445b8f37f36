package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 表示系统中的账号信息。
type User struct {
	gorm.Model
	Username     string      `gorm:"uniqueIndex;size:64"`
	PasswordHash string      `gorm:"size:255"`
	Resumes      []Resume    `gorm:"constraint:OnDelete:CASCADE"`
	Portfolios   []Portfolio `gorm:"constraint:OnDelete:CASCADE"`
}

// Resume 表示用户创建的简历。Content 整体存储结构化文档（JSONB），
// 每次保存都是全量替换，不做字段级局部更新。
type Resume struct {
	gorm.Model
	Title   string         `gorm:"size:255"`
	Content datatypes.JSON `gorm:"type:jsonb"`
	UserID  uint           `gorm:"index"`
	User    User           `gorm:"constraint:OnDelete:CASCADE"`
}

// Portfolio 表示由简历生成的作品集网站。
// HTML 为完整的单文件站点；ObjectKey 指向对象存储中的归档副本，
// 用于生成限时分享链接。
type Portfolio struct {
	gorm.Model
	Title        string `gorm:"size:255"`
	Theme        string `gorm:"size:32"`
	Palette      string `gorm:"size:32"`
	CustomPrompt string `gorm:"type:text"`
	HTML         string `gorm:"type:text"`
	ObjectKey    string `gorm:"size:512"`
	Status       string `gorm:"size:32"`
	ResumeID     uint   `gorm:"index"`
	UserID       uint   `gorm:"index"`
	User         User   `gorm:"constraint:OnDelete:CASCADE"`
}

// 作品集生成状态（异步路径）。
const (
	PortfolioStatusPending   = "pending"
	PortfolioStatusCompleted = "completed"
	PortfolioStatusFailed    = "failed"
)
