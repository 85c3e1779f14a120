package db

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProfile 保存唯一一行用户档案。
// Points 永不为负；Level 由积分推导后冗余存储以便快速展示，引擎是唯一写入方。
// UnlockedBadges 以 JSON 数组存储已解锁的徽章 id，只增不减。
type UserProfile struct {
	gorm.Model
	Name           string `gorm:"size:80"`
	Avatar         string `gorm:"size:16"`
	IsOnboarded    bool   `gorm:"default:false"`
	Points         int    `gorm:"default:0"`
	Level          int    `gorm:"default:1"`
	JoinedDate     time.Time
	UnlockedBadges datatypes.JSON
}

// TableName 自定义表名。
func (UserProfile) TableName() string {
	return "user_profiles"
}
