package db

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Habit 定义了习惯模型。
// ID 使用 uuid 字符串，创建后不可变；Frequency 以 JSON 数组存储排期的星期集合
// （0=周日..6=周六），加载端保证缺失值在进入引擎前被回填。
// ReminderTime 为 HH:MM 格式，空串表示未设置提醒。
// Position 记录用户自定义排序，值越小越靠前。
type Habit struct {
	ID           string `gorm:"primaryKey;size:36"`
	Title        string `gorm:"size:120;not null"`
	Description  string `gorm:"type:text"`
	Icon         string `gorm:"size:16"`
	Color        string `gorm:"size:16"`
	Category     string `gorm:"size:40"`
	Frequency    datatypes.JSON
	ReminderTime string `gorm:"size:5"`
	Position     int    `gorm:"default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// DailyLog 记录单个日历日的完成集合与睡眠时长。
// LogDate 唯一索引保证每天至多一条；CompletedHabitIDs/CompletedAt 以 JSON 存储，
// CompletedAt 按 habit id 记录完成时刻，供徽章按真实时间评估。
// 删除习惯不回头清洗历史日志中的引用。
type DailyLog struct {
	gorm.Model
	LogDate           time.Time `gorm:"uniqueIndex;not null"`
	CompletedHabitIDs datatypes.JSON
	CompletedAt       datatypes.JSON
	SleepHours        float64 `gorm:"default:0"`
}

// TableName 自定义表名。
func (DailyLog) TableName() string {
	return "daily_logs"
}
