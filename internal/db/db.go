package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// defaultFrequencyJSON 是历史数据缺失排期时回填的默认值：每周七天。
const defaultFrequencyJSON = "[0,1,2,3,4,5,6]"

// defaultCategory 是历史数据缺失分类时回填的默认值。
const defaultCategory = "Health"

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 looptrack.db。
// 旧版本导出的记录可能缺失 frequency/category 字段，迁移在这里一次性回填默认值，
// 引擎假定拿到的永远是完整填充的记录。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "looptrack.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}

	// 自动迁移模式，为核心模型创建表
	if err = DB.AutoMigrate(
		&User{},
		&UserProfile{},
		&Habit{},
		&DailyLog{},
		&SystemSetting{},
	); err != nil {
		return err
	}

	return BackfillLegacyHabits(DB)
}

// BackfillLegacyHabits 为缺失排期/分类的历史习惯记录补默认值。
// 独立导出便于导入旧版备份后复用同一迁移。
func BackfillLegacyHabits(gdb *gorm.DB) error {
	if err := gdb.Model(&Habit{}).
		Where("frequency IS NULL OR frequency = '' OR frequency = 'null' OR frequency = '[]'").
		Update("frequency", defaultFrequencyJSON).Error; err != nil {
		return err
	}

	if err := gdb.Model(&Habit{}).
		Where("category IS NULL OR category = ''").
		Update("category", defaultCategory).Error; err != nil {
		return err
	}

	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
