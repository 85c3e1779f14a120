package service

import (
	"testing"
	"time"

	"github.com/looptrack/internal/db"
	"github.com/looptrack/internal/engine"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupReminderTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.UserProfile{}, &db.Habit{}, &db.DailyLog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestReminderDueAt(t *testing.T) {
	cleanup := setupReminderTestDB(t)
	defer cleanup()

	habitSvc := NewHabitService(db.DB)

	// 2025-06-02 是周一
	now := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)

	morning, err := habitSvc.Create(HabitInput{
		Title:        "晨跑",
		Category:     "Health",
		Frequency:    []int{1, 3, 5},
		ReminderTime: "07:00",
	})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// 同一时间但今天不在排期内
	if _, err := habitSvc.Create(HabitInput{
		Title:        "周末大扫除",
		Category:     "Other",
		Frequency:    []int{0, 6},
		ReminderTime: "07:00",
	}); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// 排期内但提醒时间不同
	if _, err := habitSvc.Create(HabitInput{
		Title:        "夜读",
		Category:     "Study",
		Frequency:    []int{1, 3, 5},
		ReminderTime: "21:30",
	}); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// 没有设置提醒
	if _, err := habitSvc.Create(HabitInput{
		Title:     "喝水",
		Category:  "Health",
		Frequency: []int{0, 1, 2, 3, 4, 5, 6},
	}); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	svc := NewReminderService(db.DB)
	due, err := svc.DueAt(now)
	if err != nil {
		t.Fatalf("DueAt returned error: %v", err)
	}

	if len(due) != 1 || due[0].HabitID != morning.ID {
		t.Fatalf("expected only morning habit due, got %+v", due)
	}

	// 已完成的不再提醒
	if _, _, err := NewTrackerService(db.DB).Toggle(morning.ID, engine.DayOf(now)); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}

	due, err = svc.DueAt(now)
	if err != nil {
		t.Fatalf("DueAt returned error: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected no reminders after completion, got %+v", due)
	}
}
