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

func setupStateTestDB(t *testing.T) func() {
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

func TestStateServiceLoadDefault(t *testing.T) {
	cleanup := setupStateTestDB(t)
	defer cleanup()

	svc := NewStateService(db.DB)
	state, err := svc.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if state.Profile.Avatar != "🦊" {
		t.Fatalf("expected default avatar, got %s", state.Profile.Avatar)
	}

	if state.Profile.Level != 1 {
		t.Fatalf("expected default level 1, got %d", state.Profile.Level)
	}

	if len(state.Habits) != 0 || len(state.Logs) != 0 {
		t.Fatalf("expected empty state, got %d habits %d logs", len(state.Habits), len(state.Logs))
	}
}

func TestStateServiceRoundTrip(t *testing.T) {
	cleanup := setupStateTestDB(t)
	defer cleanup()

	svc := NewStateService(db.DB)

	day := engine.NewDay(2025, time.March, 10)
	completedAt := time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)

	state := engine.NewAppState(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	state.Profile.Name = "小明"
	state.Profile.Points = 320
	state.Profile.Level = engine.LevelForPoints(320)
	state.Profile.UnlockedBadges = []string{"first_step", "early_bird"}
	state.Habits = []engine.Habit{
		{
			ID:           "habit-1",
			Title:        "晨跑",
			Icon:         "🏃",
			Color:        "#FF9500",
			Category:     "Health",
			Frequency:    []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			ReminderTime: "07:00",
			CreatedAt:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        "habit-2",
			Title:     "读书",
			Category:  "Study",
			Frequency: engine.EveryDay(),
		},
	}
	state.Logs = map[engine.Day]engine.DailyLog{
		day: {
			Date:              day,
			CompletedHabitIDs: []string{"habit-1"},
			CompletedAt:       map[string]time.Time{"habit-1": completedAt},
			SleepHours:        7.5,
		},
	}

	if err := svc.Save(state); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := svc.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if loaded.Profile.Name != "小明" || loaded.Profile.Points != 320 {
		t.Fatalf("unexpected profile: %+v", loaded.Profile)
	}

	if len(loaded.Profile.UnlockedBadges) != 2 {
		t.Fatalf("expected 2 badges, got %v", loaded.Profile.UnlockedBadges)
	}

	if len(loaded.Habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(loaded.Habits))
	}

	// 顺序按 position 保持
	if loaded.Habits[0].ID != "habit-1" || loaded.Habits[1].ID != "habit-2" {
		t.Fatalf("unexpected habit order: %s, %s", loaded.Habits[0].ID, loaded.Habits[1].ID)
	}

	first := loaded.Habits[0]
	if len(first.Frequency) != 3 || first.Frequency[0] != time.Monday {
		t.Fatalf("unexpected frequency: %v", first.Frequency)
	}

	log, ok := loaded.Logs[day]
	if !ok {
		t.Fatalf("expected log for %s, got keys %v", day, loaded.Logs)
	}

	if log.Date != day {
		t.Fatalf("log date mismatch: %s != %s", log.Date, day)
	}

	if !log.Completed("habit-1") || log.SleepHours != 7.5 {
		t.Fatalf("unexpected log: %+v", log)
	}

	if got := log.CompletedAt["habit-1"]; !got.Equal(completedAt) {
		t.Fatalf("expected completion time %v, got %v", completedAt, got)
	}
}

func TestStateServiceSaveEmptyState(t *testing.T) {
	cleanup := setupStateTestDB(t)
	defer cleanup()

	svc := NewStateService(db.DB)

	// 全新安装：还没有任何习惯时也必须能落盘（改名、记录睡眠都走这条路）
	state := engine.NewAppState(time.Now())
	state.Profile.Name = "小明"
	if err := svc.Save(state); err != nil {
		t.Fatalf("Save of empty state returned error: %v", err)
	}

	// 有数据后保存空快照同样要成功，并清掉所有习惯与日志
	day := engine.NewDay(2025, time.March, 10)
	state.Habits = []engine.Habit{{ID: "h1", Title: "晨跑", Category: "Health", Frequency: engine.EveryDay()}}
	state.Logs = map[engine.Day]engine.DailyLog{day: {Date: day, CompletedHabitIDs: []string{"h1"}}}
	if err := svc.Save(state); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	state.Habits = nil
	state.Logs = map[engine.Day]engine.DailyLog{}
	if err := svc.Save(state); err != nil {
		t.Fatalf("Save back to empty returned error: %v", err)
	}

	loaded, err := svc.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded.Habits) != 0 || len(loaded.Logs) != 0 {
		t.Fatalf("expected pristine state, got %d habits %d logs", len(loaded.Habits), len(loaded.Logs))
	}
	if loaded.Profile.Name != "小明" {
		t.Fatalf("expected profile to survive, got %+v", loaded.Profile)
	}
}

func TestStateServiceSavePrunesLogs(t *testing.T) {
	cleanup := setupStateTestDB(t)
	defer cleanup()

	svc := NewStateService(db.DB)

	keep := engine.NewDay(2025, time.March, 11)
	drop := engine.NewDay(2025, time.March, 10)

	state := engine.NewAppState(time.Now())
	state.Habits = []engine.Habit{{ID: "h1", Title: "晨跑", Category: "Health", Frequency: engine.EveryDay()}}
	state.Logs = map[engine.Day]engine.DailyLog{
		keep: {Date: keep, CompletedHabitIDs: []string{"h1"}},
		drop: {Date: drop, CompletedHabitIDs: []string{"h1"}},
	}
	if err := svc.Save(state); err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}

	delete(state.Logs, drop)
	if err := svc.Save(state); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	loaded, err := svc.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded.Logs) != 1 {
		t.Fatalf("expected stale log to be pruned, got %v", loaded.Logs)
	}
	if _, ok := loaded.Logs[keep]; !ok {
		t.Fatalf("expected log for %s to survive, got %v", keep, loaded.Logs)
	}

	// 同一天之后还能重新写入（唯一索引不被软删行占用）
	state.Logs[drop] = engine.DailyLog{Date: drop, SleepHours: 8}
	if err := svc.Save(state); err != nil {
		t.Fatalf("re-save of pruned date returned error: %v", err)
	}
	loaded, err = svc.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if log := loaded.Logs[drop]; log.SleepHours != 8 {
		t.Fatalf("expected re-created log for %s, got %+v", drop, log)
	}
}

func TestStateServiceSaveIsReplacing(t *testing.T) {
	cleanup := setupStateTestDB(t)
	defer cleanup()

	svc := NewStateService(db.DB)

	state := engine.NewAppState(time.Now())
	state.Habits = []engine.Habit{
		{ID: "keep", Title: "喝水", Category: "Health", Frequency: engine.EveryDay()},
		{ID: "drop", Title: "熬夜", Category: "Other", Frequency: engine.EveryDay()},
	}
	if err := svc.Save(state); err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}

	state.Habits = state.Habits[:1]
	if err := svc.Save(state); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	loaded, err := svc.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if len(loaded.Habits) != 1 || loaded.Habits[0].ID != "keep" {
		t.Fatalf("expected removed habit to be pruned, got %+v", loaded.Habits)
	}

	// 软删除：记录仍在表中，便于历史日志追溯
	var total int64
	if err := db.DB.Unscoped().Model(&db.Habit{}).Count(&total).Error; err != nil {
		t.Fatalf("count habits: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected soft-deleted habit to remain, got %d rows", total)
	}
}
