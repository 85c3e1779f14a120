package service

import (
	"errors"
	"testing"
	"time"

	"github.com/looptrack/internal/db"
	"github.com/looptrack/internal/engine"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTrackerTestDB(t *testing.T) func() {
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

func createTrackerHabit(t *testing.T, title string) *db.Habit {
	t.Helper()
	habit, err := NewHabitService(db.DB).Create(HabitInput{
		Title:     title,
		Category:  "Health",
		Frequency: []int{0, 1, 2, 3, 4, 5, 6},
	})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	return habit
}

func TestTrackerToggleAwardsAndPersists(t *testing.T) {
	cleanup := setupTrackerTestDB(t)
	defer cleanup()

	habit := createTrackerHabit(t, "冥想")
	svc := NewTrackerService(db.DB)
	today := engine.Today(nil)

	state, result, err := svc.Toggle(habit.ID, today)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}

	if !result.Completed || result.PointsDelta != engine.PointsPerCompletion {
		t.Fatalf("unexpected result: %+v", result)
	}

	if state.Profile.Points != engine.PointsPerCompletion {
		t.Fatalf("expected %d points, got %d", engine.PointsPerCompletion, state.Profile.Points)
	}

	// 首次打卡解锁 first_step
	if !state.Profile.HasBadge("first_step") {
		t.Fatalf("expected first_step badge, got %v", state.Profile.UnlockedBadges)
	}

	// 新实例重新加载，确认已落库
	reloaded, err := NewTrackerService(db.DB).State()
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if !reloaded.IsCompleted(habit.ID, today) {
		t.Fatal("expected completion to persist")
	}
	if reloaded.Profile.Points != engine.PointsPerCompletion {
		t.Fatalf("expected persisted points, got %d", reloaded.Profile.Points)
	}
}

func TestTrackerToggleOffRevertsPoints(t *testing.T) {
	cleanup := setupTrackerTestDB(t)
	defer cleanup()

	habit := createTrackerHabit(t, "写日记")
	svc := NewTrackerService(db.DB)
	today := engine.Today(nil)

	if _, _, err := svc.Toggle(habit.ID, today); err != nil {
		t.Fatalf("first Toggle returned error: %v", err)
	}

	state, result, err := svc.Toggle(habit.ID, today)
	if err != nil {
		t.Fatalf("second Toggle returned error: %v", err)
	}

	if result.Completed {
		t.Fatal("expected un-completion")
	}

	if state.Profile.Points != 0 {
		t.Fatalf("expected points back to 0, got %d", state.Profile.Points)
	}

	if state.IsCompleted(habit.ID, today) {
		t.Fatal("expected habit to be un-completed")
	}
}

func TestTrackerToggleUnknownHabit(t *testing.T) {
	cleanup := setupTrackerTestDB(t)
	defer cleanup()

	svc := NewTrackerService(db.DB)
	_, _, err := svc.Toggle("no-such-habit", engine.Today(nil))
	if !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}

	// 不应落下任何状态
	state, err := svc.State()
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if state.Profile.Points != 0 || len(state.Logs) != 0 {
		t.Fatalf("expected untouched state, got %+v", state.Profile)
	}
}

func TestTrackerStreakBonusOnThirdDay(t *testing.T) {
	cleanup := setupTrackerTestDB(t)
	defer cleanup()

	habit := createTrackerHabit(t, "背单词")
	svc := NewTrackerService(db.DB)
	today := engine.Today(nil)

	var last engine.ToggleResult
	for i := 2; i >= 0; i-- {
		_, result, err := svc.Toggle(habit.ID, today.AddDays(-i))
		if err != nil {
			t.Fatalf("Toggle day -%d returned error: %v", i, err)
		}
		last = result
	}

	if last.Streak != 3 {
		t.Fatalf("expected streak 3, got %d", last.Streak)
	}

	if !last.StreakBonus {
		t.Fatal("expected streak bonus on third consecutive day")
	}

	state, err := svc.State()
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}

	want := 3*engine.PointsPerCompletion + engine.StreakBonusPoints
	if state.Profile.Points != want {
		t.Fatalf("expected %d points, got %d", want, state.Profile.Points)
	}
}

func TestTrackerSetSleep(t *testing.T) {
	cleanup := setupTrackerTestDB(t)
	defer cleanup()

	svc := NewTrackerService(db.DB)
	day := engine.NewDay(2025, time.June, 1)

	state, err := svc.SetSleep(day, 8.5)
	if err != nil {
		t.Fatalf("SetSleep returned error: %v", err)
	}

	if state.LogFor(day).SleepHours != 8.5 {
		t.Fatalf("unexpected sleep hours: %v", state.LogFor(day).SleepHours)
	}

	// 超出范围被截断
	state, err = svc.SetSleep(day, 30)
	if err != nil {
		t.Fatalf("SetSleep returned error: %v", err)
	}
	if state.LogFor(day).SleepHours != 24 {
		t.Fatalf("expected clamp to 24, got %v", state.LogFor(day).SleepHours)
	}
}
