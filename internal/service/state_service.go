package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/looptrack/internal/db"
	"github.com/looptrack/internal/engine"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateService 是引擎与存储之间的持久化协作方：
// Load 把数据库中的档案/习惯/日志装配成一份完整的 engine.AppState，
// Save 在单个事务里整体写回。引擎本身不感知任何存储技术。
type StateService struct {
	db *gorm.DB
}

// NewStateService 构造 StateService
func NewStateService(gdb *gorm.DB) *StateService {
	return &StateService{db: gdb}
}

// Load 读取完整应用状态，没有存档时返回默认空状态。
func (s *StateService) Load() (engine.AppState, error) {
	state := engine.NewAppState(time.Now())

	var profile db.UserProfile
	if err := s.db.Order("id ASC").First(&profile).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.AppState{}, fmt.Errorf("load profile: %w", err)
		}
	} else {
		state.Profile = decodeProfile(profile)
	}

	var habits []db.Habit
	if err := s.db.Order("position ASC, created_at ASC").Find(&habits).Error; err != nil {
		return engine.AppState{}, fmt.Errorf("load habits: %w", err)
	}
	state.Habits = make([]engine.Habit, 0, len(habits))
	for _, record := range habits {
		habit, err := decodeHabit(record)
		if err != nil {
			return engine.AppState{}, fmt.Errorf("decode habit %s: %w", record.ID, err)
		}
		state.Habits = append(state.Habits, habit)
	}

	var logs []db.DailyLog
	if err := s.db.Order("log_date ASC").Find(&logs).Error; err != nil {
		return engine.AppState{}, fmt.Errorf("load daily logs: %w", err)
	}
	state.Logs = make(map[engine.Day]engine.DailyLog, len(logs))
	for _, record := range logs {
		log, err := decodeDailyLog(record)
		if err != nil {
			return engine.AppState{}, fmt.Errorf("decode daily log %s: %w", record.LogDate.Format(engine.DayFormat), err)
		}
		state.Logs[log.Date] = log
	}

	return state, nil
}

// Save 在单个事务里整体替换存储中的状态：
// 习惯按状态快照对齐（被移除的习惯软删除，历史日志保留引用），
// 快照之外的日志行被清除，保证导入备份后没有残留日志。
func (s *StateService) Save(state engine.AppState) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := saveProfile(tx, state.Profile); err != nil {
			return err
		}

		ids := make([]string, 0, len(state.Habits))
		for position, habit := range state.Habits {
			record, err := encodeHabit(habit, position)
			if err != nil {
				return fmt.Errorf("encode habit %s: %w", habit.ID, err)
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&record).Error; err != nil {
				return fmt.Errorf("save habit %s: %w", habit.ID, err)
			}
			ids = append(ids, habit.ID)
		}

		stale := tx.Model(&db.Habit{})
		if len(ids) > 0 {
			stale = stale.Where("id NOT IN ?", ids)
		} else {
			// 空快照也要能保存：gorm 拒绝无条件删除，显式放行
			stale = stale.Session(&gorm.Session{AllowGlobalUpdate: true})
		}
		if err := stale.Delete(&db.Habit{}).Error; err != nil {
			return fmt.Errorf("prune removed habits: %w", err)
		}

		dates := make([]time.Time, 0, len(state.Logs))
		for _, log := range state.Logs {
			record, err := encodeDailyLog(log)
			if err != nil {
				return fmt.Errorf("encode daily log %s: %w", log.Date, err)
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "log_date"}},
				DoUpdates: clause.AssignmentColumns([]string{"completed_habit_ids", "completed_at", "sleep_hours", "updated_at"}),
			}).Create(&record).Error; err != nil {
				return fmt.Errorf("save daily log %s: %w", log.Date, err)
			}
			dates = append(dates, log.Date.Time())
		}

		// 日志按日期唯一，硬删除避免软删行占住唯一索引
		staleLogs := tx.Unscoped()
		if len(dates) > 0 {
			staleLogs = staleLogs.Where("log_date NOT IN ?", dates)
		} else {
			staleLogs = staleLogs.Session(&gorm.Session{AllowGlobalUpdate: true})
		}
		if err := staleLogs.Delete(&db.DailyLog{}).Error; err != nil {
			return fmt.Errorf("prune removed daily logs: %w", err)
		}

		return nil
	})
}

func saveProfile(tx *gorm.DB, profile engine.UserProfile) error {
	badges, err := json.Marshal(profile.UnlockedBadges)
	if err != nil {
		return fmt.Errorf("encode badges: %w", err)
	}

	var existing db.UserProfile
	if err := tx.Order("id ASC").First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find profile: %w", err)
		}
		existing = db.UserProfile{}
	}

	existing.Name = profile.Name
	existing.Avatar = profile.Avatar
	existing.IsOnboarded = profile.IsOnboarded
	existing.Points = profile.Points
	existing.Level = profile.Level
	existing.JoinedDate = profile.JoinedDate
	existing.UnlockedBadges = badges

	if err := tx.Save(&existing).Error; err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func decodeProfile(record db.UserProfile) engine.UserProfile {
	profile := engine.UserProfile{
		Name:           record.Name,
		Avatar:         record.Avatar,
		IsOnboarded:    record.IsOnboarded,
		Points:         record.Points,
		Level:          record.Level,
		JoinedDate:     record.JoinedDate,
		UnlockedBadges: []string{},
	}

	if len(record.UnlockedBadges) > 0 {
		// 解析失败按空集合处理，不让一个坏字段拖垮整次加载
		var badges []string
		if err := json.Unmarshal(record.UnlockedBadges, &badges); err == nil && badges != nil {
			profile.UnlockedBadges = badges
		}
	}

	if profile.Points < 0 {
		profile.Points = 0
	}
	if profile.Level < 1 {
		profile.Level = engine.LevelForPoints(profile.Points)
	}

	return profile
}

func decodeHabit(record db.Habit) (engine.Habit, error) {
	habit := engine.Habit{
		ID:           record.ID,
		Title:        record.Title,
		Description:  record.Description,
		Icon:         record.Icon,
		Color:        record.Color,
		Category:     record.Category,
		ReminderTime: record.ReminderTime,
		CreatedAt:    record.CreatedAt,
	}

	var days []int
	if len(record.Frequency) > 0 {
		if err := json.Unmarshal(record.Frequency, &days); err != nil {
			return engine.Habit{}, fmt.Errorf("decode frequency: %w", err)
		}
	}
	habit.Frequency = make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			habit.Frequency = append(habit.Frequency, time.Weekday(d))
		}
	}

	return habit, nil
}

func encodeHabit(habit engine.Habit, position int) (db.Habit, error) {
	days := make([]int, 0, len(habit.Frequency))
	for _, d := range habit.Frequency {
		days = append(days, int(d))
	}
	frequency, err := json.Marshal(days)
	if err != nil {
		return db.Habit{}, fmt.Errorf("encode frequency: %w", err)
	}

	return db.Habit{
		ID:           habit.ID,
		Title:        habit.Title,
		Description:  habit.Description,
		Icon:         habit.Icon,
		Color:        habit.Color,
		Category:     habit.Category,
		Frequency:    frequency,
		ReminderTime: habit.ReminderTime,
		Position:     position,
		CreatedAt:    habit.CreatedAt,
	}, nil
}

func decodeDailyLog(record db.DailyLog) (engine.DailyLog, error) {
	log := engine.DailyLog{
		Date:              engine.DayOf(record.LogDate.UTC()),
		CompletedHabitIDs: []string{},
		SleepHours:        record.SleepHours,
	}

	if len(record.CompletedHabitIDs) > 0 {
		var ids []string
		if err := json.Unmarshal(record.CompletedHabitIDs, &ids); err != nil {
			return engine.DailyLog{}, fmt.Errorf("decode completed ids: %w", err)
		}
		if ids != nil {
			log.CompletedHabitIDs = ids
		}
	}

	if len(record.CompletedAt) > 0 {
		var times map[string]time.Time
		if err := json.Unmarshal(record.CompletedAt, &times); err != nil {
			return engine.DailyLog{}, fmt.Errorf("decode completion times: %w", err)
		}
		log.CompletedAt = times
	}

	return log, nil
}

func encodeDailyLog(log engine.DailyLog) (db.DailyLog, error) {
	ids, err := json.Marshal(log.CompletedHabitIDs)
	if err != nil {
		return db.DailyLog{}, fmt.Errorf("encode completed ids: %w", err)
	}

	record := db.DailyLog{
		LogDate:           log.Date.Time(),
		CompletedHabitIDs: ids,
		SleepHours:        log.SleepHours,
	}

	if len(log.CompletedAt) > 0 {
		times, err := json.Marshal(log.CompletedAt)
		if err != nil {
			return db.DailyLog{}, fmt.Errorf("encode completion times: %w", err)
		}
		record.CompletedAt = times
	}

	return record, nil
}
