package service

import (
	"fmt"
	"time"

	"github.com/looptrack/internal/engine"
	"gorm.io/gorm"
)

// DueReminder 描述一条应当在当前分钟提醒的习惯。
type DueReminder struct {
	HabitID      string `json:"habit_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon"`
	ReminderTime string `json:"reminder_time"`
}

// ReminderService 只负责"何时该提醒"的判定，不负责任何推送渠道。
// 判定条件：提醒时间命中当前分钟、习惯当天有排期、当天尚未完成。
type ReminderService struct {
	states *StateService
}

// NewReminderService 构造 ReminderService
func NewReminderService(gdb *gorm.DB) *ReminderService {
	return &ReminderService{states: NewStateService(gdb)}
}

// DueAt 返回 now 所在分钟需要提醒的习惯列表，保持习惯的展示顺序。
func (s *ReminderService) DueAt(now time.Time) ([]DueReminder, error) {
	state, err := s.states.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	minute := now.Format("15:04")
	today := engine.DayOf(now)
	log := state.LogFor(today)

	var due []DueReminder
	for _, habit := range state.Habits {
		if habit.ReminderTime != minute {
			continue
		}
		if !habit.DueOn(today.Weekday()) {
			continue
		}
		if log.Completed(habit.ID) {
			continue
		}
		due = append(due, DueReminder{
			HabitID:      habit.ID,
			Title:        habit.Title,
			Description:  habit.Description,
			Icon:         habit.Icon,
			ReminderTime: habit.ReminderTime,
		})
	}

	return due, nil
}
