package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/looptrack/internal/engine"
)

// GetState 返回面板所需的完整状态快照：
// 档案（含等级进度）、习惯（含连胜与当日状态）、当天的日志。
func (a *API) GetState(c *gin.Context) {
	day, err := parseDayOrToday(c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	state, err := a.tracker.State()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载应用状态失败")
		return
	}

	log := state.LogFor(day)

	habits := make([]gin.H, 0, len(state.Habits))
	for _, habit := range state.Habits {
		habits = append(habits, gin.H{
			"habit":           habitView(habit),
			"streak":          engine.CurrentStreak(state.Logs, habit, day),
			"due_today":       habit.DueOn(day.Weekday()),
			"completed_today": log.Completed(habit.ID),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    day,
		"profile": profileView(state.Profile),
		"habits":  habits,
		"log": gin.H{
			"date":                day,
			"completed_habit_ids": log.CompletedHabitIDs,
			"sleep_hours":         log.SleepHours,
		},
	})
}

func habitView(habit engine.Habit) gin.H {
	frequency := make([]int, 0, len(habit.Frequency))
	for _, weekday := range habit.Frequency {
		frequency = append(frequency, int(weekday))
	}

	view := gin.H{
		"id":        habit.ID,
		"title":     habit.Title,
		"icon":      habit.Icon,
		"color":     habit.Color,
		"category":  habit.Category,
		"frequency": frequency,
	}
	if habit.Description != "" {
		view["description"] = habit.Description
	}
	if habit.ReminderTime != "" {
		view["reminder_time"] = habit.ReminderTime
	}
	if !habit.CreatedAt.IsZero() {
		view["created_at"] = habit.CreatedAt.Format(time.RFC3339)
	}
	return view
}

func profileView(profile engine.UserProfile) gin.H {
	view := gin.H{
		"name":            profile.Name,
		"avatar":          profile.Avatar,
		"is_onboarded":    profile.IsOnboarded,
		"points":          profile.Points,
		"level":           profile.Level,
		"level_title":     engine.TitleForPoints(profile.Points),
		"level_progress":  engine.ProgressToNext(profile.Points),
		"unlocked_badges": profile.UnlockedBadges,
	}
	if !profile.JoinedDate.IsZero() {
		view["joined_date"] = profile.JoinedDate.Format(time.RFC3339)
	}
	return view
}
