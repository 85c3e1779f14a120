package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/looptrack/internal/engine"
	"github.com/looptrack/internal/service"
)

// ToggleHabit 切换习惯在指定日期的完成状态，返回本次结算结果。
func (a *API) ToggleHabit(c *gin.Context) {
	var payload struct {
		Date string `json:"date"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	day, err := parseDayOrToday(payload.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	state, result, err := a.tracker.Toggle(c.Param("id"), day)
	if err != nil {
		if errors.Is(err, service.ErrHabitNotFound) {
			respondError(c, http.StatusNotFound, "习惯不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "打卡失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  toggleResultView(result),
		"profile": profileView(state.Profile),
		"log": gin.H{
			"date":                day,
			"completed_habit_ids": state.LogFor(day).CompletedHabitIDs,
			"sleep_hours":         state.LogFor(day).SleepHours,
		},
	})
}

// SetSleep 记录指定日期的睡眠时长。
func (a *API) SetSleep(c *gin.Context) {
	day, err := parseDayParam(c, "date")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	var payload struct {
		Hours float64 `json:"hours"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	state, err := a.tracker.SetSleep(day, payload.Hours)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "记录睡眠失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        day,
		"sleep_hours": state.LogFor(day).SleepHours,
	})
}

func toggleResultView(result engine.ToggleResult) gin.H {
	view := gin.H{
		"completed":    result.Completed,
		"points_delta": result.PointsDelta,
		"streak":       result.Streak,
		"streak_bonus": result.StreakBonus,
		"leveled_up":   result.LeveledUp,
		"new_level":    result.NewLevel,
	}
	if len(result.NewBadges) > 0 {
		badges := make([]gin.H, 0, len(result.NewBadges))
		for _, badge := range result.NewBadges {
			badges = append(badges, gin.H{
				"id":          badge.ID,
				"name":        badge.Name,
				"description": badge.Description,
				"icon":        badge.Icon,
				"color":       badge.Color,
			})
		}
		view["new_badges"] = badges
	}
	return view
}
