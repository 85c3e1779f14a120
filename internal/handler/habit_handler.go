package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/looptrack/internal/db"
	"github.com/looptrack/internal/service"
)

type habitPayload struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	Category     string `json:"category"`
	Frequency    []int  `json:"frequency"`
	ReminderTime string `json:"reminder_time"`
}

func (p habitPayload) toInput() service.HabitInput {
	return service.HabitInput{
		Title:        p.Title,
		Description:  p.Description,
		Icon:         p.Icon,
		Color:        p.Color,
		Category:     p.Category,
		Frequency:    p.Frequency,
		ReminderTime: p.ReminderTime,
	}
}

// ListHabits 返回习惯列表 JSON
func (a *API) ListHabits(c *gin.Context) {
	habits, err := a.habits.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取习惯列表失败")
		return
	}

	items := make([]gin.H, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitRecordView(habit))
	}

	c.JSON(http.StatusOK, gin.H{"habits": items, "categories": service.Categories})
}

// GetHabit 返回单个习惯详情
func (a *API) GetHabit(c *gin.Context) {
	habit, err := a.habits.Get(c.Param("id"))
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitRecordView(*habit)})
}

// CreateHabit 创建习惯
func (a *API) CreateHabit(c *gin.Context) {
	var payload habitPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	habit, err := a.habits.Create(payload.toInput())
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"habit": habitRecordView(*habit)})
}

// UpdateHabit 更新习惯
func (a *API) UpdateHabit(c *gin.Context) {
	var payload habitPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	habit, err := a.habits.Update(c.Param("id"), payload.toInput())
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitRecordView(*habit)})
}

// DeleteHabit 删除习惯
func (a *API) DeleteHabit(c *gin.Context) {
	if err := a.habits.Delete(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrHabitNotFound) {
			respondError(c, http.StatusNotFound, "习惯不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除习惯失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ReorderHabits 按给定顺序重排习惯
func (a *API) ReorderHabits(c *gin.Context) {
	var payload struct {
		OrderedIDs []string `json:"ordered_ids"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if err := a.habits.Reorder(payload.OrderedIDs); err != nil {
		respondError(c, http.StatusInternalServerError, "调整排序失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reordered": true})
}

func habitRecordView(habit db.Habit) gin.H {
	var frequency []int
	if len(habit.Frequency) > 0 {
		// 存储层保证是合法 JSON 数组
		_ = json.Unmarshal(habit.Frequency, &frequency)
	}

	item := gin.H{
		"id":        habit.ID,
		"title":     habit.Title,
		"icon":      habit.Icon,
		"color":     habit.Color,
		"category":  habit.Category,
		"frequency": frequency,
		"position":  habit.Position,
	}
	if habit.Description != "" {
		item["description"] = habit.Description
	}
	if habit.ReminderTime != "" {
		item["reminder_time"] = habit.ReminderTime
	}
	if !habit.CreatedAt.IsZero() {
		item["created_at"] = habit.CreatedAt.Format(time.RFC3339)
	}
	return item
}

func handleHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHabitNotFound):
		respondError(c, http.StatusNotFound, "习惯不存在")
	case errors.Is(err, service.ErrHabitTitleRequired):
		respondError(c, http.StatusBadRequest, "请填写习惯标题")
	case errors.Is(err, service.ErrHabitInvalidFrequency):
		respondError(c, http.StatusBadRequest, "排期配置无效")
	case errors.Is(err, service.ErrHabitInvalidCategory):
		respondError(c, http.StatusBadRequest, "分类不在可选范围内")
	case errors.Is(err, service.ErrHabitInvalidReminder):
		respondError(c, http.StatusBadRequest, "提醒时间格式应为 HH:MM")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
