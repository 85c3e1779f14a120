package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/looptrack/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrHabitTitleRequired 当标题为空时返回
	ErrHabitTitleRequired = errors.New("habit title is required")
	// ErrHabitInvalidFrequency 当排期为空或包含非法星期时返回
	ErrHabitInvalidFrequency = errors.New("invalid habit frequency configuration")
	// ErrHabitInvalidCategory 当分类不在白名单内时返回
	ErrHabitInvalidCategory = errors.New("invalid habit category")
	// ErrHabitInvalidReminder 当提醒时间不是 HH:MM 格式时返回
	ErrHabitInvalidReminder = errors.New("invalid habit reminder time")
)

// Categories 是固定的习惯分类白名单。
var Categories = []string{"Health", "Work", "Study", "Finance", "Mindfulness", "Other"}

const (
	defaultHabitIcon  = "💧"
	defaultHabitColor = "#007AFF"
)

// HabitService 负责 Habit 数据的增删改查
// 主要用于管理接口逻辑，保持与 handler 解耦；
// 进度/积分相关的状态变更一律走 TrackerService，不在这里处理
type HabitService struct {
	db *gorm.DB
}

// HabitInput 定义创建/更新习惯时可配置字段
// Frequency 为排期的星期集合（0=周日..6=周六），必须非空
type HabitInput struct {
	Title        string
	Description  string
	Icon         string
	Color        string
	Category     string
	Frequency    []int
	ReminderTime string
}

// NewHabitService 构造 HabitService
func NewHabitService(gdb *gorm.DB) *HabitService {
	return &HabitService{db: gdb}
}

// List 返回习惯集合，按用户自定义顺序排列
func (s *HabitService) List() ([]db.Habit, error) {
	var habits []db.Habit
	if err := s.db.Order("position ASC, created_at ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// Get 根据 ID 获取习惯
func (s *HabitService) Get(id string) (*db.Habit, error) {
	var habit db.Habit
	if err := s.db.Where("id = ?", id).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return &habit, nil
}

// Create 新建习惯，生成不可变的 uuid 主键
func (s *HabitService) Create(input HabitInput) (*db.Habit, error) {
	if err := validateHabitInput(input); err != nil {
		return nil, err
	}

	frequency, err := json.Marshal(normalizeFrequency(input.Frequency))
	if err != nil {
		return nil, fmt.Errorf("encode frequency: %w", err)
	}

	var position int64
	if err := s.db.Model(&db.Habit{}).Count(&position).Error; err != nil {
		return nil, fmt.Errorf("count habits: %w", err)
	}

	habit := db.Habit{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Icon:         defaultString(input.Icon, defaultHabitIcon),
		Color:        defaultString(input.Color, defaultHabitColor),
		Category:     strings.TrimSpace(input.Category),
		Frequency:    frequency,
		ReminderTime: strings.TrimSpace(input.ReminderTime),
		Position:     int(position),
	}

	if err := s.db.Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return &habit, nil
}

// Update 更新习惯的可编辑字段，ID 与创建时间保持不变
func (s *HabitService) Update(id string, input HabitInput) (*db.Habit, error) {
	if err := validateHabitInput(input); err != nil {
		return nil, err
	}

	var existing db.Habit
	if err := s.db.Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("find habit: %w", err)
	}

	frequency, err := json.Marshal(normalizeFrequency(input.Frequency))
	if err != nil {
		return nil, fmt.Errorf("encode frequency: %w", err)
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Description = strings.TrimSpace(input.Description)
	existing.Icon = defaultString(input.Icon, existing.Icon)
	existing.Color = defaultString(input.Color, existing.Color)
	existing.Category = strings.TrimSpace(input.Category)
	existing.Frequency = frequency
	existing.ReminderTime = strings.TrimSpace(input.ReminderTime)

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return &existing, nil
}

// Delete 删除习惯。历史日志中对该习惯的引用保留，不做追溯清洗。
func (s *HabitService) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&db.Habit{})
	if result.Error != nil {
		return fmt.Errorf("delete habit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

// Reorder 按给定的 id 顺序重排习惯，未出现在列表中的保持原相对顺序排在末尾。
func (s *HabitService) Reorder(orderedIDs []string) error {
	habits, err := s.List()
	if err != nil {
		return err
	}

	position := 0
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range orderedIDs {
			if err := tx.Model(&db.Habit{}).Where("id = ?", id).Update("position", position).Error; err != nil {
				return fmt.Errorf("reorder habit %s: %w", id, err)
			}
			position++
		}
		for _, habit := range habits {
			if slices.Contains(orderedIDs, habit.ID) {
				continue
			}
			if err := tx.Model(&db.Habit{}).Where("id = ?", habit.ID).Update("position", position).Error; err != nil {
				return fmt.Errorf("reorder habit %s: %w", habit.ID, err)
			}
			position++
		}
		return nil
	})
}

func validateHabitInput(input HabitInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrHabitTitleRequired
	}

	if len(input.Frequency) == 0 {
		return fmt.Errorf("%w: at least one weekday is required", ErrHabitInvalidFrequency)
	}
	for _, day := range input.Frequency {
		if day < 0 || day > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrHabitInvalidFrequency, day)
		}
	}

	category := strings.TrimSpace(input.Category)
	if !slices.Contains(Categories, category) {
		return fmt.Errorf("%w: %s", ErrHabitInvalidCategory, category)
	}

	if reminder := strings.TrimSpace(input.ReminderTime); reminder != "" {
		if _, err := time.Parse("15:04", reminder); err != nil {
			return fmt.Errorf("%w: %s", ErrHabitInvalidReminder, reminder)
		}
	}

	return nil
}

// normalizeFrequency 去重并升序排列星期集合，保证存储形态稳定。
func normalizeFrequency(days []int) []int {
	unique := make([]int, 0, len(days))
	for _, day := range days {
		if day < 0 || day > 6 {
			continue
		}
		if !slices.Contains(unique, day) {
			unique = append(unique, day)
		}
	}
	slices.Sort(unique)
	return unique
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
