package service

import (
	"fmt"

	"github.com/looptrack/internal/engine"
	"gorm.io/gorm"
)

// AnalyticsService 基于完整应用状态计算分析视图所需的数据。
// 所有计算都是只读的派生状态，直接复用引擎里的连胜/完成率函数。
type AnalyticsService struct {
	states *StateService
}

// NewAnalyticsService 构造 AnalyticsService
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{states: NewStateService(gdb)}
}

// DailyPoint 表示趋势图中单日的汇总。
type DailyPoint struct {
	Date       engine.Day `json:"date"`
	Completed  int        `json:"completed"`
	SleepHours float64    `json:"sleep_hours"`
}

// CategorySlice 表示分类占比图中的一块。
type CategorySlice struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// HabitSummary 汇总单个习惯的连胜与完成率。
type HabitSummary struct {
	HabitID        string  `json:"habit_id"`
	Title          string  `json:"title"`
	Icon           string  `json:"icon"`
	Color          string  `json:"color"`
	Category       string  `json:"category"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	CompletionRate float64 `json:"completion_rate"`
}

// Overview 是分析页的完整数据载荷。
type Overview struct {
	Week       []DailyPoint    `json:"week"`
	Categories []CategorySlice `json:"categories"`
	Habits     []HabitSummary  `json:"habits"`
}

// summaryWindowDays 是完成率统计的回看窗口。
const summaryWindowDays = 30

// BuildOverview 计算截至 asOf 的分析数据。
func (s *AnalyticsService) BuildOverview(asOf engine.Day) (*Overview, error) {
	state, err := s.states.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	overview := &Overview{
		Week:       weekSeries(state, asOf),
		Categories: categoryBreakdown(state),
		Habits:     make([]HabitSummary, 0, len(state.Habits)),
	}

	from := asOf.AddDays(-(summaryWindowDays - 1))
	for _, habit := range state.Habits {
		overview.Habits = append(overview.Habits, HabitSummary{
			HabitID:        habit.ID,
			Title:          habit.Title,
			Icon:           habit.Icon,
			Color:          habit.Color,
			Category:       habit.Category,
			CurrentStreak:  engine.CurrentStreak(state.Logs, habit, asOf),
			LongestStreak:  engine.LongestStreak(state.Logs, habit, asOf),
			CompletionRate: engine.CompletionRate(state.Logs, habit, from, asOf),
		})
	}

	return overview, nil
}

// weekSeries 取最近 7 天（含 asOf）的完成数与睡眠时长，缺失的日子补零。
func weekSeries(state engine.AppState, asOf engine.Day) []DailyPoint {
	points := make([]DailyPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := asOf.AddDays(-i)
		log := state.LogFor(day)
		points = append(points, DailyPoint{
			Date:       day,
			Completed:  len(log.CompletedHabitIDs),
			SleepHours: log.SleepHours,
		})
	}
	return points
}

// categoryBreakdown 按白名单顺序统计各分类下的习惯数量，跳过空分类。
func categoryBreakdown(state engine.AppState) []CategorySlice {
	counts := make(map[string]int)
	for _, habit := range state.Habits {
		category := habit.Category
		if category == "" {
			category = "Other"
		}
		counts[category]++
	}

	slices := make([]CategorySlice, 0, len(counts))
	for _, category := range Categories {
		if count, ok := counts[category]; ok {
			slices = append(slices, CategorySlice{Category: category, Count: count})
			delete(counts, category)
		}
	}
	// 白名单之外的历史分类排在末尾
	for category, count := range counts {
		slices = append(slices, CategorySlice{Category: category, Count: count})
	}
	return slices
}
