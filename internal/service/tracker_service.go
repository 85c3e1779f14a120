package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/looptrack/internal/engine"
	"gorm.io/gorm"
)

// ErrHabitNotFound 在指定习惯不存在时返回
var ErrHabitNotFound = errors.New("habit not found")

// TrackerService 编排打卡事务：加载状态 → 引擎计算 → 整体写回。
// 引擎假定收到的是一致的先前状态且不合并并发差异，
// 因此这里用互斥锁把所有写操作串行化（快速连点只会依次切换两次）。
type TrackerService struct {
	states  *StateService
	catalog []engine.Badge
	mu      sync.Mutex
}

// NewTrackerService 构造 TrackerService，使用内置徽章目录。
func NewTrackerService(gdb *gorm.DB) *TrackerService {
	return &TrackerService{
		states:  NewStateService(gdb),
		catalog: engine.DefaultBadgeCatalog,
	}
}

// State 返回当前完整应用状态的快照。
func (s *TrackerService) State() (engine.AppState, error) {
	return s.states.Load()
}

// Catalog 返回徽章目录。
func (s *TrackerService) Catalog() []engine.Badge {
	return s.catalog
}

// Toggle 切换习惯在指定日期的完成状态并持久化新状态。
// 习惯不存在时返回 ErrHabitNotFound，不改动任何数据。
func (s *TrackerService) Toggle(habitID string, date engine.Day) (engine.AppState, engine.ToggleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.states.Load()
	if err != nil {
		return engine.AppState{}, engine.ToggleResult{}, fmt.Errorf("load state: %w", err)
	}

	next, result := engine.ToggleCompletion(state, s.catalog, habitID, date, time.Now())
	if !result.Found {
		return state, result, ErrHabitNotFound
	}

	if err := s.states.Save(next); err != nil {
		return engine.AppState{}, engine.ToggleResult{}, fmt.Errorf("save state: %w", err)
	}

	return next, result, nil
}

// SetSleep 更新指定日期的睡眠时长并持久化。
func (s *TrackerService) SetSleep(date engine.Day, hours float64) (engine.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.states.Load()
	if err != nil {
		return engine.AppState{}, fmt.Errorf("load state: %w", err)
	}

	next := engine.SetSleepHours(state, date, hours)
	if err := s.states.Save(next); err != nil {
		return engine.AppState{}, fmt.Errorf("save state: %w", err)
	}

	return next, nil
}
