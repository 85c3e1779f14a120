package service

import (
	"bytes"
	"cmp"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/looptrack/internal/engine"
	"gorm.io/gorm"
)

// ErrInvalidBackup 在导入文件结构不合法时返回；非法文件在引擎接触数据前即被拒绝
var ErrInvalidBackup = errors.New("invalid backup document")

// backupVersion 是当前备份格式版本。旧版本文件缺失的新字段按默认值加载。
const backupVersion = 1

// BackupDocument 是对外的备份/恢复格式：单个 JSON 文档，
// logs 按 YYYY-MM-DD 作 key。格式保持稳定并向前兼容。
type BackupDocument struct {
	Version    int                            `json:"version"`
	ExportedAt time.Time                      `json:"exported_at"`
	Profile    engine.UserProfile             `json:"profile"`
	Habits     []engine.Habit                 `json:"habits"`
	Logs       map[engine.Day]engine.DailyLog `json:"logs"`
}

// ExportService 负责备份导出与导入，以及日志的 CSV 扁平导出。
type ExportService struct {
	states *StateService
}

// NewExportService 构造 ExportService
func NewExportService(gdb *gorm.DB) *ExportService {
	return &ExportService{states: NewStateService(gdb)}
}

// ExportJSON 把当前状态序列化为备份文档。
func (s *ExportService) ExportJSON() ([]byte, error) {
	state, err := s.states.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	doc := BackupDocument{
		Version:    backupVersion,
		ExportedAt: time.Now(),
		Profile:    state.Profile,
		Habits:     state.Habits,
		Logs:       state.Logs,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// ImportJSON 校验并导入备份文档，整体替换当前状态。
// 旧版本导出的习惯可能缺失排期/分类，这里按迁移默认值回填，
// 引擎永远不会见到未填充的字段。
func (s *ExportService) ImportJSON(data []byte) (engine.AppState, error) {
	var doc BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return engine.AppState{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	if err := validateBackup(doc); err != nil {
		return engine.AppState{}, err
	}

	state := engine.AppState{
		Profile: doc.Profile,
		Habits:  doc.Habits,
		Logs:    doc.Logs,
	}
	migrateImportedState(&state)

	if err := s.states.Save(state); err != nil {
		return engine.AppState{}, fmt.Errorf("save imported state: %w", err)
	}
	return state, nil
}

// ExportCSV 把活动日志导出为按日期倒序的扁平表：
// 日期、睡眠、完成总数，以及每个习惯一列的完成标记。
func (s *ExportService) ExportCSV() ([]byte, error) {
	state, err := s.states.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	header := []string{"date", "sleep_hours", "total_completed"}
	for _, habit := range state.Habits {
		header = append(header, habit.Title)
	}

	days := make([]engine.Day, 0, len(state.Logs))
	for day := range state.Logs {
		days = append(days, day)
	}
	// 日期倒序
	slices.SortFunc(days, func(a, b engine.Day) int {
		return cmp.Compare(b.String(), a.String())
	})

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, day := range days {
		log := state.Logs[day]
		row := []string{
			day.String(),
			strconv.FormatFloat(log.SleepHours, 'f', -1, 64),
			strconv.Itoa(len(log.CompletedHabitIDs)),
		}
		for _, habit := range state.Habits {
			if log.Completed(habit.ID) {
				row = append(row, "DONE")
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func validateBackup(doc BackupDocument) error {
	if doc.Habits == nil {
		return fmt.Errorf("%w: missing habits", ErrInvalidBackup)
	}

	seen := make(map[string]struct{}, len(doc.Habits))
	for _, habit := range doc.Habits {
		if habit.ID == "" {
			return fmt.Errorf("%w: habit without id", ErrInvalidBackup)
		}
		if _, dup := seen[habit.ID]; dup {
			return fmt.Errorf("%w: duplicate habit id %s", ErrInvalidBackup, habit.ID)
		}
		seen[habit.ID] = struct{}{}
	}

	for day, log := range doc.Logs {
		if !log.Date.IsZero() && log.Date != day {
			return fmt.Errorf("%w: log key %s does not match date %s", ErrInvalidBackup, day, log.Date)
		}
	}

	return nil
}

// migrateImportedState 对导入数据执行与存储层相同的版本迁移与兜底修正。
func migrateImportedState(state *engine.AppState) {
	for i := range state.Habits {
		if len(state.Habits[i].Frequency) == 0 {
			state.Habits[i].Frequency = engine.EveryDay()
		}
		if state.Habits[i].Category == "" {
			state.Habits[i].Category = "Health"
		}
	}

	if state.Profile.Points < 0 {
		state.Profile.Points = 0
	}
	state.Profile.Level = engine.LevelForPoints(state.Profile.Points)
	if state.Profile.UnlockedBadges == nil {
		state.Profile.UnlockedBadges = []string{}
	}

	if state.Logs == nil {
		state.Logs = map[engine.Day]engine.DailyLog{}
	}
	for day, log := range state.Logs {
		if log.Date.IsZero() {
			log.Date = day
		}
		if log.CompletedHabitIDs == nil {
			log.CompletedHabitIDs = []string{}
		}
		state.Logs[day] = log
	}
}
