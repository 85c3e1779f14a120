package engine

import (
	"slices"
	"time"
)

// UserProfile 描述用户档案与游戏化累计状态。
// Points 永不为负，Level 由 Points 推导后冗余保存，引擎是唯一写入方。
type UserProfile struct {
	Name           string    `json:"name"`
	Avatar         string    `json:"avatar"`
	IsOnboarded    bool      `json:"is_onboarded"`
	Points         int       `json:"points"`
	Level          int       `json:"level"`
	JoinedDate     time.Time `json:"joined_date"`
	UnlockedBadges []string  `json:"unlocked_badges"`
}

// HasBadge 判断徽章是否已解锁。
func (p UserProfile) HasBadge(id string) bool {
	return slices.Contains(p.UnlockedBadges, id)
}

// Habit 描述一个按周排期的习惯。
// Frequency 为计划执行的星期集合（0=周日..6=周六），创建后 ID 不可变。
type Habit struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Icon         string         `json:"icon"`
	Color        string         `json:"color"`
	Category     string         `json:"category"`
	Frequency    []time.Weekday `json:"frequency"`
	ReminderTime string         `json:"reminder_time,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// DailyLog 记录单个日历日的完成情况与睡眠时长。
// 某天没有 DailyLog 等价于该天没有任何记录。
// CompletedAt 记录每次完成的墙钟时间，供 early_bird/night_owl 等徽章按真实条件评估。
type DailyLog struct {
	Date              Day                  `json:"date"`
	CompletedHabitIDs []string             `json:"completed_habit_ids"`
	CompletedAt       map[string]time.Time `json:"completed_at,omitempty"`
	SleepHours        float64              `json:"sleep_hours"`
}

// Completed 判断指定习惯当天是否已完成。
func (l DailyLog) Completed(habitID string) bool {
	return slices.Contains(l.CompletedHabitIDs, habitID)
}

// AppState 是应用的聚合根：档案、习惯列表与按日历日索引的日志。
// 引擎的每个操作都接收一个 AppState 并返回一个全新的 AppState，
// 外部永远不会观察到部分更新的中间态。
type AppState struct {
	Profile UserProfile      `json:"profile"`
	Habits  []Habit          `json:"habits"`
	Logs    map[Day]DailyLog `json:"logs"`
}

// NewAppState 返回默认空状态，供持久层在没有存档时使用。
func NewAppState(now time.Time) AppState {
	return AppState{
		Profile: UserProfile{
			Avatar:         "🦊",
			Points:         0,
			Level:          1,
			JoinedDate:     now,
			UnlockedBadges: []string{},
		},
		Habits: []Habit{},
		Logs:   map[Day]DailyLog{},
	}
}

// Habit 按 ID 查找习惯，未找到时返回 (zero, false)。
func (s AppState) Habit(id string) (Habit, bool) {
	for _, h := range s.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}

// LogFor 返回指定日期的日志；不存在时返回带日期的空日志。
func (s AppState) LogFor(day Day) DailyLog {
	if log, ok := s.Logs[day]; ok {
		return log
	}
	return DailyLog{Date: day, CompletedHabitIDs: []string{}, SleepHours: 0}
}

// IsCompleted 判断习惯在指定日期是否完成。
func (s AppState) IsCompleted(habitID string, day Day) bool {
	return s.LogFor(day).Completed(habitID)
}

// Clone 深拷贝整个状态，事务在副本上修改后整体替换。
func (s AppState) Clone() AppState {
	out := AppState{
		Profile: s.Profile,
		Habits:  make([]Habit, len(s.Habits)),
		Logs:    make(map[Day]DailyLog, len(s.Logs)),
	}

	out.Profile.UnlockedBadges = slices.Clone(s.Profile.UnlockedBadges)

	for i, h := range s.Habits {
		cloned := h
		cloned.Frequency = slices.Clone(h.Frequency)
		out.Habits[i] = cloned
	}

	for day, log := range s.Logs {
		cloned := log
		cloned.CompletedHabitIDs = slices.Clone(log.CompletedHabitIDs)
		if log.CompletedAt != nil {
			cloned.CompletedAt = make(map[string]time.Time, len(log.CompletedAt))
			for id, at := range log.CompletedAt {
				cloned.CompletedAt[id] = at
			}
		}
		out.Logs[day] = cloned
	}

	return out
}
