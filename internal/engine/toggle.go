package engine

import (
	"slices"
	"time"
)

const (
	// PointsPerCompletion 是单次完成/取消的基础分值。
	PointsPerCompletion = 10
	// StreakBonusPoints 是连胜奖励分值。
	StreakBonusPoints = 5
	// StreakBonusThreshold 是触发连胜奖励的连胜长度。
	StreakBonusThreshold = 3
)

// ToggleResult 汇报一次打卡事务的可观察结果。
// LeveledUp / NewBadges 供调用方播放庆祝效果等，忽略它们不影响状态正确性。
type ToggleResult struct {
	Found       bool
	Completed   bool
	PointsDelta int
	Streak      int
	StreakBonus bool
	LeveledUp   bool
	NewLevel    int
	NewBadges   []Badge
}

// ToggleCompletion 切换习惯在指定日期的完成状态，返回完整的新状态。
//
// 事务步骤：惰性建日志 → 翻转完成集合 → 结算积分（含连胜奖励，下限 0）→
// 重算等级 → 按更新后的状态评估徽章并合并。整个过程没有 I/O，
// 对良构输入是全函数；habitID 不存在时不改动积分，仅返回 Found=false。
//
// 取消完成只回放负的积分增量：等级是积分的纯函数所以可能随之下降，
// 但已解锁的徽章永不回收。
func ToggleCompletion(state AppState, catalog []Badge, habitID string, date Day, now time.Time) (AppState, ToggleResult) {
	habit, found := state.Habit(habitID)
	if !found {
		return state, ToggleResult{Found: false}
	}

	next := state.Clone()
	log := next.LogFor(date)

	result := ToggleResult{Found: true}

	if log.Completed(habitID) {
		log.CompletedHabitIDs = slices.DeleteFunc(log.CompletedHabitIDs, func(id string) bool {
			return id == habitID
		})
		delete(log.CompletedAt, habitID)
		result.Completed = false
		result.PointsDelta = -PointsPerCompletion
	} else {
		prevStreak := CurrentStreak(next.Logs, habit, date)

		log.CompletedHabitIDs = append(log.CompletedHabitIDs, habitID)
		if log.CompletedAt == nil {
			log.CompletedAt = make(map[string]time.Time, 1)
		}
		log.CompletedAt[habitID] = now
		next.Logs[date] = log

		result.Completed = true
		result.PointsDelta = PointsPerCompletion

		// 奖励只在连胜自下而上越过阈值的那一次发放：
		// 补记历史打卡可能让连胜一次跨越多天，同样只结算一次。
		newStreak := CurrentStreak(next.Logs, habit, date)
		result.Streak = newStreak
		if prevStreak < StreakBonusThreshold && newStreak >= StreakBonusThreshold {
			result.PointsDelta += StreakBonusPoints
			result.StreakBonus = true
		}
	}
	next.Logs[date] = log

	if !result.Completed {
		result.Streak = CurrentStreak(next.Logs, habit, date)
	}

	next.Profile.Points += result.PointsDelta
	if next.Profile.Points < 0 {
		next.Profile.Points = 0
	}

	oldLevel := next.Profile.Level
	next.Profile.Level = LevelForPoints(next.Profile.Points)
	result.NewLevel = next.Profile.Level
	result.LeveledUp = next.Profile.Level > oldLevel

	result.NewBadges = NewlyUnlocked(next, catalog)
	for _, badge := range result.NewBadges {
		next.Profile.UnlockedBadges = append(next.Profile.UnlockedBadges, badge.ID)
	}

	return next, result
}

// SetSleepHours 更新指定日期的睡眠时长，按需惰性创建日志，时长裁剪到 [0,24]。
func SetSleepHours(state AppState, date Day, hours float64) AppState {
	if hours < 0 {
		hours = 0
	}
	if hours > 24 {
		hours = 24
	}

	next := state.Clone()
	log := next.LogFor(date)
	log.SleepHours = hours
	next.Logs[date] = log
	return next
}
