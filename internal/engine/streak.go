package engine

// maxStreakLookbackDays 限制回溯天数，保证稀疏历史上的计算必然终止。
const maxStreakLookbackDays = 365

// CurrentStreak 从 asOf 起向过去逐日回溯，统计按排期连续完成的次数。
//
// 规则：
//   - 未排期的日子是透明的：既不计数也不中断；
//   - 排期且完成：计数加一；
//   - 排期未完成且该日就是 asOf：当天尚未结束，不中断，继续向前扫描；
//   - 排期未完成且在 asOf 之前：连胜真正断裂，停止扫描。
//
// 朴素的"连续日历日计数"会在非排期日错误断掉连胜，这里必须按排期跳过。
func CurrentStreak(logs map[Day]DailyLog, habit Habit, asOf Day) int {
	streak := 0
	day := asOf

	for i := 0; i < maxStreakLookbackDays; i++ {
		if !habit.DueOn(day.Weekday()) {
			day = day.Prev()
			continue
		}

		log, ok := logs[day]
		switch {
		case ok && log.Completed(habit.ID):
			streak++
		case i == 0:
			// 今天还没完成不算断，只是不计数
		default:
			return streak
		}

		day = day.Prev()
	}

	return streak
}

// LongestStreak 返回回溯窗口内出现过的最长连胜。
func LongestStreak(logs map[Day]DailyLog, habit Habit, asOf Day) int {
	longest := 0
	run := 0
	day := asOf

	for i := 0; i < maxStreakLookbackDays; i++ {
		if !habit.DueOn(day.Weekday()) {
			day = day.Prev()
			continue
		}

		log, ok := logs[day]
		if ok && log.Completed(habit.ID) {
			run++
			if run > longest {
				longest = run
			}
		} else if i != 0 {
			run = 0
		}

		day = day.Prev()
	}

	return longest
}

// CompletionRate 统计 [from, to] 区间内排期日的完成比例，无排期日时返回 0。
func CompletionRate(logs map[Day]DailyLog, habit Habit, from, to Day) float64 {
	if to.Before(from) {
		return 0
	}

	due := 0
	done := 0
	for day := from; !day.After(to); day = day.Next() {
		if !habit.DueOn(day.Weekday()) {
			continue
		}
		due++
		if log, ok := logs[day]; ok && log.Completed(habit.ID) {
			done++
		}
	}

	if due == 0 {
		return 0
	}
	return float64(done) / float64(due)
}
