package engine

import (
	"slices"
	"time"
)

// DueOn 判断习惯在给定星期是否排期。
// Frequency 为空表示任何一天都不排期，连胜计算会把所有日子当作跳过处理。
func (h Habit) DueOn(weekday time.Weekday) bool {
	return slices.Contains(h.Frequency, weekday)
}

// EveryDay 返回覆盖整周的频率集合，是创建习惯和历史数据回填的默认值。
func EveryDay() []time.Weekday {
	return []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
}
