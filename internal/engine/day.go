package engine

import (
	"fmt"
	"time"
)

// DayFormat 是日历日序列化使用的固定格式。
const DayFormat = "2006-01-02"

// Day 表示一个本地日历日，内部归一化为 UTC 零点，
// 因此可以直接比较、可作为 map key，跨月/跨年推算使用日历运算而非字符串比较。
type Day struct {
	t time.Time
}

// NewDay 通过年月日构造 Day。
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf 取 t 在其所在时区的日历日。
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// Today 返回 loc 时区下的今天，loc 为 nil 时使用本地时区。
func Today(loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return DayOf(time.Now().In(loc))
}

// ParseDay 解析 YYYY-MM-DD 格式的日历日。
func ParseDay(value string) (Day, error) {
	t, err := time.Parse(DayFormat, value)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", value, err)
	}
	return DayOf(t), nil
}

// IsZero 判断是否为零值。
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// Time 返回该日零点对应的 time.Time（UTC）。
func (d Day) Time() time.Time {
	return d.t
}

// Weekday 返回星期几，0=周日。
func (d Day) Weekday() time.Weekday {
	return d.t.Weekday()
}

// AddDays 返回偏移 n 天后的日历日。
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Prev 返回前一天。
func (d Day) Prev() Day {
	return d.AddDays(-1)
}

// Next 返回后一天。
func (d Day) Next() Day {
	return d.AddDays(1)
}

// Before 判断 d 是否早于 other。
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

// After 判断 d 是否晚于 other。
func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

// String 输出 YYYY-MM-DD。
func (d Day) String() string {
	return d.t.Format(DayFormat)
}

// MarshalText 实现 encoding.TextMarshaler，使 Day 可以作为 JSON map key。
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler。
func (d *Day) UnmarshalText(data []byte) error {
	parsed, err := ParseDay(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
