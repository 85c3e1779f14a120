package engine

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDayArithmetic(t *testing.T) {
	day := NewDay(2024, time.March, 1)

	if got := day.Prev(); got.String() != "2024-02-29" {
		t.Fatalf("expected leap-day predecessor, got %s", got)
	}

	if got := NewDay(2023, time.December, 31).Next(); got.String() != "2024-01-01" {
		t.Fatalf("expected year rollover, got %s", got)
	}

	if !day.Prev().Before(day) || !day.Next().After(day) {
		t.Fatal("ordering is inconsistent")
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-05-08")
	if err != nil {
		t.Fatalf("ParseDay returned error: %v", err)
	}
	if day.Weekday() != time.Wednesday {
		t.Fatalf("expected Wednesday, got %v", day.Weekday())
	}

	if _, err := ParseDay("08/05/2024"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestDayAsJSONMapKey(t *testing.T) {
	logs := map[Day]DailyLog{
		NewDay(2024, 5, 8): {Date: NewDay(2024, 5, 8), CompletedHabitIDs: []string{"h1"}, SleepHours: 8},
	}

	encoded, err := json.Marshal(logs)
	if err != nil {
		t.Fatalf("marshal returned error: %v", err)
	}

	var decoded map[Day]DailyLog
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal returned error: %v", err)
	}

	log, ok := decoded[NewDay(2024, 5, 8)]
	if !ok {
		t.Fatal("expected day key to round-trip")
	}
	if log.SleepHours != 8 || len(log.CompletedHabitIDs) != 1 {
		t.Fatalf("unexpected log after round-trip: %+v", log)
	}
}
