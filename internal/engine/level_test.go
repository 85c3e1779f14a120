package engine

import "testing"

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		level  int
		title  string
	}{
		{0, 1, "Novice"},
		{99, 1, "Novice"},
		{100, 2, "Apprentice"},
		{299, 2, "Apprentice"},
		{300, 3, "Practitioner"},
		{599, 3, "Practitioner"},
		{600, 4, "Expert"},
		{1000, 5, "Master"},
		{2000, 6, "Grandmaster"},
		{5000, 7, "Legend"},
		{99999, 7, "Legend"},
	}

	for _, tc := range cases {
		if got := LevelForPoints(tc.points); got != tc.level {
			t.Fatalf("LevelForPoints(%d) = %d, want %d", tc.points, got, tc.level)
		}
		if got := TitleForPoints(tc.points); got != tc.title {
			t.Fatalf("TitleForPoints(%d) = %s, want %s", tc.points, got, tc.title)
		}
	}
}

func TestProgressToNext(t *testing.T) {
	if got := ProgressToNext(0); got != 0 {
		t.Fatalf("expected progress 0 at tier start, got %.4f", got)
	}

	if got := ProgressToNext(50); got != 0.5 {
		t.Fatalf("expected progress 0.5 midway to Apprentice, got %.4f", got)
	}

	// 100..300 区间内的 200 点应为一半
	if got := ProgressToNext(200); got != 0.5 {
		t.Fatalf("expected progress 0.5 midway to Practitioner, got %.4f", got)
	}

	if got := ProgressToNext(5000); got != 1.0 {
		t.Fatalf("expected progress 1.0 at top tier, got %.4f", got)
	}

	if got := ProgressToNext(12345); got != 1.0 {
		t.Fatalf("expected progress 1.0 beyond top tier, got %.4f", got)
	}
}
