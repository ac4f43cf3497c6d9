// ABOUTME: Tests for habit streak computation
// ABOUTME: Table-driven coverage of consecutive runs, gaps, and duplicate days
package schedule

import (
	"testing"
	"time"

	"github.com/harperreed/daydash/models"
)

func TestComputeStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 3, 10+offset, hour, 0, 0, 0, time.UTC)
	}
	logAt := func(ts time.Time) models.HabitLog {
		return models.HabitLog{CompletedAt: ts}
	}

	cases := []struct {
		name        string
		logs        []models.HabitLog
		wantCurrent int
		wantLongest int
	}{
		{"no logs", nil, 0, 0},
		{"today only", []models.HabitLog{logAt(day(0, 8))}, 1, 1},
		{
			"three day run ending today",
			[]models.HabitLog{logAt(day(0, 8)), logAt(day(-1, 9)), logAt(day(-2, 7))},
			3, 3,
		},
		{
			"streak broken yesterday",
			[]models.HabitLog{logAt(day(-1, 8)), logAt(day(-2, 8))},
			0, 2,
		},
		{
			"gap preserves longest",
			[]models.HabitLog{
				logAt(day(0, 8)),
				logAt(day(-3, 8)), logAt(day(-4, 8)), logAt(day(-5, 8)), logAt(day(-6, 8)),
			},
			1, 4,
		},
		{
			"duplicate logs on one day count once",
			[]models.HabitLog{logAt(day(0, 6)), logAt(day(0, 20)), logAt(day(-1, 12))},
			2, 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			current, longest := ComputeStreak(tc.logs, today, time.UTC)
			if current != tc.wantCurrent {
				t.Errorf("current = %d, want %d", current, tc.wantCurrent)
			}
			if longest != tc.wantLongest {
				t.Errorf("longest = %d, want %d", longest, tc.wantLongest)
			}
		})
	}
}

func TestComputeStreakCrossesMonthBoundary(t *testing.T) {
	today := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	logs := []models.HabitLog{
		{CompletedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		{CompletedAt: time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC)},
		{CompletedAt: time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)},
	}

	current, longest := ComputeStreak(logs, today, time.UTC)
	if current != 3 || longest != 3 {
		t.Errorf("streak = %d/%d, want 3/3", current, longest)
	}
}
