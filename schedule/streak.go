// ABOUTME: Habit streak computation from completion logs
// ABOUTME: Current streak counts back from today; longest scans the full history
package schedule

import (
	"sort"
	"time"

	"github.com/harperreed/daydash/models"
)

// ComputeStreak derives the current and longest consecutive-day streaks from
// a habit's logs. Multiple logs on one day count once. The current streak is
// zero unless today itself is logged.
func ComputeStreak(logs []models.HabitLog, today time.Time, loc *time.Location) (current, longest int) {
	if loc == nil {
		loc = time.Local
	}

	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, l := range logs {
		day := dayStart(l.CompletedAt.In(loc))
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return 0, 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	todayStart := dayStart(today.In(loc))
	for i, day := range days {
		if !day.Equal(todayStart.AddDate(0, 0, -i)) {
			break
		}
		current++
	}

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
