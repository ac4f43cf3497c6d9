// ABOUTME: Tests for next-meeting derivation and the countdown ticker
// ABOUTME: Covers upcoming selection, join URL extraction, and timer lifecycle
package schedule

import (
	"sync"
	"testing"
	"time"
)

func TestComputeNextMeetingPicksEarliest(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := []CalendarItem{
		{ID: "past", Start: now.Add(-time.Hour)},
		{ID: "later", Start: now.Add(2 * time.Hour)},
		{ID: "soon", Start: now.Add(5 * time.Minute)},
	}

	next, minutes, ok := ComputeNextMeeting(items, now)
	if !ok {
		t.Fatal("expected an upcoming item")
	}
	if next.ID != "soon" {
		t.Errorf("next = %q, want soon", next.ID)
	}
	if minutes != 5 {
		t.Errorf("minutesUntil = %d, want 5", minutes)
	}
}

func TestComputeNextMeetingRoundsMinutes(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := []CalendarItem{{ID: "a", Start: now.Add(9*time.Minute + 40*time.Second)}}

	_, minutes, ok := ComputeNextMeeting(items, now)
	if !ok || minutes != 10 {
		t.Errorf("minutesUntil = %d (ok=%v), want 10", minutes, ok)
	}
}

func TestComputeNextMeetingNothingUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := []CalendarItem{
		{ID: "past", Start: now.Add(-time.Hour)},
		{ID: "starting", Start: now},
	}

	if _, _, ok := ComputeNextMeeting(items, now); ok {
		t.Error("items at or before now are not upcoming")
	}
}

func TestIsJoinable(t *testing.T) {
	cases := []struct {
		name string
		item CalendarItem
		want bool
	}{
		{"provider event", CalendarItem{IsGoogleEvent: true}, true},
		{"meet link", CalendarItem{Description: "join https://meet.google.com/abc-defg-hij"}, true},
		{"zoom link", CalendarItem{Description: "https://us02web.zoom.us/j/123456"}, true},
		{"meeting title", CalendarItem{Title: "Weekly Team Meeting"}, true},
		{"call title", CalendarItem{Title: "1:1 Call with Sam"}, true},
		{"plain task", CalendarItem{Title: "Write report"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsJoinable(tc.item); got != tc.want {
				t.Errorf("IsJoinable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtractJoinURL(t *testing.T) {
	item := CalendarItem{Description: "Agenda attached. Join: https://meet.google.com/abc-defg-hij see you there"}
	if got := ExtractJoinURL(item); got != "https://meet.google.com/abc-defg-hij" {
		t.Errorf("url = %q", got)
	}

	item = CalendarItem{Description: "Dial in via https://company.zoom.us/j/987654?pwd=x"}
	if got := ExtractJoinURL(item); got != "https://company.zoom.us/j/987654?pwd=x" {
		t.Errorf("url = %q", got)
	}

	// Meet wins when both are present
	item = CalendarItem{Description: "https://company.zoom.us/j/1 or https://meet.google.com/xyz-aaaa-bbb"}
	if got := ExtractJoinURL(item); got != "https://meet.google.com/xyz-aaaa-bbb" {
		t.Errorf("url = %q, want the meet link", got)
	}

	if got := ExtractJoinURL(CalendarItem{Description: "no links here"}); got != "" {
		t.Errorf("url = %q, want empty", got)
	}
}

func TestMeetingTickerRunsOnlyWhileUpcoming(t *testing.T) {
	var mu sync.Mutex
	items := []CalendarItem{{ID: "soon", Start: time.Now().Add(time.Hour)}}

	var lastOK bool
	ticker := NewMeetingTicker(
		func() []CalendarItem {
			mu.Lock()
			defer mu.Unlock()
			return items
		},
		func(next CalendarItem, minutes int, ok bool) {
			mu.Lock()
			defer mu.Unlock()
			lastOK = ok
		},
	)
	defer ticker.Stop()

	ticker.Refresh()
	if !ticker.Running() {
		t.Fatal("timer should be armed while a meeting is upcoming")
	}
	mu.Lock()
	if !lastOK {
		mu.Unlock()
		t.Fatal("onChange should report an upcoming meeting")
	}
	items = nil
	mu.Unlock()

	ticker.Refresh()
	if ticker.Running() {
		t.Fatal("timer must be disarmed with nothing upcoming")
	}
	mu.Lock()
	if lastOK {
		mu.Unlock()
		t.Fatal("onChange should report no upcoming meeting")
	}
	mu.Unlock()
}

func TestMeetingTickerStop(t *testing.T) {
	ticker := NewMeetingTicker(
		func() []CalendarItem {
			return []CalendarItem{{Start: time.Now().Add(time.Hour)}}
		},
		func(CalendarItem, int, bool) {},
	)
	ticker.Refresh()
	ticker.Stop()
	if ticker.Running() {
		t.Error("stopped ticker must not keep a timer")
	}

	ticker.Refresh()
	if ticker.Running() {
		t.Error("refresh after stop must not rearm")
	}
}
