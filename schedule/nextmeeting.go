// ABOUTME: Next-meeting derivation over the merged day view
// ABOUTME: Finds the upcoming item, join URLs, and runs the countdown ticker
package schedule

import (
	"math"
	"regexp"
	"strings"
	"sync"
	"time"
)

var (
	meetURLPattern = regexp.MustCompile(`https://meet\.google\.com/[a-z-]+`)
	zoomURLPattern = regexp.MustCompile(`https://[a-zA-Z0-9.-]*zoom\.us/[^\s]+`)
)

// ComputeNextMeeting returns the earliest item starting strictly after now,
// with the rounded minutes until it starts. ok is false when nothing is
// upcoming.
func ComputeNextMeeting(items []CalendarItem, now time.Time) (next CalendarItem, minutesUntil int, ok bool) {
	for _, item := range items {
		if !item.Start.After(now) {
			continue
		}
		if !ok || item.Start.Before(next.Start) {
			next = item
			ok = true
		}
	}
	if !ok {
		return CalendarItem{}, 0, false
	}
	minutesUntil = int(math.Round(next.Start.Sub(now).Minutes()))
	return next, minutesUntil, true
}

// IsJoinable reports whether an item is something the user can join: any
// provider event, anything carrying a Meet or Zoom link, or anything whose
// title reads like a meeting.
func IsJoinable(item CalendarItem) bool {
	if item.IsGoogleEvent {
		return true
	}
	if meetURLPattern.MatchString(item.Description) || zoomURLPattern.MatchString(item.Description) {
		return true
	}
	title := strings.ToLower(item.Title)
	return strings.Contains(title, "meeting") || strings.Contains(title, "call")
}

// ExtractJoinURL pulls the first Meet link from the description, falling back
// to the first Zoom link. Empty when neither is present.
func ExtractJoinURL(item CalendarItem) string {
	if url := meetURLPattern.FindString(item.Description); url != "" {
		return url
	}
	return zoomURLPattern.FindString(item.Description)
}

// MeetingTicker recomputes the next meeting once a minute, but only while
// one exists; with nothing upcoming the timer is stopped until the view
// changes again.
type MeetingTicker struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	interval time.Duration
	items    func() []CalendarItem
	now      func() time.Time
	onChange func(next CalendarItem, minutesUntil int, ok bool)
}

func NewMeetingTicker(items func() []CalendarItem, onChange func(CalendarItem, int, bool)) *MeetingTicker {
	return &MeetingTicker{
		interval: time.Minute,
		items:    items,
		now:      time.Now,
		onChange: onChange,
	}
}

// Refresh recomputes immediately and arms or disarms the minute timer based
// on whether an upcoming item exists. Call it whenever the day view changes.
func (t *MeetingTicker) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}

	next, minutes, ok := ComputeNextMeeting(t.items(), t.now())
	t.onChange(next, minutes, ok)

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if ok {
		t.timer = time.AfterFunc(t.interval, t.tick)
	}
}

// Running reports whether the minute timer is armed.
func (t *MeetingTicker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Stop disarms the timer permanently.
func (t *MeetingTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *MeetingTicker) tick() {
	t.Refresh()
}
