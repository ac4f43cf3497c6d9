// ABOUTME: Unified calendar item model merging local tasks and provider events
// ABOUTME: Converts both sources into one shape the planner and web layer render
package schedule

import (
	"sort"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harperreed/daydash/models"
)

// Item kinds.
const (
	KindTask  = "task"
	KindEvent = "event"
)

// CalendarItem is the single shape the day view works with, whether the
// underlying record is a local task or a provider event. Events are
// read-only; only items with a TaskID persist schedule changes.
type CalendarItem struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Description   string    `json:"description,omitempty"`
	TaskID        string    `json:"task_id,omitempty"`
	GoogleEventID string    `json:"google_event_id,omitempty"`
	IsGoogleEvent bool      `json:"is_google_event"`
}

// FromTask converts a scheduled task into a day-view item. Returns nil for
// unscheduled tasks and for tasks whose block does not start on viewDate.
func FromTask(task *models.Task, viewDate time.Time, loc *time.Location) *CalendarItem {
	if task.DueDate == nil {
		return nil
	}
	start := task.DueDate.In(loc)
	if !sameDay(start, viewDate.In(loc)) {
		return nil
	}

	end := task.ScheduledEndTime()
	return &CalendarItem{
		ID:          "task_" + task.ID.String(),
		Kind:        KindTask,
		Title:       task.Title,
		Start:       start,
		End:         end.In(loc),
		Description: task.Description,
		TaskID:      task.ID.String(),
	}
}

// FromEvent converts a provider event. Timed events carry RFC3339 instants;
// all-day events carry bare dates and span midnight to midnight in loc.
// Events with unparseable times still render, anchored at now.
func FromEvent(ev *calendar.Event, loc *time.Location) *CalendarItem {
	title := ev.Summary
	if title == "" {
		title = "Untitled Event"
	}

	start := eventTime(ev.Start, loc)
	end := eventTime(ev.End, loc)
	if start.IsZero() {
		start = time.Now().In(loc)
	}
	if end.IsZero() || !end.After(start) {
		end = start.Add(time.Hour)
	}

	return &CalendarItem{
		ID:            "google_" + ev.Id,
		Kind:          KindEvent,
		Title:         title,
		Start:         start,
		End:           end,
		Description:   ev.Description,
		GoogleEventID: ev.Id,
		IsGoogleEvent: true,
	}
}

// MergeForDay combines task items and event items into one list sorted by
// start time. Items are not deduplicated: a task that was also pushed to the
// provider appears twice, once per source.
func MergeForDay(tasks, events []CalendarItem) []CalendarItem {
	merged := make([]CalendarItem, 0, len(tasks)+len(events))
	merged = append(merged, tasks...)
	merged = append(merged, events...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start.Before(merged[j].Start)
	})
	return merged
}

func eventTime(edt *calendar.EventDateTime, loc *time.Location) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}
		}
		return t.In(loc)
	}
	if edt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", edt.Date, loc)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	return time.Time{}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
