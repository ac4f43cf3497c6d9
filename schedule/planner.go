// ABOUTME: Day-view planner reconciling local tasks with provider events
// ABOUTME: Owns load/mutate state, optimistic moves and resizes, and write-back
package schedule

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"google.golang.org/api/calendar/v3"

	"github.com/harperreed/daydash/models"
)

// Planner states.
const (
	StateIdle     = "idle"
	StateLoading  = "loading"
	StateReady    = "ready"
	StateMutating = "mutating"
)

// TaskSource loads the scheduled tasks for one day.
type TaskSource interface {
	TasksForDay(userID string, day time.Time, loc *time.Location) ([]*models.Task, error)
}

// EventSource lists upcoming provider events. Satisfied by gcal.CalendarAPI.
type EventSource interface {
	ListUpcoming(ctx context.Context, maxResults, windowDays int) ([]*calendar.Event, error)
}

// TaskWriter persists a task's schedule change.
type TaskWriter interface {
	UpdateSchedule(taskID string, start, end time.Time, durationMinutes int) error
}

// Planner holds the merged day view and applies schedule mutations to it.
// Mutations are optimistic: the in-memory item moves first and stays moved
// even when the write-back fails, matching what the user already sees.
type Planner struct {
	mu     sync.Mutex
	userID string
	loc    *time.Location
	tasks  TaskSource
	events EventSource
	writer TaskWriter

	state      string
	day        time.Time
	generation uint64
	items      []CalendarItem
}

func NewPlanner(userID string, loc *time.Location, tasks TaskSource, writer TaskWriter) *Planner {
	if loc == nil {
		loc = time.Local
	}
	return &Planner{
		userID: userID,
		loc:    loc,
		tasks:  tasks,
		writer: writer,
		state:  StateIdle,
	}
}

// SetEventSource attaches or detaches the provider event feed. A nil source
// means the calendar is not connected and loads render local tasks only.
func (p *Planner) SetEventSource(src EventSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = src
}

// State returns the planner's current lifecycle state.
func (p *Planner) State() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Day returns the day the planner currently renders.
func (p *Planner) Day() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.day
}

// Items returns a copy of the merged day view.
func (p *Planner) Items() []CalendarItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CalendarItem, len(p.items))
	copy(out, p.items)
	return out
}

// Load fetches both sources and replaces the day view. A provider failure is
// logged and the view renders local tasks only. When a newer Load has started
// or the viewed day has changed by the time results arrive, the results are
// discarded.
func (p *Planner) Load(ctx context.Context, day time.Time) error {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.state = StateLoading
	p.day = day
	events := p.events
	p.mu.Unlock()

	tasks, err := p.tasks.TasksForDay(p.userID, day, p.loc)
	if err != nil {
		p.mu.Lock()
		if gen == p.generation {
			p.state = StateIdle
		}
		p.mu.Unlock()
		return &models.PersistenceError{Op: "load tasks", Err: err}
	}

	var taskItems []CalendarItem
	for _, t := range tasks {
		if item := FromTask(t, day, p.loc); item != nil {
			taskItems = append(taskItems, *item)
		}
	}

	var eventItems []CalendarItem
	if events != nil {
		evs, err := events.ListUpcoming(ctx, 250, 3)
		if err != nil {
			log.Printf("calendar events unavailable, showing tasks only: %v", err)
		} else {
			for _, ev := range evs {
				item := FromEvent(ev, p.loc)
				if sameDay(item.Start, day.In(p.loc)) {
					eventItems = append(eventItems, *item)
				}
			}
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation || !p.day.Equal(day) {
		// A newer load owns the view now
		return nil
	}
	p.items = MergeForDay(taskItems, eventItems)
	p.state = StateReady
	return nil
}

// MoveItem shifts an item to a new start, keeping its duration. Provider
// events are read-only and the call is a no-op for them. Blocks without a
// backing task move in memory only.
func (p *Planner) MoveItem(itemID string, newStart time.Time) error {
	p.mu.Lock()
	idx := p.indexOf(itemID)
	if idx < 0 {
		p.mu.Unlock()
		return &models.ValidationError{Field: "id", Message: "unknown calendar item"}
	}
	item := &p.items[idx]
	if item.IsGoogleEvent {
		p.mu.Unlock()
		return nil
	}

	duration := item.End.Sub(item.Start)
	item.Start = newStart.In(p.loc)
	item.End = item.Start.Add(duration)
	start, end, taskID := item.Start, item.End, item.TaskID
	p.resort()
	p.mu.Unlock()

	if taskID == "" {
		return nil
	}
	return p.persistSchedule("move item", taskID, start, end)
}

// ResizeItem changes an item's end time. Same read-only and unpersisted-block
// rules as MoveItem.
func (p *Planner) ResizeItem(itemID string, newEnd time.Time) error {
	p.mu.Lock()
	idx := p.indexOf(itemID)
	if idx < 0 {
		p.mu.Unlock()
		return &models.ValidationError{Field: "id", Message: "unknown calendar item"}
	}
	item := &p.items[idx]
	if item.IsGoogleEvent {
		p.mu.Unlock()
		return nil
	}
	newEnd = newEnd.In(p.loc)
	if !newEnd.After(item.Start) {
		p.mu.Unlock()
		return &models.ValidationError{Field: "end", Message: "end must be after start"}
	}

	item.End = newEnd
	start, end, taskID := item.Start, item.End, item.TaskID
	p.mu.Unlock()

	if taskID == "" {
		return nil
	}
	return p.persistSchedule("resize item", taskID, start, end)
}

// CreateBlock inserts a new unpersisted block into the view and returns it.
// The block participates in moves and resizes in memory until a task is
// created for it.
func (p *Planner) CreateBlock(start, end time.Time) CalendarItem {
	start = start.In(p.loc)
	end = end.In(p.loc)
	if !end.After(start) {
		end = start.Add(30 * time.Minute)
	}

	item := CalendarItem{
		ID:    "block_" + ulid.Make().String(),
		Kind:  KindTask,
		Title: "New Task",
		Start: start,
		End:   end,
	}

	p.mu.Lock()
	p.items = append(p.items, item)
	p.resort()
	p.mu.Unlock()
	return item
}

// ApplyTaskEdit reconciles the view after a task was saved elsewhere. A task
// scheduled off the viewed day drops out; one scheduled on it is inserted or
// replaces its previous item.
func (p *Planner) ApplyTaskEdit(task *models.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()

	taskID := task.ID.String()
	item := FromTask(task, p.day, p.loc)

	kept := p.items[:0]
	for _, existing := range p.items {
		if existing.TaskID != taskID {
			kept = append(kept, existing)
		}
	}
	p.items = kept

	if item != nil {
		p.items = append(p.items, *item)
	}
	p.resort()
}

func (p *Planner) persistSchedule(op, taskID string, start, end time.Time) error {
	p.mu.Lock()
	p.state = StateMutating
	p.mu.Unlock()

	minutes := int(math.Round(end.Sub(start).Minutes()))
	err := p.writer.UpdateSchedule(taskID, start, end, minutes)

	p.mu.Lock()
	p.state = StateReady
	p.mu.Unlock()

	if err != nil {
		// The in-memory item keeps its new position; only the write failed
		log.Printf("schedule write-back for task %s failed: %v", taskID, err)
		return &models.PersistenceError{Op: op, Err: err}
	}
	return nil
}

// indexOf and resort expect p.mu held.
func (p *Planner) indexOf(itemID string) int {
	for i := range p.items {
		if p.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (p *Planner) resort() {
	p.items = MergeForDay(p.items, nil)
}
