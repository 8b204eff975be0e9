package tracker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
	"timestrap/internal/validation"
)

// Options configures a Sheet.
type Options struct {
	Clock     Clock
	Date      time.Time
	Shift     domain.Shift
	Persister Persister
	Gateway   Gateway
	Retry     RetryPolicy
	Validator *validation.Validator
	Logger    zerolog.Logger
}

// Sheet is the working timesheet of one employee for one day.
type Sheet struct {
	mu        sync.Mutex
	flushMu   sync.Mutex
	session   Session
	date      time.Time
	shift     domain.Shift
	tasks     []domain.Task
	recording domain.RecordingSession

	outbox    *Outbox
	persister Persister
	gateway   Gateway
	clock     Clock
	headers   *validation.TaskValidator
	entries   *validation.TimeEntryValidator
	submits   singleflight.Group
	logger    zerolog.Logger

	// submitJoined runs once a Submit call has joined or started the shared submission.
	submitJoined func()
}

// Tick is emitted by Watch while a recording is running.
type Tick struct {
	Elapsed     int64
	Total       int64
	Submittable bool
}

// FlushResult counts the outcome of one delivery pass.
type FlushResult struct {
	Delivered int
	Rejected  int
	Retrying  int
}

// NewSheet creates an empty sheet for session. A zero date means today and an empty shift
// means the default shift.
func NewSheet(session Session, opts Options) (*Sheet, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Date.IsZero() {
		opts.Date = opts.Clock.Now()
	}
	if opts.Shift == "" {
		opts.Shift = domain.DefaultShift
	}
	shift, err := domain.ParseShift(string(opts.Shift))
	if err != nil {
		return nil, err
	}
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetryPolicy()
	}

	return &Sheet{
		session:   session,
		date:      opts.Date,
		shift:     shift,
		tasks:     []domain.Task{},
		outbox:    NewOutbox(opts.Retry),
		persister: opts.Persister,
		gateway:   opts.Gateway,
		clock:     opts.Clock,
		headers:   validation.NewTaskValidator(opts.Validator),
		entries:   validation.NewTimeEntryValidator(opts.Validator),
		logger:    opts.Logger,
	}, nil
}

// Session returns the identity the sheet acts for.
func (s *Sheet) Session() Session { return s.session }

// Date returns the day of the sheet.
func (s *Sheet) Date() string { return domain.FormatDate(s.date) }

// Shift returns the selected shift.
func (s *Sheet) Shift() domain.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shift
}

// SetShift changes the target of the sheet.
func (s *Sheet) SetShift(shift domain.Shift) error {
	parsed, err := domain.ParseShift(string(shift))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shift = parsed
	return nil
}

// Outbox exposes the persist intents of the sheet.
func (s *Sheet) Outbox() *Outbox { return s.outbox }

// AddTask saves a draft. Project and title are required; description, tools and
// completion default to empty values and a draft without entries gets one now/now entry.
// The task is added at once and a persist intent is recorded for it. A draft that already
// carries a WorklogID is delivered as an update of that work log.
func (s *Sheet) AddTask(draft domain.Task) (domain.Task, error) {
	now := s.clock.Now()
	task := normalize(draft.Clone())
	task.Persisted = false

	if err := s.headers.ValidateHeader(task.Project, task.Title); err != nil {
		return domain.Task{}, validation.ToAppError(err)
	}
	if err := s.headers.ValidateCompletionPercent(task.CompletionPercent); err != nil {
		return domain.Task{}, validation.ToAppError(err)
	}

	if len(task.TimeEntries) == 0 {
		task.TimeEntries = []domain.TimeEntry{domain.NewTimeEntry(now)}
	}
	if err := s.entries.ValidateTimeEntries(task.TimeEntries); err != nil {
		return domain.Task{}, validation.ToAppError(err)
	}
	if task.ID == "" {
		task.ID = domain.NewTask("", "", now).ID
	}
	for i := range task.TimeEntries {
		if task.TimeEntries[i].ID == "" {
			task.TimeEntries[i].ID = domain.NewTimeEntry(now).ID
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(task.ID) >= 0 {
		return domain.Task{}, errors.NewConflictError("add task", "task "+task.ID+" already exists")
	}
	s.tasks = append(s.tasks, task)
	s.outbox.Record(task.ID, now)

	s.logger.Debug().Str("task", task.ID).Str("project", task.Project).Msg("task added")
	return task.Clone(), nil
}

// BeginEdit opens a copy of the task for editing.
func (s *Sheet) BeginEdit(id string) (*Edit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("task", id)
	}
	return &Edit{task: s.tasks[i].Clone(), entries: s.entries, clock: s.clock}, nil
}

// CommitEdit replaces the task matched by the edit's id. It returns false when the task no
// longer exists.
func (s *Sheet) CommitEdit(edit *Edit) (bool, error) {
	if edit == nil {
		return false, nil
	}
	task := normalize(edit.Task())
	if err := s.headers.ValidateHeader(task.Project, task.Title); err != nil {
		return false, validation.ToAppError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(task.ID)
	if i < 0 {
		return false, nil
	}
	task.WorklogID = s.tasks[i].WorklogID
	task.Persisted = false
	s.tasks[i] = task
	s.outbox.Record(task.ID, s.clock.Now())
	return true, nil
}

// CancelEdit discards the edit; the sheet is left as it was.
func (s *Sheet) CancelEdit(edit *Edit) {
	if edit != nil {
		edit.task = domain.Task{}
	}
}

// SetCompletionPercent updates the completion percentage of a task.
func (s *Sheet) SetCompletionPercent(id string, percent int) error {
	if err := s.headers.ValidateCompletionPercent(percent); err != nil {
		return validation.ToAppError(err)
	}
	return s.mutate(id, func(t *domain.Task) {
		t.CompletionPercent = percent
	})
}

// ToggleComplete flips the completion flag of a task. The percentage is left untouched.
func (s *Sheet) ToggleComplete(id string) error {
	return s.mutate(id, func(t *domain.Task) {
		t.IsComplete = !t.IsComplete
	})
}

func (s *Sheet) mutate(id string, fn func(t *domain.Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errors.NewNotFoundError("task", id)
	}
	fn(&s.tasks[i])
	s.tasks[i].Persisted = false
	s.outbox.Record(id, s.clock.Now())
	return nil
}

// StartRecording starts the live recording. It does nothing when one is running.
func (s *Sheet) StartRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recording.Active {
		return false
	}
	s.recording = domain.StartRecording(s.clock.Now())
	return true
}

// Recording returns the live recording.
func (s *Sheet) Recording() domain.RecordingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// StopRecording turns the running recording into a one-entry task and clears it.
// ok is false when nothing was recording.
func (s *Sheet) StopRecording() (task domain.Task, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	task, ok = s.recording.Stop(now)
	if !ok {
		return domain.Task{}, false
	}
	s.recording = domain.RecordingSession{}
	s.tasks = append(s.tasks, task)
	s.outbox.Record(task.ID, now)

	s.logger.Debug().Str("task", task.ID).Int64("seconds", task.Seconds()).Msg("recording stopped")
	return task.Clone(), true
}

// Tasks returns a copy of the tasks in insertion order.
func (s *Sheet) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Task returns a copy of one task.
func (s *Sheet) Task(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Total returns the accumulated seconds including a running recording.
func (s *Sheet) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Accumulate(s.tasks, s.recording, s.clock.Now())
}

// Submittable reports whether the current total reaches the shift target.
func (s *Sheet) Submittable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.IsSubmittable(domain.Accumulate(s.tasks, s.recording, s.clock.Now()), s.shift)
}

// Bundle snapshots the sheet for submission.
func (s *Sheet) Bundle() domain.TimesheetBundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewTimesheetBundle(s.session.Identity(), s.date, s.shift, s.tasks)
}

// Submit hands the sheet to the gateway. Concurrent calls share one outbound submission:
// the shared call runs with the context of the caller that started it, so cancelling that
// caller fails every waiter. A waiter whose own ctx is done returns early with ctx.Err()
// while the shared call goes on.
func (s *Sheet) Submit(ctx context.Context) error {
	if s.gateway == nil {
		return errors.NewValidationError("no submission gateway configured", nil)
	}
	ch := s.submits.DoChan("submit", func() (interface{}, error) {
		bundle := s.Bundle()
		total := bundle.TotalSeconds()
		if !bundle.Submittable() {
			return nil, errors.NewValidationError(
				fmt.Sprintf("total %s is below the %s shift target of %s",
					domain.FormatClock(total), bundle.Shift, domain.FormatClock(bundle.Shift.TargetSeconds())),
				nil,
			).WithContext("totalSeconds", total)
		}
		return nil, s.gateway.Submit(ctx, s.session, bundle)
	})
	if s.submitJoined != nil {
		s.submitJoined()
	}

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}

	event := s.logger.Info()
	if res.Err != nil {
		event = s.logger.Warn().Err(res.Err)
	}
	event.Str("date", s.Date()).Bool("shared", res.Shared).Msg("timesheet submission finished")
	return res.Err
}

// Watch calls fn every interval while a recording is running, until ctx is done.
func (s *Sheet) Watch(ctx context.Context, interval time.Duration, fn func(Tick)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.mu.Lock()
			now := s.clock.Now()
			active := s.recording.Active
			tick := Tick{
				Elapsed: s.recording.ElapsedSeconds(now),
				Total:   domain.Accumulate(s.tasks, s.recording, now),
			}
			tick.Submittable = domain.IsSubmittable(tick.Total, s.shift)
			s.mu.Unlock()

			if active {
				fn(tick)
			}
		}
	}
}

// Flush attempts delivery of every due persist intent. Validation failures are rejected
// for good; transient failures are rescheduled with backoff.
func (s *Sheet) Flush(ctx context.Context) (FlushResult, error) {
	var result FlushResult
	if s.persister == nil {
		return result, nil
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	claimed := s.outbox.Claim(s.clock.Now())
	for n, intent := range claimed {
		if err := ctx.Err(); err != nil {
			for _, rest := range claimed[n:] {
				s.outbox.Release(rest.ID)
			}
			return result, err
		}

		task, ok := s.Task(intent.TaskID)
		if !ok {
			s.outbox.Reject(intent.ID, "task no longer exists")
			result.Rejected++
			continue
		}

		worklogID, err := s.persister.Persist(ctx, s.session, PersistRequest{
			Date:  s.Date(),
			Shift: s.Shift(),
			Task:  task,
		})
		if err != nil {
			status := s.outbox.Failed(intent.ID, err, s.clock.Now())
			log := s.logger.Warn().Err(err).Str("task", task.ID).Str("intent", intent.ID)
			if status == IntentRejected {
				log.Msg("persist rejected")
				result.Rejected++
			} else {
				log.Msg("persist failed, will retry")
				result.Retrying++
			}
			continue
		}

		s.outbox.Delivered(intent.ID, worklogID)
		s.markPersisted(task.ID, worklogID)
		result.Delivered++
	}
	return result, nil
}

// RetryPersist makes every pending intent due and flushes at once.
func (s *Sheet) RetryPersist(ctx context.Context) (FlushResult, error) {
	s.outbox.RetryNow(s.clock.Now())
	return s.Flush(ctx)
}

func (s *Sheet) markPersisted(id string, worklogID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.tasks[i].WorklogID = worklogID
	s.tasks[i].Persisted = !s.outbox.HasPending(id)
}

func (s *Sheet) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// normalize trims the text fields of a task and drops blank tools.
func normalize(task domain.Task) domain.Task {
	task.Project = strings.TrimSpace(task.Project)
	task.Title = strings.TrimSpace(task.Title)
	task.Description = strings.TrimSpace(task.Description)
	task.Tools = cleanTools(task.Tools)
	return task
}

func cleanTools(tools []string) []string {
	out := make([]string, 0, len(tools))
	for _, tool := range tools {
		if tool = strings.TrimSpace(tool); tool != "" {
			out = append(out, tool)
		}
	}
	return out
}
