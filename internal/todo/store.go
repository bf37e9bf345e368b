// Package todo owns the task list: its mutations, filtered views and the
// persistence round trip after every change.
package todo

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/josephgoksu/todowing/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// Persister loads and saves the whole task list. Load never fails; a missing
// or unreadable list comes back empty.
type Persister interface {
	Load() []models.Task
	Save(tasks []models.Task) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for dropped records and failed saves.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// Store is the single owner of the task list and the active filter. All
// methods are safe for concurrent use; each runs to completion under one lock.
type Store struct {
	mu      sync.Mutex
	tasks   []models.Task // newest first
	filter  models.Filter
	lastID  int64
	persist Persister
	now     func() time.Time
	log     logrus.FieldLogger
}

// New creates a Store and loads the persisted list once.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		filter:  models.FilterAll,
		persist: p,
		now:     time.Now,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tasks = s.sanitize(p.Load())
	for _, t := range s.tasks {
		s.lastID = max(s.lastID, t.ID)
	}
	return s
}

// sanitize drops records that would break the list invariants: invalid
// entries and repeated ids (the first occurrence wins).
func (s *Store) sanitize(loaded []models.Task) []models.Task {
	tasks := make([]models.Task, 0, len(loaded))
	seen := make(map[int64]struct{}, len(loaded))
	dropped := 0
	for _, t := range loaded {
		t.Text = strings.TrimSpace(t.Text)
		if err := models.ValidateStruct(t); err != nil {
			s.log.WithError(err).WithField("id", t.ID).Debug("dropping invalid stored task")
			dropped++
			continue
		}
		if _, dup := seen[t.ID]; dup {
			s.log.WithField("id", t.ID).Debug("dropping stored task with duplicate id")
			dropped++
			continue
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	if dropped > 0 {
		s.log.WithField("dropped", dropped).Warn("ignored unusable stored tasks")
	}
	return tasks
}

// nextID derives an id from the clock in milliseconds, bumped past the last
// issued id so ids stay unique and increasing.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// save persists the current list. Called with s.mu held.
func (s *Store) save(op string) error {
	if err := s.persist.Save(slices.Clone(s.tasks)); err != nil {
		s.log.WithError(err).WithField("op", op).Error("failed to persist tasks")
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}

func (s *Store) notFound(op string, id int64) error {
	s.log.WithFields(logrus.Fields{"op": op, "id": id}).Debug("task not found")
	return &NotFoundError{ID: id}
}

// AddTask trims rawText and puts a new pending task at the front of the list.
// Blank text returns ErrEmptyText and changes nothing. A *PersistenceError
// comes back together with the added task.
func (s *Store) AddTask(rawText string) (models.Task, error) {
	text := norm.NFC.String(strings.TrimSpace(rawText))
	if text == "" {
		return models.Task{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	task := models.NewTask(s.nextID(now), text, now)
	s.tasks = slices.Insert(s.tasks, 0, task)

	return task, s.save("add")
}

// ToggleTask flips the completed flag of the task with the given id.
func (s *Store) ToggleTask(id int64) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, s.notFound("toggle", id)
	}
	s.tasks[i].Completed = !s.tasks[i].Completed

	return s.tasks[i], s.save("toggle")
}

// DeleteTask removes the task with the given id immediately.
func (s *Store) DeleteTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return s.notFound("delete", id)
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)

	return s.save("delete")
}

// ClearCompleted removes every completed task and returns how many went.
func (s *Store) ClearCompleted() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool { return t.Completed })
	removed := before - len(s.tasks)

	return removed, s.save("clear-completed")
}

// SetFilter changes the active view. It is not persisted. Values outside
// models.AllFilters are rejected with models.ErrInvalidFilter and leave the
// current filter in place.
func (s *Store) SetFilter(f models.Filter) error {
	if !slices.Contains(models.AllFilters(), f) {
		return fmt.Errorf("%w: %q", models.ErrInvalidFilter, f)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	return nil
}

// Filter returns the active view.
func (s *Store) Filter() models.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// VisibleTasks yields the tasks matching the active filter in list order.
// The list is captured when VisibleTasks is called; matching happens as the
// sequence is consumed, so callers may mutate the store while iterating.
func (s *Store) VisibleTasks() iter.Seq[models.Task] {
	s.mu.Lock()
	snapshot := slices.Clone(s.tasks)
	filter := s.filter
	s.mu.Unlock()

	return func(yield func(models.Task) bool) {
		for _, t := range snapshot {
			if !filter.Match(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// RemainingCount counts tasks that are not completed, regardless of filter.
func (s *Store) RemainingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Len returns the number of tasks in the list.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
