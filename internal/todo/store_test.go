package todo

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/josephgoksu/todowing/models"
	"github.com/josephgoksu/todowing/store"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePersister records every save and can be told to fail.
type fakePersister struct {
	loaded  []models.Task
	saved   [][]models.Task
	saveErr error
}

func (f *fakePersister) Load() []models.Task { return slices.Clone(f.loaded) }

func (f *fakePersister) Save(tasks []models.Task) error {
	f.saved = append(f.saved, tasks)
	return f.saveErr
}

func (f *fakePersister) last() []models.Task {
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

// fixedClock returns the same instant every call, forcing the id bump path.
func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func newTestStore(t *testing.T, p *fakePersister) *Store {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return New(p, WithClock(fixedClock()), WithLogger(logger))
}

func texts(seq []models.Task) []string {
	out := make([]string, 0, len(seq))
	for _, t := range seq {
		out = append(out, t.Text)
	}
	return out
}

func visible(s *Store) []models.Task {
	return slices.Collect(s.VisibleTasks())
}

func TestAddTask_PrependsPendingTask(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(t, p)

	for i, text := range []string{"one", "  two  ", "three\t"} {
		before := s.Len()
		task, err := s.AddTask(text)
		require.NoError(t, err)

		assert.Equal(t, before+1, s.Len())
		assert.False(t, task.Completed)
		assert.Greater(t, task.ID, int64(0))

		first := visible(s)[0]
		assert.Equal(t, task, first, "new task should be first")
		assert.Len(t, p.saved, i+1, "every add persists")
	}

	assert.Equal(t, []string{"three", "two", "one"}, texts(visible(s)))
}

func TestAddTask_RejectsBlankText(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(t, p)
	_, err := s.AddTask("keep")
	require.NoError(t, err)

	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := s.AddTask(in)
		assert.True(t, errors.Is(err, ErrEmptyText), "AddTask(%q) = %v", in, err)
	}
	assert.Equal(t, 1, s.Len())
	assert.Len(t, p.saved, 1, "rejected adds must not persist")
}

func TestAddTask_IDsUniqueAndIncreasing(t *testing.T) {
	s := newTestStore(t, &fakePersister{})

	var ids []int64
	for range 50 {
		task, err := s.AddTask("x")
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}
}

func TestAddTask_IDsStayAboveLoadedIDs(t *testing.T) {
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	p := &fakePersister{loaded: []models.Task{{ID: future, Text: "from the future"}}}
	s := newTestStore(t, p)

	task, err := s.AddTask("now")
	require.NoError(t, err)
	assert.Equal(t, future+1, task.ID)
}

func TestToggleTask_Involution(t *testing.T) {
	s := newTestStore(t, &fakePersister{})
	task, err := s.AddTask("flip me")
	require.NoError(t, err)

	once, err := s.ToggleTask(task.ID)
	require.NoError(t, err)
	assert.True(t, once.Completed)

	twice, err := s.ToggleTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Completed, twice.Completed)
}

func TestToggleTask_NotFound(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(t, p)

	_, err := s.ToggleTask(42)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, int64(42), nf.ID)
	assert.Empty(t, p.saved)
}

func TestDeleteTask(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(t, p)
	a, _ := s.AddTask("a")
	b, _ := s.AddTask("b")

	require.NoError(t, s.DeleteTask(a.ID))
	assert.Equal(t, []string{"b"}, texts(visible(s)))
	assert.Equal(t, []string{"b"}, texts(p.last()))

	err := s.DeleteTask(a.ID)
	assert.True(t, errors.Is(err, ErrNotFound), "double delete should be not found")
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.DeleteTask(b.ID))
	assert.Equal(t, 0, s.Len())
}

func TestClearCompleted(t *testing.T) {
	s := newTestStore(t, &fakePersister{})
	a, _ := s.AddTask("a")
	_, _ = s.AddTask("b")
	c, _ := s.AddTask("c")
	_, _ = s.ToggleTask(a.ID)
	_, _ = s.ToggleTask(c.ID)

	removed, err := s.ClearCompleted()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"b"}, texts(visible(s)))

	removed, err = s.ClearCompleted()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestVisibleTasks_Filters(t *testing.T) {
	s := newTestStore(t, &fakePersister{})
	for _, text := range []string{"a", "b", "c", "d"} {
		task, _ := s.AddTask(text)
		if text == "b" || text == "d" {
			_, _ = s.ToggleTask(task.ID)
		}
	}

	require.NoError(t, s.SetFilter(models.FilterActive))
	for task := range s.VisibleTasks() {
		assert.False(t, task.Completed)
	}
	assert.Equal(t, []string{"c", "a"}, texts(visible(s)))

	require.NoError(t, s.SetFilter(models.FilterCompleted))
	for task := range s.VisibleTasks() {
		assert.True(t, task.Completed)
	}
	assert.Equal(t, []string{"d", "b"}, texts(visible(s)))

	require.NoError(t, s.SetFilter(models.FilterAll))
	assert.Equal(t, []string{"d", "c", "b", "a"}, texts(visible(s)))
	assert.Equal(t, models.FilterAll, s.Filter())
}

func TestVisibleTasks_EarlyStopAndMutationDuringIteration(t *testing.T) {
	s := newTestStore(t, &fakePersister{})
	for _, text := range []string{"a", "b", "c"} {
		_, _ = s.AddTask(text)
	}

	var seen []string
	for task := range s.VisibleTasks() {
		seen = append(seen, task.Text)
		require.NoError(t, s.DeleteTask(task.ID))
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"c", "b"}, seen)
	assert.Equal(t, []string{"a"}, texts(visible(s)))
}

func TestSetFilter_DoesNotPersistOrMutate(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(t, p)
	_, _ = s.AddTask("a")
	saves := len(p.saved)

	require.NoError(t, s.SetFilter(models.FilterCompleted))
	assert.Len(t, p.saved, saves)
	assert.Equal(t, 1, s.Len())
}

func TestRemainingCount_IgnoresFilter(t *testing.T) {
	s := newTestStore(t, &fakePersister{})
	a, _ := s.AddTask("a")
	_, _ = s.AddTask("b")
	_, _ = s.ToggleTask(a.ID)

	require.NoError(t, s.SetFilter(models.FilterCompleted))
	assert.Equal(t, 1, s.RemainingCount())
	require.NoError(t, s.SetFilter(models.FilterActive))
	assert.Equal(t, 1, s.RemainingCount())
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	p := &fakePersister{saveErr: errors.New("disk full")}
	s := newTestStore(t, p)

	task, err := s.AddTask("survives")
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr), "expected PersistenceError, got %v", err)
	assert.Equal(t, "add", perr.Op)
	assert.Equal(t, "survives", task.Text)
	assert.Equal(t, 1, s.Len(), "in-memory list stays the source of truth")

	_, err = s.ToggleTask(task.ID)
	require.Error(t, err)
	assert.Equal(t, 0, s.RemainingCount())
}

func TestNew_SanitizesLoadedList(t *testing.T) {
	p := &fakePersister{loaded: []models.Task{
		{ID: 3, Text: "keep newest"},
		{ID: 0, Text: "no id"},
		{ID: 2, Text: "   "},
		{ID: 3, Text: "duplicate"},
		{ID: 1, Text: " keep oldest ", Completed: true},
	}}
	logger, hook := test.NewNullLogger()
	s := New(p, WithLogger(logger))

	assert.Equal(t, []string{"keep newest", "keep oldest"}, texts(visible(s)))
	assert.Equal(t, 1, s.RemainingCount())
	assert.NotEmpty(t, hook.AllEntries())
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := newTestStore(t, &fakePersister{})

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddTask("parallel")
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for task := range s.VisibleTasks() {
		assert.False(t, seen[task.ID], "duplicate id %d", task.ID)
		seen[task.ID] = true
	}
	assert.Len(t, seen, 20)
}

func TestScenario_BuyMilkWriteSpec(t *testing.T) {
	adapter := store.NewAdapter(store.NewMemoryKV(), store.DefaultKey, nil, nil)
	s := New(adapter, WithClock(fixedClock()))
	assert.Equal(t, 0, s.Len())

	milk, err := s.AddTask("buy milk")
	require.NoError(t, err)
	_, err = s.AddTask("write spec")
	require.NoError(t, err)
	assert.Equal(t, []string{"write spec", "buy milk"}, texts(visible(s)))

	_, err = s.ToggleTask(milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.RemainingCount())

	require.NoError(t, s.SetFilter(models.FilterCompleted))
	assert.Equal(t, []string{"buy milk"}, texts(visible(s)))

	// A fresh store over the same storage sees the same list, filter reset.
	reloaded := New(adapter)
	assert.Equal(t, models.FilterAll, reloaded.Filter())
	got := visible(reloaded)
	require.Len(t, got, 2)
	assert.Equal(t, "write spec", got[0].Text)
	assert.Equal(t, milk.ID, got[1].ID)
	assert.True(t, got[1].Completed)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "0 tasks left", RemainingLabel(0))
	assert.Equal(t, "1 task left", RemainingLabel(1))
	assert.Equal(t, "5 tasks left", RemainingLabel(5))

	assert.Equal(t, "Add your first task above!", EmptyMessage(models.FilterAll))
	assert.Equal(t, "No active tasks. Good job!", EmptyMessage(models.FilterActive))
	assert.Equal(t, "No completed tasks yet", EmptyMessage(models.FilterCompleted))
}

func TestNew_OddTimestampDoesNotLoseStoredTasks(t *testing.T) {
	kv := store.NewMemoryKV()
	blob := `[{"id":2,"text":"write spec","completed":false,"createdAt":"Mon Jun 10 2024"},` +
		`{"id":1,"text":"buy milk","completed":false,"createdAt":"2024-06-10T06:13:20.000Z"}]`
	require.NoError(t, kv.Set(store.DefaultKey, []byte(blob)))

	logger, _ := test.NewNullLogger()
	adapter := store.NewAdapter(kv, store.DefaultKey, nil, logger)
	s := New(adapter, WithClock(fixedClock()), WithLogger(logger))
	require.Equal(t, 2, s.Len())

	_, err := s.AddTask("new")
	require.NoError(t, err)

	reloaded := New(adapter, WithLogger(logger))
	assert.Equal(t, []string{"new", "write spec", "buy milk"}, texts(visible(reloaded)))
}

func TestSetFilter_RejectsUnknownValues(t *testing.T) {
	s := newTestStore(t, &fakePersister{})
	require.NoError(t, s.SetFilter(models.FilterActive))

	for _, f := range []models.Filter{"", "done", "ALL"} {
		err := s.SetFilter(f)
		assert.True(t, errors.Is(err, models.ErrInvalidFilter), "SetFilter(%q) = %v", f, err)
		assert.Equal(t, models.FilterActive, s.Filter(), "rejected filter must not replace the current one")
	}
}
