package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ErrInvalidFilter is returned by ParseFilter for names outside all/active/completed.
var ErrInvalidFilter = errors.New("invalid filter")

// AllFilters returns the filters in display order.
func AllFilters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter converts caller input into a Filter. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseFilter(name string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(name))); f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want all, active or completed)", ErrInvalidFilter, name)
	}
}

// Match reports whether a task belongs in the view selected by f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Task is a single to-do entry.
type Task struct {
	ID        int64     `json:"id" yaml:"id" toml:"id" validate:"required,gt=0"`
	Text      string    `json:"text" yaml:"text" toml:"text" validate:"required"`
	Completed bool      `json:"completed" yaml:"completed" toml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
}

// UnmarshalJSON accepts createdAt as either an RFC 3339 string or a number of
// milliseconds since the epoch. Missing fields keep their zero values, and so
// does a createdAt that cannot be read: it is informational and must not cost
// the rest of the list.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        json.Number     `json:"id"`
		Text      string          `json:"text"`
		Completed bool            `json:"completed"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := parseID(raw.ID)
	if err != nil {
		return err
	}
	createdAt, err := parseTimestamp(raw.CreatedAt)
	if err != nil {
		logrus.WithField("id", id).Debugf("ignoring createdAt: %v", err)
		createdAt = time.Time{}
	}

	*t = Task{
		ID:        id,
		Text:      raw.Text,
		Completed: raw.Completed,
		CreatedAt: createdAt,
	}
	return nil
}

func parseID(n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	if id, err := n.Int64(); err == nil {
		return id, nil
	}
	// Ids written by other tools may carry a fractional part. Ids that do not
	// fit an int64 become 0 so the load sanitizer drops just that record.
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: %w", n, err)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		logrus.Debugf("ignoring out of range task id %s", n)
		return 0, nil
	}
	return int64(f), nil
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return time.Time{}, err
		}
		if str == "" {
			return time.Time{}, nil
		}
		ts, err := time.Parse(time.RFC3339Nano, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid createdAt %q: %w", str, err)
		}
		return ts, nil
	}
	ms, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid createdAt %s: %w", s, err)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// TaskList is the on-disk envelope used by formats that cannot hold a bare
// top-level array (TOML).
type TaskList struct {
	Tasks []Task `json:"tasks" yaml:"tasks" toml:"tasks" validate:"dive"`
}

// global validator instance
var validate = validator.New()

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var errorMessages []string
	for _, e := range validationErrors {
		errorMessages = append(errorMessages, fmt.Sprintf("validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return errors.New(strings.Join(errorMessages, "; "))
}

// NewTask builds a pending task created at now.
func NewTask(id int64, text string, now time.Time) Task {
	return Task{
		ID:        id,
		Text:      text,
		Completed: false,
		CreatedAt: now,
	}
}
