package store

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/josephgoksu/todowing/models"
	"github.com/sirupsen/logrus"
)

// Adapter is the persistence adapter for the task list: it encodes the whole
// list into one blob and keeps it under a fixed key of a KV backend.
type Adapter struct {
	kv    KV
	key   string
	codec Codec
	log   logrus.FieldLogger
}

// NewAdapter creates an Adapter. An empty key falls back to DefaultKey and a
// nil codec to JSON.
func NewAdapter(kv KV, key string, codec Codec, log logrus.FieldLogger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if codec == nil {
		codec = jsonCodec{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Adapter{
		kv:    kv,
		key:   key,
		codec: codec,
		log:   log.WithField("key", key),
	}
}

// Key returns the storage key.
func (a *Adapter) Key() string { return a.key }

// Load reads the stored task list. A missing, unreadable or malformed blob
// yields an empty list; the failure is logged and never returned.
func (a *Adapter) Load() []models.Task {
	tasks, err := a.TryLoad()
	if err != nil {
		a.log.WithError(err).Warn("could not load stored tasks, starting with an empty list")
		return []models.Task{}
	}
	return tasks
}

// TryLoad is Load with the failure reported. Nothing stored is not a failure.
func (a *Adapter) TryLoad() ([]models.Task, error) {
	data, err := a.kv.Get(a.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", a.key, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Task{}, nil
	}
	tasks, err := a.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.key, err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Save serializes the full list and overwrites the stored blob.
func (a *Adapter) Save(tasks []models.Task) error {
	data, err := a.codec.Encode(tasks)
	if err != nil {
		return fmt.Errorf("encode %s: %w", a.key, err)
	}
	if err := a.kv.Set(a.key, data); err != nil {
		return fmt.Errorf("write %s: %w", a.key, err)
	}
	a.log.WithField("tasks", len(tasks)).Debug("saved task list")
	return nil
}

// Close closes the underlying backend.
func (a *Adapter) Close() error {
	return a.kv.Close()
}
