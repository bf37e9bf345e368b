package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/josephgoksu/todowing/internal/config"
	"github.com/josephgoksu/todowing/internal/todo"
	"github.com/josephgoksu/todowing/store"
	"github.com/josephgoksu/todowing/types"
	"github.com/sirupsen/logrus"
)

// memoryKV backs the memory backend for the lifetime of the process.
var memoryKV = store.NewMemoryKV()

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// openKV connects the configured storage backend.
func openKV(cfg types.StorageConfig, codec store.Codec) (store.KV, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return store.NewOsFileKV(cfg.Dir, codec.Format(), cfg.Timeout)
	case config.BackendSQLite:
		return store.NewSQLiteKV(cfg.Dir, cfg.Timeout)
	case config.BackendMySQL:
		return store.NewSQLKV(store.DriverMySQL, cfg.DSN, cfg.Timeout)
	case config.BackendRedis:
		return store.DialRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix, cfg.Timeout)
	case config.BackendMemory:
		return memoryKV, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// GetStore opens the configured backend and loads the task list. The
// returned close function releases the backend.
func GetStore(cfg *types.AppConfig, log logrus.FieldLogger) (*todo.Store, func() error, error) {
	codec, err := store.CodecFor(cfg.Storage.Format)
	if err != nil {
		return nil, nil, err
	}
	kv, err := openKV(cfg.Storage, codec)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	adapter := store.NewAdapter(kv, cfg.Storage.Key, codec, log)
	return todo.New(adapter, todo.WithLogger(log)), adapter.Close, nil
}

// withStore runs fn against the store for the current invocation.
func withStore(fn func(s *todo.Store) error) error {
	s, closeFn, err := GetStore(GetConfig(), appLog)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil {
			LogError("close storage", cerr)
		}
	}()
	return fn(s)
}
