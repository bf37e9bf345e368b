package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/josephgoksu/todowing/models"
	yaml "gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Codec serializes the whole task list to a single blob.
type Codec interface {
	Format() string
	Encode(tasks []models.Task) ([]byte, error)
	Decode(data []byte) ([]models.Task, error)
}

// CodecFor returns the codec for a data format name.
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return jsonCodec{}, nil
	case FormatYAML, "yml":
		return yamlCodec{}, nil
	case FormatTOML:
		return tomlCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported data format: %s. Supported formats are json, yaml, toml", format)
	}
}

// jsonCodec writes a bare array, the same shape a browser stores.
type jsonCodec struct{}

func (jsonCodec) Format() string { return FormatJSON }

func (jsonCodec) Encode(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return json.MarshalIndent(tasks, "", "  ")
}

func (jsonCodec) Decode(data []byte) ([]models.Task, error) {
	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return tasks, nil
}

type yamlCodec struct{}

func (yamlCodec) Format() string { return FormatYAML }

func (yamlCodec) Encode(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return yaml.Marshal(tasks)
}

func (yamlCodec) Decode(data []byte) ([]models.Task, error) {
	var tasks []models.Task
	if err := yaml.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("unmarshal YAML: %w", err)
	}
	return tasks, nil
}

// tomlCodec wraps the list in a TaskList since TOML has no top-level arrays.
type tomlCodec struct{}

func (tomlCodec) Format() string { return FormatTOML }

func (tomlCodec) Encode(tasks []models.Task) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(models.TaskList{Tasks: tasks}); err != nil {
		return nil, fmt.Errorf("marshal TOML: %w", err)
	}
	return buf.Bytes(), nil
}

func (tomlCodec) Decode(data []byte) ([]models.Task, error) {
	var list models.TaskList
	if err := toml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("unmarshal TOML: %w", err)
	}
	return list.Tasks, nil
}
