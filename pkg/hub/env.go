// Package hub manages Hugging Face credentials and run defaults.
//
// Credentials live in a small env-style file next to the robot config. The
// file is mutated in place: unknown keys, ordering and comments survive
// updates, so operators can keep their own entries in it.
package hub

import (
	"fmt"
	"os"
	"strings"
)

// DefaultEnvFile is the credentials and run-defaults file.
const DefaultEnvFile = "lesurgeon.env"

// Keys written by the auth helper and read by the pipeline commands.
const (
	KeyUser    = "HF_USER"
	KeyToken   = "HF_TOKEN"
	KeyDataset = "DATASET_REPO"
	KeyTask    = "TASK_NAME"
	KeyWandB   = "WANDB_ENTITY"
)

// Env is the parsed file: values for lookup plus the raw lines for
// order-preserving rewrites.
type Env struct {
	path   string
	lines  []string
	values map[string]string
}

// LoadEnv reads an env file. A missing file is not an error; it yields an
// empty Env that Save will create.
func LoadEnv(path string) (*Env, error) {
	e := &Env{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return e, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	e.lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(e.lines) == 1 && e.lines[0] == "" {
		e.lines = nil
	}
	for _, line := range e.lines {
		key, value, ok := parseLine(line)
		if ok {
			e.values[key] = value
		}
	}
	return e, nil
}

func parseLine(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	key, value, ok = strings.Cut(trimmed, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.Trim(strings.TrimSpace(value), `"`)
	return key, value, true
}

// Get returns the value for key, or "" when absent.
func (e *Env) Get(key string) string {
	return e.values[key]
}

// Set updates key in place when it already has a line, or appends a new
// line otherwise.
func (e *Env) Set(key, value string) {
	e.values[key] = value
	for i, line := range e.lines {
		if k, _, ok := parseLine(line); ok && k == key {
			e.lines[i] = key + "=" + value
			return
		}
	}
	e.lines = append(e.lines, key+"="+value)
}

// Save writes the file back, preserving untouched lines verbatim.
func (e *Env) Save() error {
	content := strings.Join(e.lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(e.path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", e.path, err)
	}
	return nil
}
