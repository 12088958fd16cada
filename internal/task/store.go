package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the backing file inside the storage directory.
const FileName = "tasks.json"

// ErrCorrupt marks a backing file whose content did not parse as a
// task list. Loading still yields an empty store for compatibility
// with how existing files have always been recovered.
var ErrCorrupt = errors.New("tasks file corrupt")

// Store owns the ordered task list and its persistence. It is meant
// for a single process performing one command; there is no locking,
// and concurrent invocations against the same file race with
// last-writer-wins semantics.
type Store struct {
	path    string
	tasks   []Task
	loadErr error
}

// Open creates the storage directory if needed and loads tasks.json.
// A missing file yields an empty store. A file that exists but cannot
// be read or parsed also yields an empty store; the underlying problem
// is retrievable via LoadErr so callers can report it without failing
// the command.
func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	s := &Store{path: filepath.Join(dir, FileName)}
	s.load()
	return s, nil
}

// load reads the backing file into memory. Parse failures degrade to
// an empty store; existing files have always been recovered this way
// and callers depend on the command still running.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.loadErr = fmt.Errorf("read %s: %w", s.path, err)
		}
		return
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.loadErr = fmt.Errorf("%w: parse %s: %v", ErrCorrupt, s.path, err)
		return
	}
	s.tasks = tasks
}

// LoadErr reports the non-fatal problem absorbed during Open, if any.
func (s *Store) LoadErr() error {
	return s.loadErr
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of tasks in the store.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Save serializes the task list to the backing file with 2-space
// indentation. The write goes through a temp file and rename so a
// failure never leaves partial content behind.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write tasks file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close tasks file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace tasks file: %w", err)
	}
	return nil
}

// NextID returns 1 + max(existing ids), or 1 for an empty store.
// IDs are never reused after deletion.
func (s *Store) NextID() int {
	max := 0
	for i := range s.tasks {
		if s.tasks[i].ID > max {
			max = s.tasks[i].ID
		}
	}
	return max + 1
}

// Add appends a new todo task with a fresh id and persists the store.
func (s *Store) Add(description string) (Task, error) {
	now := Now()
	t := Task{
		ID:          s.NextID(),
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append(s.tasks, t)
	if err := s.Save(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return Task{}, err
	}
	return t, nil
}

// Update replaces the description of the task with the given id and
// refreshes its updatedAt. Returns false if no task matches.
func (s *Store) Update(id int, description string) (bool, error) {
	t := s.find(id)
	if t == nil {
		return false, nil
	}
	t.Description = description
	t.UpdatedAt = Now()
	return true, s.Save()
}

// MarkStatus sets the status of the task with the given id and
// refreshes its updatedAt. Returns false if no task matches.
func (s *Store) MarkStatus(id int, status Status) (bool, error) {
	t := s.find(id)
	if t == nil {
		return false, nil
	}
	t.Status = status
	t.UpdatedAt = Now()
	return true, s.Save()
}

// Delete removes the task with the given id, preserving the relative
// order of the remaining tasks. Returns whether a removal occurred.
func (s *Store) Delete(id int) (bool, error) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true, s.Save()
		}
	}
	return false, nil
}

// GetByID returns the task with the given id.
func (s *Store) GetByID(id int) (Task, bool) {
	if t := s.find(id); t != nil {
		return *t, true
	}
	return Task{}, false
}

// List returns tasks in insertion order. An empty filter returns all
// tasks; otherwise only tasks with the matching status are returned.
// The result is a copy, the store keeps exclusive ownership of its list.
func (s *Store) List(filter Status) []Task {
	out := make([]Task, 0, len(s.tasks))
	for i := range s.tasks {
		if filter != "" && s.tasks[i].Status != filter {
			continue
		}
		out = append(out, s.tasks[i])
	}
	return out
}

// find locates a task by id. Always a genuine scan over ids; positions
// in the slice are unrelated to ids once tasks have been deleted.
func (s *Store) find(id int) *Task {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i]
		}
	}
	return nil
}
