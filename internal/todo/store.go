package todo

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Store is an ordered sequence of tasks bound to one backing file. Every
// mutation rewrites the file in full before returning; there is no
// batching or write-behind. A Store owns its tasks outright, callers only
// ever see copies.
type Store struct {
	path  string
	tasks []Task
}

// Load reads and parses a todo.txt file. Blank lines are skipped. The
// first malformed line aborts the whole load; no partial store is
// returned. A missing file yields an error satisfying
// errors.Is(err, fs.ErrNotExist).
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open todo file: %w", err)
	}
	defer f.Close()

	s := &Store{path: path}
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		t, err := ParseLine(line)
		if err != nil {
			var le *LineError
			if errors.As(err, &le) {
				le.Line = n
			}
			return nil, err
		}
		s.tasks = append(s.tasks, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read todo file: %w", err)
	}
	return s, nil
}

// Create writes a zero-length todo file and returns the empty store bound
// to it. An existing file at path is truncated.
func Create(path string) (*Store, error) {
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return nil, fmt.Errorf("create todo file: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Tasks returns a copy of the task sequence. Mutating the copies does not
// affect the store.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

// Add appends a task and persists the store.
func (s *Store) Add(t Task) error {
	s.tasks = append(s.tasks, t)
	return s.Save()
}

// CompleteAt marks the task at the 1-based index completed, persists the
// store, and returns a copy of the updated task.
func (s *Store) CompleteAt(index int) (Task, error) {
	if index < 1 || index > len(s.tasks) {
		return Task{}, fmt.Errorf("complete task %d of %d: %w", index, len(s.tasks), ErrIndexOutOfRange)
	}
	s.tasks[index-1].MarkCompleted()
	if err := s.Save(); err != nil {
		return Task{}, err
	}
	return s.tasks[index-1], nil
}

// RemoveAt deletes and returns the task at the 1-based index, then
// persists the store. Indices are positions, not identifiers: removing
// task 2 shifts what was task 3 down to position 2.
func (s *Store) RemoveAt(index int) (Task, error) {
	if index < 1 || index > len(s.tasks) {
		return Task{}, fmt.Errorf("remove task %d of %d: %w", index, len(s.tasks), ErrIndexOutOfRange)
	}
	t := s.tasks[index-1]
	s.tasks = slices.Delete(s.tasks, index-1, index)
	if err := s.Save(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Save rewrites the backing file in full, one serialized task per line
// with a trailing newline. The write goes to a temp file in the same
// directory and is renamed over the target, so an interrupted save leaves
// the previous contents intact.
func (s *Store) Save() error {
	var b strings.Builder
	for _, t := range s.tasks {
		b.WriteString(t.Line())
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write todo file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write todo file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write todo file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write todo file: %w", err)
	}
	return nil
}
