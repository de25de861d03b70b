// Package session owns the active task store and file switching.
package session

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nkoval/todosh/internal/todo"
)

// Session holds exactly one active store at a time. Switching stores
// drops the in-memory reference to the previous one; its contents are
// already on disk, nothing is carried over.
type Session struct {
	store  *todo.Store
	logger *log.Logger
}

// New opens a session on the todo file at path. With createIfMissing a
// missing file is created empty; without it the error satisfies
// errors.Is(err, fs.ErrNotExist). A nil logger disables logging.
func New(path string, createIfMissing bool, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Session{logger: logger}
	if err := s.Switch(path, createIfMissing); err != nil {
		return nil, err
	}
	return s, nil
}

// Switch loads (or creates) the todo file at path and makes it the
// active store. On any failure the previously active store stays active
// and untouched.
func (s *Session) Switch(path string, createIfMissing bool) error {
	st, err := todo.Load(path)
	if err != nil {
		if !createIfMissing || !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		st, err = todo.Create(path)
		if err != nil {
			return err
		}
		s.logger.Debug("created todo file", "path", path)
	}
	s.store = st
	s.logger.Debug("switched todo file", "path", path, "tasks", st.Len())
	return nil
}

// Path returns the backing file path of the active store.
func (s *Session) Path() string { return s.store.Path() }

// Tasks returns a read-only snapshot of the active store.
func (s *Session) Tasks() []todo.Task { return s.store.Tasks() }

// Len returns the number of tasks in the active store.
func (s *Session) Len() int { return s.store.Len() }

// AddTask validates and appends a new task, stamping today as its
// created date, and persists the store.
func (s *Session) AddTask(description, priority string, projects, contexts []string) (todo.Task, error) {
	t, err := todo.NewTask(description, priority, projects, contexts)
	if err != nil {
		return todo.Task{}, err
	}
	if err := s.store.Add(t); err != nil {
		return todo.Task{}, err
	}
	s.logger.Debug("added task", "line", t.Line())
	return t, nil
}

// Complete marks the task at the 1-based index done and persists.
func (s *Session) Complete(index int) (todo.Task, error) {
	t, err := s.store.CompleteAt(index)
	if err != nil {
		return todo.Task{}, err
	}
	s.logger.Debug("completed task", "index", index, "line", t.Line())
	return t, nil
}

// Remove deletes and returns the task at the 1-based index and persists.
func (s *Session) Remove(index int) (todo.Task, error) {
	t, err := s.store.RemoveAt(index)
	if err != nil {
		return todo.Task{}, err
	}
	s.logger.Debug("removed task", "index", index, "line", t.Line())
	return t, nil
}

// KnownTags returns the distinct projects and contexts across the active
// store, sorted. The shell feeds these into tag autocompletion.
func (s *Session) KnownTags() (projects, contexts []string) {
	seenProjects := map[string]bool{}
	seenContexts := map[string]bool{}
	for _, t := range s.store.Tasks() {
		for _, p := range t.Projects {
			if !seenProjects[p] {
				seenProjects[p] = true
				projects = append(projects, p)
			}
		}
		for _, c := range t.Contexts {
			if !seenContexts[c] {
				seenContexts[c] = true
				contexts = append(contexts, c)
			}
		}
	}
	sort.Strings(projects)
	sort.Strings(contexts)
	return projects, contexts
}

// ListFiles returns the names of regular files in dir carrying the given
// extension, sorted. It is a pure read of the directory; nothing is
// created or modified.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read todo dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
