package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nkoval/todosh/internal/todo"
)

func newSession(t *testing.T, content string) (*Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := New(path, false, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s, path
}

func TestNewMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.txt")

	if _, err := New(path, false, nil); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("New without create = %v, want fs.ErrNotExist", err)
	}

	s, err := New(path, true, nil)
	if err != nil {
		t.Fatalf("New with create failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("backing file not created: %v", err)
	}
}

// A failed switch leaves the previous store active and unmodified.
func TestSwitchFailureKeepsActiveStore(t *testing.T) {
	s, path := newSession(t, "Task one\n")

	missing := filepath.Join(t.TempDir(), "absent.txt")
	if err := s.Switch(missing, false); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Switch = %v, want fs.ErrNotExist", err)
	}
	if s.Path() != path {
		t.Errorf("active path = %q, want %q", s.Path(), path)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	// A malformed target file behaves the same way.
	bad := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(bad, []byte("@only +tags\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var le *todo.LineError
	if err := s.Switch(bad, false); !errors.As(err, &le) {
		t.Fatalf("Switch to malformed file = %v, want *todo.LineError", err)
	}
	if s.Path() != path {
		t.Errorf("active path after failed switch = %q, want %q", s.Path(), path)
	}
}

func TestSwitchCreate(t *testing.T) {
	s, _ := newSession(t, "Task one\n")
	target := filepath.Join(t.TempDir(), "new.txt")

	if err := s.Switch(target, true); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}
	if s.Path() != target {
		t.Errorf("active path = %q, want %q", s.Path(), target)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestAddTask(t *testing.T) {
	s, _ := newSession(t, "")
	got, err := s.AddTask("Call @alice about +launch", "B", nil, nil)
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if got.Description != "Call about" {
		t.Errorf("Description = %q", got.Description)
	}
	if got.CreatedDate == "" {
		t.Error("CreatedDate not stamped")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

// Validation failures never touch the store.
func TestAddTaskValidation(t *testing.T) {
	s, path := newSession(t, "Task one\n")

	if _, err := s.AddTask("desc", "ab", nil, nil); !errors.Is(err, todo.ErrInvalidPriority) {
		t.Errorf("AddTask bad priority = %v, want ErrInvalidPriority", err)
	}
	if _, err := s.AddTask("", "", nil, nil); !errors.Is(err, todo.ErrEmptyDescription) {
		t.Errorf("AddTask empty description = %v, want ErrEmptyDescription", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Task one\n" {
		t.Errorf("file content = %q", string(data))
	}
}

func TestCompleteAndRemove(t *testing.T) {
	s, _ := newSession(t, "A\nB\nC\n")

	removed, err := s.Remove(2)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed.Description != "B" {
		t.Errorf("removed %q, want B", removed.Description)
	}

	completed, err := s.Complete(2)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.Description != "C" {
		t.Errorf("completed %q, want C", completed.Description)
	}

	if _, err := s.Complete(5); !errors.Is(err, todo.ErrIndexOutOfRange) {
		t.Errorf("Complete(5) = %v, want ErrIndexOutOfRange", err)
	}
}

func TestKnownTags(t *testing.T) {
	s, _ := newSession(t, "A +work @office\nB +home @office @phone\nC +work\n")
	projects, contexts := s.KnownTags()
	if !reflect.DeepEqual(projects, []string{"home", "work"}) {
		t.Errorf("projects = %v", projects)
	}
	if !reflect.DeepEqual(contexts, []string{"office", "phone"}) {
		t.Errorf("contexts = %v", contexts)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := ListFiles(dir, ".txt")
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a.txt", "b.txt"}) {
		t.Errorf("ListFiles = %v, want [a.txt b.txt]", got)
	}
}
