package todo

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// dateLayout is the calendar date format used throughout the todo.txt grammar.
const dateLayout = "2006-01-02"

var (
	// ErrEmptyDescription reports a task with no description text left
	// after tag tokens are stripped.
	ErrEmptyDescription = errors.New("task description is empty")
	// ErrInvalidPriority reports a priority that is not a single
	// uppercase letter.
	ErrInvalidPriority = errors.New("priority must be a single uppercase letter (A-Z)")
	// ErrIndexOutOfRange reports a 1-based task index outside [1, Len].
	ErrIndexOutOfRange = errors.New("task index out of range")
)

// Task is the structured form of one todo.txt line.
// Dates are YYYY-MM-DD strings; the empty string means absent.
type Task struct {
	Description   string
	Completed     bool
	Priority      string // single uppercase letter, or empty
	CreatedDate   string
	CompletedDate string
	Contexts      []string // @token markers, insertion order, no duplicates
	Projects      []string // +token markers, insertion order, no duplicates
}

// NewTask builds a fresh task the way the interactive add command does:
// the description is scanned for embedded @context/+project tokens, the
// priority is validated, and the created date is stamped with today.
// This is the only path that stamps a date; reparsing a stored line
// leaves an absent created date absent.
func NewTask(description, priority string, projects, contexts []string) (Task, error) {
	if err := ValidatePriority(priority); err != nil {
		return Task{}, err
	}
	desc, tagContexts, tagProjects := extractTags(description)
	if desc == "" {
		return Task{}, ErrEmptyDescription
	}
	t := Task{
		Description: desc,
		Priority:    priority,
		CreatedDate: time.Now().Format(dateLayout),
	}
	for _, c := range tagContexts {
		t.AddContext(c)
	}
	for _, c := range contexts {
		t.AddContext(c)
	}
	for _, p := range tagProjects {
		t.AddProject(p)
	}
	for _, p := range projects {
		t.AddProject(p)
	}
	return t, nil
}

// ValidatePriority checks that p is empty or a single uppercase letter A-Z.
func ValidatePriority(p string) error {
	if p == "" {
		return nil
	}
	if len(p) != 1 || p[0] < 'A' || p[0] > 'Z' {
		return fmt.Errorf("priority %q: %w", p, ErrInvalidPriority)
	}
	return nil
}

// MarkCompleted flags the task done and stamps the completion date with
// today. Completing an already-completed task re-stamps the date.
func (t *Task) MarkCompleted() {
	t.Completed = true
	t.CompletedDate = time.Now().Format(dateLayout)
}

// AddContext records a context token unless it is already present.
// Comparison is case-sensitive.
func (t *Task) AddContext(context string) {
	if context == "" || slices.Contains(t.Contexts, context) {
		return
	}
	t.Contexts = append(t.Contexts, context)
}

// AddProject records a project token unless it is already present.
// Comparison is case-sensitive.
func (t *Task) AddProject(project string) {
	if project == "" || slices.Contains(t.Projects, project) {
		return
	}
	t.Projects = append(t.Projects, project)
}
