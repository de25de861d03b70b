package todo

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// linePattern matches the fixed-position prefix fields of a todo.txt line:
// optional completion marker with an optional completion date, optional
// (P) priority, optional created date, then the description. The
// completion date is only recognized after the x marker, so a pending
// task that starts with a date keeps it as the created date.
var (
	linePattern  = regexp.MustCompile(`^(?:(x)\s+(?:(\d{4}-\d{2}-\d{2})\s+)?)?(?:\(([A-Z])\)\s+)?(?:(\d{4}-\d{2}-\d{2})\s+)?(.+)$`)
	tagPattern   = regexp.MustCompile(`(^|\s)([@+])(\w+)`)
	spacePattern = regexp.MustCompile(`\s{2,}`)
)

// LineError reports a line that does not conform to the todo.txt grammar.
type LineError struct {
	Line int    // 1-based line number, 0 when unknown
	Text string // the offending raw line
}

func (e *LineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid task line %d: %q", e.Line, e.Text)
	}
	return fmt.Sprintf("invalid task line: %q", e.Text)
}

// ParseLine decodes a single trimmed, non-empty todo.txt line.
// Embedded @context and +project tokens are extracted from the
// description in order of first appearance and stripped from the text.
// Absent dates stay absent; nothing is defaulted on this path.
func ParseLine(line string) (Task, error) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Task{}, &LineError{Text: line}
	}
	desc, contexts, projects := extractTags(m[5])
	if desc == "" {
		return Task{}, &LineError{Text: line}
	}
	t := Task{
		Description:   desc,
		Completed:     m[1] != "",
		CompletedDate: m[2],
		Priority:      m[3],
		CreatedDate:   m[4],
	}
	for _, c := range contexts {
		t.AddContext(c)
	}
	for _, p := range projects {
		t.AddProject(p)
	}
	return t, nil
}

// Line serializes the task into its canonical todo.txt form:
//
//	[x completedDate] [(P)] [createdDate] description [@context ...] [+project ...]
//
// It is the inverse of ParseLine up to whitespace normalization.
func (t Task) Line() string {
	var b strings.Builder
	if t.Completed {
		b.WriteString("x ")
		if t.CompletedDate != "" {
			b.WriteString(t.CompletedDate)
			b.WriteByte(' ')
		}
	}
	if t.Priority != "" {
		b.WriteString("(")
		b.WriteString(t.Priority)
		b.WriteString(") ")
	}
	if t.CreatedDate != "" {
		b.WriteString(t.CreatedDate)
		b.WriteByte(' ')
	}
	b.WriteString(t.Description)
	for _, c := range t.Contexts {
		b.WriteString(" @")
		b.WriteString(c)
	}
	for _, p := range t.Projects {
		b.WriteString(" +")
		b.WriteString(p)
	}
	return strings.TrimSpace(spacePattern.ReplaceAllString(b.String(), " "))
}

// extractTags pulls whitespace-prefixed @context and +project tokens out
// of a description, preserving order of first appearance and suppressing
// duplicates, and returns the stripped, whitespace-collapsed remainder.
// Every +token is a project; there is no separate "tags" set.
func extractTags(desc string) (text string, contexts, projects []string) {
	for _, m := range tagPattern.FindAllStringSubmatch(desc, -1) {
		switch m[2] {
		case "@":
			if !slices.Contains(contexts, m[3]) {
				contexts = append(contexts, m[3])
			}
		case "+":
			if !slices.Contains(projects, m[3]) {
				projects = append(projects, m[3])
			}
		}
	}
	text = tagPattern.ReplaceAllString(desc, "$1")
	text = strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
	return text, contexts, projects
}
