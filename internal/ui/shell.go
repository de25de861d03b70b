// Package ui implements the interactive task shell.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/nkoval/todosh/internal/config"
	"github.com/nkoval/todosh/internal/session"
	"github.com/nkoval/todosh/internal/todo"
)

const (
	intro         = "Welcome to the Interactive Task Manager (todo.txt format)! Type ? or help to see commands."
	commandPrompt = "(task-manager) "
)

const helpText = `Commands:
  add [text]     Add a task; without text, an interactive form opens.
                 Text may embed @context and +project tags.
  list           Show all tasks (--sort=priority|status|task,
                 --filter=pending|completed)
  complete <id>  Mark a task as completed
  remove <id>    Remove a task
  switch [path]  Switch to another todo file
  help           Show this help
  exit           Leave the task manager`

// commands feeds the command-line autocompletion.
var commands = []string{"add", "list", "complete", "remove", "switch", "help", "exit"}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// mode tracks which prompt the shell is currently showing. Everything
// besides modeCommand belongs to the add form or the switch flow.
type mode int

const (
	modeCommand mode = iota
	modeAddDescription
	modeAddPriority
	modeAddProjects
	modeAddContexts
	modeSwitchPick
	modeSwitchName
	modeSwitchConfirm
)

// draft is a task being assembled by the interactive add form.
type draft struct {
	description string
	priority    string
	projects    []string
	contexts    []string
}

// Model is the bubbletea model for the shell. It runs inline (no alt
// screen); executed commands and their output scroll above the prompt.
type Model struct {
	cfg  *config.Config
	sess *session.Session

	input textinput.Model
	mode  mode

	draft       draft
	files       []string // switch picker entries
	pendingPath string   // path awaiting create confirmation

	quitting bool
	fatal    error // unrecoverable I/O failure, surfaced after Run
}

// Run starts the interactive shell on the given session and blocks until
// the user exits or an unrecoverable I/O error occurs.
func Run(ctx context.Context, cfg *config.Config, sess *session.Session) error {
	if cfg.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	program := tea.NewProgram(New(cfg, sess), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if m, ok := finalModel.(*Model); ok && m.fatal != nil {
		return m.fatal
	}
	return err
}

// New builds the shell model.
func New(cfg *config.Config, sess *session.Session) *Model {
	ti := textinput.New()
	ti.Prompt = commandPrompt
	ti.CharLimit = 512
	ti.Width = 64
	ti.ShowSuggestions = true
	ti.SetSuggestions(commands)
	ti.Focus()

	return &Model{cfg: cfg, sess: sess, input: ti, mode: modeCommand}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.Println(intro))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Sequence(tea.Println(infoStyle.Render("Goodbye!")), tea.Quit)
		case tea.KeyEsc:
			if m.mode != modeCommand {
				m.toCommandMode()
				return m, tea.Println(warnStyle.Render("Cancelled."))
			}
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			echo := tea.Println(m.input.Prompt + value)
			m.input.Reset()
			return m, tea.Sequence(echo, m.submit(value))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return m.input.View() + "\n"
}

// submit handles one entered line according to the current mode.
func (m *Model) submit(value string) tea.Cmd {
	switch m.mode {
	case modeCommand:
		return m.execCommand(value)

	case modeAddDescription:
		if value == "" {
			m.toCommandMode()
			return tea.Println(errorStyle.Render("Task description cannot be empty!"))
		}
		m.draft.description = value
		m.mode = modeAddPriority
		m.input.Prompt = "Priority (A-Z, optional): "
		m.input.SetSuggestions(nil)
		return nil

	case modeAddPriority:
		if err := todo.ValidatePriority(value); err != nil {
			// Re-prompt until the input is valid or empty.
			return tea.Println(errorStyle.Render("Priority must be a single uppercase letter (A-Z) or empty."))
		}
		m.draft.priority = value
		m.mode = modeAddProjects
		m.input.Prompt = "Projects (e.g. +Work +Home, empty to continue): "
		projects, _ := m.sess.KnownTags()
		m.input.SetSuggestions(prefixTags("+", projects))
		return nil

	case modeAddProjects:
		if value != "" {
			m.draft.projects = append(m.draft.projects, splitTags(value)...)
			return nil
		}
		m.mode = modeAddContexts
		m.input.Prompt = "Contexts (e.g. @Home @Work, empty to finish): "
		_, contexts := m.sess.KnownTags()
		m.input.SetSuggestions(prefixTags("@", contexts))
		return nil

	case modeAddContexts:
		if value != "" {
			m.draft.contexts = append(m.draft.contexts, splitTags(value)...)
			return nil
		}
		d := m.draft
		m.toCommandMode()
		return m.addTask(d.description, d.priority, d.projects, d.contexts)

	case modeSwitchPick:
		return m.pickFile(value)

	case modeSwitchName:
		if value == "" {
			m.toCommandMode()
			return tea.Println(warnStyle.Render("No file selected. Operation cancelled."))
		}
		name := value
		if !strings.HasSuffix(name, m.cfg.Extension) {
			name += m.cfg.Extension
		}
		m.toCommandMode()
		return m.createAndSwitch(filepath.Join(m.cfg.TodoDir, name))

	case modeSwitchConfirm:
		path := m.pendingPath
		m.toCommandMode()
		if answer := strings.ToLower(value); answer == "y" || answer == "yes" {
			return m.createAndSwitch(path)
		}
		return tea.Println(warnStyle.Render("No file selected. Operation cancelled."))
	}
	return nil
}

// execCommand dispatches a command-mode line.
func (m *Model) execCommand(line string) tea.Cmd {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "":
		return nil
	case "add":
		if arg == "" {
			m.draft = draft{}
			m.mode = modeAddDescription
			m.input.Prompt = "Task description: "
			m.input.SetSuggestions(nil)
			return tea.Println(infoStyle.Render("Add a new task:"))
		}
		return m.addTask(arg, "", nil, nil)
	case "list":
		return m.listTasks(arg)
	case "complete":
		return m.completeTask(arg)
	case "remove":
		return m.removeTask(arg)
	case "switch":
		return m.switchCommand(arg)
	case "help", "?":
		return tea.Println(helpText)
	case "exit", "quit":
		m.quitting = true
		return tea.Sequence(tea.Println(infoStyle.Render("Goodbye!")), tea.Quit)
	default:
		return tea.Println(errorStyle.Render("Unknown command: ") + line)
	}
}

func (m *Model) addTask(description, priority string, projects, contexts []string) tea.Cmd {
	t, err := m.sess.AddTask(description, priority, projects, contexts)
	switch {
	case err == nil:
		return tea.Println(successStyle.Render("Task added: ") + t.Line())
	case errors.Is(err, todo.ErrEmptyDescription):
		return tea.Println(errorStyle.Render("Task description cannot be empty!"))
	case errors.Is(err, todo.ErrInvalidPriority):
		return tea.Println(errorStyle.Render("Priority must be a single uppercase letter (A-Z) or empty."))
	default:
		return m.fail(err)
	}
}

func (m *Model) listTasks(arg string) tea.Cmd {
	sortBy, filterBy, err := parseListArgs(arg)
	if err != nil {
		return tea.Println(errorStyle.Render(err.Error()))
	}
	rows := indexTasks(m.sess.Tasks())
	if len(rows) == 0 {
		return tea.Println(warnStyle.Render("No tasks available!"))
	}
	rows = filterRows(rows, filterBy)
	sortRows(rows, sortBy)
	return tea.Println(renderTable(rows))
}

func (m *Model) completeTask(arg string) tea.Cmd {
	index, ok := parseIndex(arg)
	if !ok {
		return tea.Println(errorStyle.Render("Please enter a valid task ID."))
	}
	_, err := m.sess.Complete(index)
	switch {
	case err == nil:
		return tea.Println(successStyle.Render(fmt.Sprintf("Task %d marked as completed!", index)))
	case errors.Is(err, todo.ErrIndexOutOfRange):
		return tea.Println(errorStyle.Render("Invalid task ID!"))
	default:
		return m.fail(err)
	}
}

func (m *Model) removeTask(arg string) tea.Cmd {
	index, ok := parseIndex(arg)
	if !ok {
		return tea.Println(errorStyle.Render("Please enter a valid task ID."))
	}
	t, err := m.sess.Remove(index)
	switch {
	case err == nil:
		return tea.Println(warnStyle.Render("Task removed: ") + t.Description)
	case errors.Is(err, todo.ErrIndexOutOfRange):
		return tea.Println(errorStyle.Render("Invalid task ID!"))
	default:
		return m.fail(err)
	}
}

// switchCommand either switches directly to the named file or opens the
// numbered file picker over the configured directory.
func (m *Model) switchCommand(arg string) tea.Cmd {
	if arg != "" {
		return m.switchTo(arg)
	}

	files, err := session.ListFiles(m.cfg.TodoDir, m.cfg.Extension)
	if err != nil {
		return tea.Println(errorStyle.Render("Cannot read directory: " + err.Error()))
	}
	m.files = files
	m.mode = modeSwitchPick
	m.input.Prompt = "File number: "
	m.input.SetSuggestions(nil)

	var b strings.Builder
	b.WriteString(infoStyle.Render("Select a todo file:"))
	for i, f := range files {
		fmt.Fprintf(&b, "\n%d. %s", i+1, f)
	}
	fmt.Fprintf(&b, "\n%d. Create a new %s file", len(files)+1, m.cfg.Extension)
	return tea.Println(b.String())
}

// pickFile handles a numeric choice from the switch picker.
func (m *Model) pickFile(value string) tea.Cmd {
	choice, err := strconv.Atoi(value)
	if err != nil || choice < 1 || choice > len(m.files)+1 {
		m.toCommandMode()
		return tea.Println(errorStyle.Render("Invalid selection!"))
	}
	if choice == len(m.files)+1 {
		m.mode = modeSwitchName
		m.input.Prompt = "Name for the new file: "
		return nil
	}
	path := filepath.Join(m.cfg.TodoDir, m.files[choice-1])
	m.toCommandMode()
	return m.switchTo(path)
}

// switchTo switches to an existing file; a missing one triggers the
// create confirmation, any other load failure leaves the current store
// active.
func (m *Model) switchTo(path string) tea.Cmd {
	err := m.sess.Switch(path, false)
	var le *todo.LineError
	switch {
	case err == nil:
		return tea.Println(successStyle.Render("Switched to file: " + path))
	case errors.Is(err, fs.ErrNotExist):
		m.pendingPath = path
		m.mode = modeSwitchConfirm
		m.input.Prompt = fmt.Sprintf("File %s does not exist. Create it? [y/N]: ", path)
		m.input.SetSuggestions(nil)
		return nil
	case errors.As(err, &le):
		return tea.Println(errorStyle.Render("Cannot load file: " + err.Error()))
	default:
		return m.fail(err)
	}
}

func (m *Model) createAndSwitch(path string) tea.Cmd {
	if err := m.sess.Switch(path, true); err != nil {
		return m.fail(err)
	}
	return tea.Println(successStyle.Render("Switched to file: " + path))
}

// fail records an unrecoverable I/O error and shuts the shell down. The
// error is returned by Run.
func (m *Model) fail(err error) tea.Cmd {
	m.fatal = err
	m.quitting = true
	return tea.Quit
}

// toCommandMode returns the prompt to the command line.
func (m *Model) toCommandMode() {
	m.mode = modeCommand
	m.input.Prompt = commandPrompt
	m.input.SetSuggestions(commands)
	m.pendingPath = ""
	m.files = nil
}

// parseIndex parses a 1-based task index argument.
func parseIndex(arg string) (int, bool) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, false
	}
	return index, true
}

// splitTags splits form input like "+Work +Home" or "@Home @Work" into
// bare tokens.
func splitTags(input string) []string {
	var tags []string
	for _, f := range strings.Fields(input) {
		tag := strings.TrimLeft(f, "+@")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// prefixTags prepends the tag marker for completion suggestions.
func prefixTags(marker string, tags []string) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = marker + tag
	}
	return out
}
