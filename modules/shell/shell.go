package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	domain "github.com/deymon-d/task-manager-with-tests/domain/task"
	"github.com/deymon-d/task-manager-with-tests/modules/task"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DueDateLayout is the accepted due date input format (DD.MM.YYYY).
const DueDateLayout = "02.01.2006"

const defaultRequestTimeout = 5 * time.Second

var (
	errInvalidID      = errors.New("ID must be a positive number")
	errInvalidDueDate = errors.New("invalid date format, expected DD.MM.YYYY")
)

// Config configures the interactive shell.
type Config struct {
	In             io.Reader
	Out            io.Writer
	RequestTimeout time.Duration
	NoColor        bool
}

// Shell is the interactive text menu over the task services.
type Shell struct {
	port    task.TaskPort
	in      *bufio.Scanner
	out     io.Writer
	timeout time.Duration
	log     *slog.Logger
}

// New creates a Shell reading commands from cfg.In and writing to cfg.Out.
func New(port task.TaskPort, cfg Config, log *slog.Logger) *Shell {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.NoColor {
		text.DisableColors()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Shell{
		port:    port,
		in:      bufio.NewScanner(cfg.In),
		out:     cfg.Out,
		timeout: cfg.RequestTimeout,
		log:     log,
	}
}

type menuItem struct {
	key    string
	label  string
	action func(s *Shell, ctx context.Context) error
}

var menu = []menuItem{
	{"1", "Show all tasks", (*Shell).showAllTasks},
	{"2", "Add a new task", (*Shell).addTask},
	{"3", "Mark a task as completed", (*Shell).completeTask},
	{"4", "Delete a task", (*Shell).deleteTask},
	{"5", "Show pending tasks", (*Shell).showPendingTasks},
	{"6", "Statistics", (*Shell).showStatistics},
	{"7", "Exit", nil},
}

// Run shows the menu and executes commands until the user exits or the input
// ends. Failed commands are reported and the loop goes on.
func (s *Shell) Run(ctx context.Context) error {
	s.println(text.Colors{text.FgGreen, text.Bold}.Sprint("Task manager"))
	s.println("A simple console task manager")

	for ctx.Err() == nil {
		s.printMenu()

		choice, err := s.choose()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}

		if choice.action == nil {
			s.println(text.Colors{text.FgBlue, text.Bold}.Sprint("Goodbye!"))
			return nil
		}

		if err := choice.action(s, ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Error("command failed", "command", choice.label, "error", err)
			s.println(text.FgRed.Sprintf("Error: %v", err))
		}
	}
	return nil
}

func (s *Shell) printMenu() {
	s.println("")
	s.println(text.Colors{text.FgCyan, text.Bold}.Sprint("MENU:"))
	for _, item := range menu {
		s.printf("%s. %s\n", item.key, item.label)
	}
}

// choose reads menu choices until a valid one is entered.
func (s *Shell) choose() (menuItem, error) {
	for {
		answer, err := s.ask(fmt.Sprintf("Choose an action (1-%d)", len(menu)), "")
		if err != nil {
			return menuItem{}, err
		}
		for _, item := range menu {
			if item.key == strings.TrimSpace(answer) {
				return item, nil
			}
		}
		s.println(text.FgRed.Sprint("Please select one of the available options"))
	}
}

func (s *Shell) showAllTasks(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.port.ListTasks(callCtx)
	if err != nil {
		return err
	}
	if len(resp.Tasks) == 0 {
		s.println(text.FgYellow.Sprint("No tasks"))
		return nil
	}
	s.renderAllTasks(resp.Tasks)
	return nil
}

func (s *Shell) addTask(ctx context.Context) error {
	s.println(text.Colors{text.FgGreen, text.Bold}.Sprint("New task"))

	var title string
	for {
		answer, err := s.ask("Title", "")
		if err != nil {
			return err
		}
		switch {
		case strings.TrimSpace(answer) == "":
			s.println(text.FgRed.Sprint("Title cannot be empty!"))
		case utf8.RuneCountInString(answer) > domain.MaxTitleLength:
			s.println(text.FgRed.Sprintf("Title cannot be longer than %d characters!", domain.MaxTitleLength))
		default:
			title = answer
		}
		if title != "" {
			break
		}
	}

	var description string
	for {
		answer, err := s.ask("Description (optional)", "")
		if err != nil {
			return err
		}
		if utf8.RuneCountInString(answer) <= domain.MaxDescriptionLength {
			description = answer
			break
		}
		s.println(text.FgRed.Sprintf("Description cannot be longer than %d characters!", domain.MaxDescriptionLength))
	}

	answer, err := s.ask("Due date (DD.MM.YYYY) or leave empty", "")
	if err != nil {
		return err
	}
	due, err := parseDueDate(answer)
	if err != nil {
		s.println(text.FgRed.Sprintf("%v! The task is saved without a due date.", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	created, err := s.port.CreateTask(callCtx, &task.CreateTaskRequest{
		Title:       title,
		Description: description,
		DueDate:     due,
	})
	if err != nil {
		return err
	}
	s.println(text.FgGreen.Sprintf("Task '%s' added with ID: %d", created.Title, created.ID))
	return nil
}

func (s *Shell) completeTask(ctx context.Context) error {
	answer, err := s.ask("Enter the ID of the task to complete", "")
	if err != nil {
		return err
	}
	id, err := parseTaskID(answer)
	if err != nil {
		s.println(text.FgRed.Sprintf("%v!", err))
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	t, found, err := s.port.CompleteTask(callCtx, id)
	if err != nil {
		return err
	}
	if !found {
		s.println(text.FgRed.Sprintf("Task with ID %d not found", id))
		return nil
	}
	s.println(text.FgGreen.Sprintf("Task '%s' marked as completed", t.Title))
	return nil
}

func (s *Shell) deleteTask(ctx context.Context) error {
	answer, err := s.ask("Enter the ID of the task to delete", "")
	if err != nil {
		return err
	}
	id, err := parseTaskID(answer)
	if err != nil {
		s.println(text.FgRed.Sprintf("%v!", err))
		return nil
	}

	ok, err := s.confirm(fmt.Sprintf("Are you sure you want to delete task %d?", id))
	if err != nil || !ok {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	t, found, err := s.port.DeleteTask(callCtx, id)
	if err != nil {
		return err
	}
	if !found {
		s.println(text.FgRed.Sprintf("Task with ID %d not found", id))
		return nil
	}
	s.println(text.FgGreen.Sprintf("Task '%s' deleted", t.Title))
	return nil
}

func (s *Shell) showPendingTasks(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.port.ListPendingTasks(callCtx)
	if err != nil {
		return err
	}
	if len(resp.Tasks) == 0 {
		s.println(text.FgYellow.Sprint("No pending tasks"))
		return nil
	}
	s.renderPendingTasks(resp.Tasks)
	return nil
}

func (s *Shell) showStatistics(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats, err := s.port.Stats(callCtx)
	if err != nil {
		return err
	}
	s.renderStats(stats)
	return nil
}

// ask prints the prompt and returns the answer as typed, or def when the
// answer is blank. io.EOF is returned once the input is exhausted.
func (s *Shell) ask(prompt, def string) (string, error) {
	if def != "" {
		s.printf("%s [%s]: ", prompt, def)
	} else {
		s.printf("%s: ", prompt)
	}

	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}

	answer := strings.TrimRight(s.in.Text(), "\r")
	if strings.TrimSpace(answer) == "" && def != "" {
		return def, nil
	}
	return answer, nil
}

// confirm asks a yes/no question until it gets an answer.
func (s *Shell) confirm(prompt string) (bool, error) {
	for {
		answer, err := s.ask(prompt+" [y/n]", "")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		s.println(text.FgRed.Sprint("Please enter y or n"))
	}
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// parseTaskID parses a user supplied task ID.
func parseTaskID(input string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// parseDueDate parses an optional DD.MM.YYYY date in local time.
// An empty input yields no date and no error.
func parseDueDate(input string) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	due, err := time.ParseInLocation(DueDateLayout, input, time.Local)
	if err != nil {
		return nil, errInvalidDueDate
	}
	return &due, nil
}
