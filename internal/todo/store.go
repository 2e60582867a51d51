package todo

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultFile is the task file used when none is configured.
const DefaultFile = "tasks.txt"

// RejectedSuffix is appended to the task file path to name the file that
// receives records isolated by strict loading.
const RejectedSuffix = ".rejected"

// Store owns the ordered task list and its file. It is not safe for
// concurrent use; the file is assumed to have a single writer.
type Store struct {
	path   string
	format Format
	strict bool
	logger *log.Logger

	tasks  []Task
	nextID int
	report LoadReport
}

// Option configures a Store.
type Option func(*Store)

// WithFormat sets the file format. FormatAuto detects it from the path.
func WithFormat(f Format) Option {
	return func(s *Store) {
		s.format = f
	}
}

// WithStrict enables strict loading.
func WithStrict(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

// WithLogger sets the logger used for saves and skipped records.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open creates a Store for path and loads it. A missing file yields an
// empty store.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		path = DefaultFile
	}
	s := &Store{
		path:   path,
		logger: log.New(io.Discard),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.format = DetectFormat(path, s.format)

	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Format returns the resolved file format.
func (s *Store) Format() Format {
	return s.format
}

// Report returns the summary of the last load.
func (s *Store) Report() LoadReport {
	r := s.report
	r.Skipped = append([]SkippedRecord(nil), s.report.Skipped...)
	return r
}

// Load re-reads the task file, replacing the in-memory list, and returns a
// copy of it. Loaded tasks get fresh IDs.
func (s *Store) Load() ([]Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.tasks = nil
			s.report = LoadReport{}
			s.logger.Debug("task file not found, starting empty", "path", s.path)
			return s.Tasks(), nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	tasks, skipped, err := codecFor(s.format).decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}

	if s.strict {
		var rejected []string
		kept := tasks[:0]
		for _, t := range tasks {
			if err := validateRecord(t); err != nil {
				line := FormatLine(t)
				skipped = append(skipped, SkippedRecord{Raw: line, Reason: err.Error()})
				rejected = append(rejected, line)
				continue
			}
			kept = append(kept, t)
		}
		tasks = kept
		if len(rejected) > 0 {
			if err := appendLines(s.path+RejectedSuffix, rejected); err != nil {
				return nil, fmt.Errorf("isolate rejected records: %w", err)
			}
			s.logger.Warn("isolated invalid records", "count", len(rejected), "file", s.path+RejectedSuffix)
		}
	}

	for i := range tasks {
		tasks[i].ID = s.nextID
		s.nextID++
	}
	s.tasks = tasks
	s.report = LoadReport{Loaded: len(tasks), Skipped: skipped}

	for _, sk := range skipped {
		s.logger.Debug("skipped record", "line", sk.Line, "reason", sk.Reason)
	}
	s.logger.Debug("tasks loaded", "path", s.path, "count", len(tasks), "skipped", len(skipped))

	return s.Tasks(), nil
}

// Save rewrites the task file from the in-memory list.
func (s *Store) Save() error {
	data, err := codecFor(s.format).encode(s.tasks)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	s.logger.Debug("tasks saved to file", "path", s.path, "count", len(s.tasks))
	return nil
}

// Tasks returns a copy of the task list in order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task with the given ID.
func (s *Store) Get(id int) (Task, bool) {
	i := s.Index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Index returns the position of the task with the given ID, or -1.
func (s *Store) Index(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a new pending task, saves, and returns it with its ID.
func (s *Store) Add(text string, priority Priority, dueDate string) (Task, error) {
	t := Task{
		ID:       s.nextID,
		Text:     text,
		Priority: priority,
		DueDate:  dueDate,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	if err := s.Save(); err != nil {
		return t, err
	}
	return t, nil
}

func (s *Store) inRange(index int) bool {
	return index >= 0 && index < len(s.tasks)
}

// Remove deletes the task at index and saves. An out-of-range index is a
// no-op.
func (s *Store) Remove(index int) error {
	if !s.inRange(index) {
		return nil
	}
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	return s.Save()
}

// Complete marks the task at index completed and saves. An out-of-range
// index is a no-op.
func (s *Store) Complete(index int) error {
	if !s.inRange(index) {
		return nil
	}
	s.tasks[index].Completed = true
	return s.Save()
}

// Edit replaces text, priority and due date of the task at index and saves.
// The completion flag is kept. An out-of-range index is a no-op.
func (s *Store) Edit(index int, text string, priority Priority, dueDate string) error {
	if !s.inRange(index) {
		return nil
	}
	s.tasks[index].Text = text
	s.tasks[index].Priority = priority
	s.tasks[index].DueDate = dueDate
	return s.Save()
}

// Clear removes every task and saves.
func (s *Store) Clear() error {
	s.tasks = nil
	return s.Save()
}

func (s *Store) indexOf(id int) (int, error) {
	i := s.Index(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: id %d", ErrTaskNotFound, id)
	}
	return i, nil
}

// RemoveID deletes the task with the given ID and saves.
func (s *Store) RemoveID(id int) error {
	i, err := s.indexOf(id)
	if err != nil {
		return err
	}
	return s.Remove(i)
}

// CompleteID marks the task with the given ID completed and saves.
func (s *Store) CompleteID(id int) error {
	return s.SetCompletedID(id, true)
}

// SetCompletedID sets the completion flag of the task with the given ID and
// saves.
func (s *Store) SetCompletedID(id int, completed bool) error {
	i, err := s.indexOf(id)
	if err != nil {
		return err
	}
	s.tasks[i].Completed = completed
	return s.Save()
}

// EditID replaces text, priority and due date of the task with the given ID
// and saves.
func (s *Store) EditID(id int, text string, priority Priority, dueDate string) error {
	i, err := s.indexOf(id)
	if err != nil {
		return err
	}
	return s.Edit(i, text, priority, dueDate)
}

// Filter returns the tasks whose completion flag equals completed, in order.
func (s *Store) Filter(completed bool) []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

// Search returns the tasks whose text contains keyword, ignoring case, in
// order.
func (s *Store) Search(keyword string) []Task {
	needle := strings.ToLower(keyword)
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			out = append(out, t)
		}
	}
	return out
}
