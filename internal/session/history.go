package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/feelsunbreeze/gradecalc/internal/grading"
	"github.com/google/uuid"
)

const HistoryFile = "rec_calculator_history.json"

type Kind string

const (
	KindEndSem Kind = "endSem"
	KindGPA    Kind = "gpa"
	KindCGPA   Kind = "cgpa"
)

func (k Kind) Label() string {
	switch k {
	case KindEndSem:
		return "EndSem"
	case KindGPA:
		return "GPA"
	case KindCGPA:
		return "CGPA"
	default:
		return string(k)
	}
}

// Entry is one finished calculation. Entries are never changed once added.
type Entry struct {
	ID        uuid.UUID             `json:"id"`
	Kind      Kind                  `json:"kind"`
	CreatedAt time.Time             `json:"created_at"`
	EndSem    *grading.EndSemResult `json:"end_sem,omitempty"`
	GPA       *grading.GPAResult    `json:"gpa,omitempty"`
	CGPA      *grading.CGPAResult   `json:"cgpa,omitempty"`
}

func NewGPAEntry(r grading.GPAResult) Entry {
	return Entry{ID: uuid.New(), Kind: KindGPA, CreatedAt: time.Now(), GPA: &r}
}

func NewCGPAEntry(r grading.CGPAResult) Entry {
	return Entry{ID: uuid.New(), Kind: KindCGPA, CreatedAt: time.Now(), CGPA: &r}
}

func NewEndSemEntry(r grading.EndSemResult) Entry {
	return Entry{ID: uuid.New(), Kind: KindEndSem, CreatedAt: time.Now(), EndSem: &r}
}

// Value is the headline number of the entry.
func (e Entry) Value() float64 {
	switch {
	case e.GPA != nil:
		return e.GPA.GPA
	case e.CGPA != nil:
		return e.CGPA.CGPA
	case e.EndSem != nil:
		return e.EndSem.RequiredMark
	}
	return 0
}

func (e Entry) Summary() string {
	switch {
	case e.GPA != nil:
		return fmt.Sprintf("%d subjects, %s credits", len(e.GPA.Subjects), grading.FormatMark(e.GPA.TotalCredits()))
	case e.CGPA != nil:
		return fmt.Sprintf("%d semesters, %s credits", len(e.CGPA.Semesters), grading.FormatMark(e.CGPA.TotalCredits()))
	case e.EndSem != nil:
		return fmt.Sprintf("%s, target %s", e.EndSem.Subject, e.EndSem.Target.Label())
	}
	return ""
}

type Store interface {
	Add(Entry) error
	Clear() error
	// List returns entries in the order they were added.
	List() []Entry
}

// Filter keeps entries of kind k; an empty kind keeps everything.
func Filter(entries []Entry, k Kind) []Entry {
	if k == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

func (s *MemoryStore) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// FileStore keeps the history in memory and rewrites a JSON file under dir on
// every change.
type FileStore struct {
	mem  MemoryStore
	path string
}

func OpenFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	s := &FileStore{path: filepath.Join(dir, HistoryFile)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	if err := sonic.ConfigStd.Unmarshal(data, &s.mem.entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Add(e Entry) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	entries := append(append([]Entry(nil), s.mem.entries...), e)
	if err := s.write(entries); err != nil {
		return err
	}
	s.mem.entries = entries
	return nil
}

func (s *FileStore) Clear() error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	s.mem.entries = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove history file: %w", err)
	}
	return nil
}

func (s *FileStore) List() []Entry {
	return s.mem.List()
}

func (s *FileStore) write(entries []Entry) error {
	data, err := sonic.ConfigStd.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
