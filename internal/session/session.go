package session

import (
	"errors"
	"fmt"

	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Session is the state every calculator flow shares. Flows only ever append
// to History.
type Session struct {
	History  Store
	Profiles ProfileStore
	Logger   gokitlog.Logger
}

func New(history Store, profiles ProfileStore, logger gokitlog.Logger) *Session {
	if logger == nil {
		logger = gokitlog.NewNopLogger()
	}
	return &Session{History: history, Profiles: profiles, Logger: logger}
}

// Open builds a session backed by files under dir.
func Open(dir string, logger gokitlog.Logger) (*Session, error) {
	history, err := OpenFileStore(dir)
	if err != nil {
		return nil, err
	}
	return New(history, NewFileProfileStore(dir), logger), nil
}

func NewMemory() *Session {
	return New(NewMemoryStore(), &MemoryProfileStore{}, nil)
}

func (s *Session) Profile() (Profile, bool) {
	p, ok, err := s.Profiles.Load()
	if err != nil {
		level.Warn(s.Logger).Log("msg", "failed to load profile", "err", err)
		return Profile{}, false
	}
	return p, ok
}

func (s *Session) HasProfile() bool {
	_, ok := s.Profile()
	return ok
}

func (s *Session) SignIn(p Profile) error {
	if err := s.Profiles.Save(p); err != nil {
		return err
	}
	level.Info(s.Logger).Log("msg", "profile saved", "department", p.Department, "year", p.YearOfStudy)
	return nil
}

// ErrNotRecorded marks a calculation that succeeded but whose history entry
// could not be stored.
var ErrNotRecorded = errors.New("calculation not saved to history")

// Record appends a calculation to the history. A failing store is logged and
// reported but never undoes the calculation.
func (s *Session) Record(e Entry) error {
	if err := s.History.Add(e); err != nil {
		level.Error(s.Logger).Log("msg", "failed to record history", "kind", e.Kind, "err", err)
		return fmt.Errorf("%w: %w", ErrNotRecorded, err)
	}
	level.Info(s.Logger).Log("msg", "history recorded", "kind", e.Kind, "id", e.ID)
	return nil
}

func (s *Session) ClearHistory() error {
	if err := s.History.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	level.Info(s.Logger).Log("msg", "history cleared")
	return nil
}

// Logout forgets the profile and the whole history.
func (s *Session) Logout() error {
	err := errors.Join(s.Profiles.Delete(), s.History.Clear())
	if err != nil {
		level.Error(s.Logger).Log("msg", "logout incomplete", "err", err)
		return err
	}
	level.Info(s.Logger).Log("msg", "logged out")
	return nil
}
