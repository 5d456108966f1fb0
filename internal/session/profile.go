package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

const ProfileFile = "userDetails.json"

// Departments maps the department codes offered at sign-in to their names.
var Departments = []struct {
	Code string
	Name string
}{
	{"AIDS", "Artificial Intelligence & Data Science"},
	{"AIML", "Artificial Intelligence & Machine Learning"},
	{"aeronautical", "Aeronautical Engineering"},
	{"AUTO", "Automobile Engineering"},
	{"BME", "Biomedical Engineering"},
	{"BTE", "Biotechnology"},
	{"CHEM", "Chemical Engineering"},
	{"CIVIL", "Civil Engineering"},
	{"CSBS", "Computer Science & Business Systems"},
	{"CSC", "Computer Science & Engineering Cyber Security"},
	{"CSE", "Computer Science & Engineering"},
	{"CSD", "Computer Science & Design"},
	{"ECE", "Electronics & Communication Engineering"},
	{"EEE", "Electrical & Electronics Engineering"},
	{"FT", "Food Technology"},
	{"IT", "Information Technology"},
	{"MECH", "Mechanical Engineering"},
	{"MCT", "Mechatronics Engineering"},
	{"R&A", "Robotics & Automation"},
}

// Profile is the cosmetic sign-in captured once per session. It gates nothing
// beyond "has the user signed in".
type Profile struct {
	Name        string `json:"name" validate:"required,max=80"`
	Department  string `json:"department" validate:"required,department"`
	YearOfStudy int    `json:"yearOfStudy" validate:"required,min=1,max=4"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return DepartmentName(fl.Field().String()) != ""
	})
	return v
}

func DepartmentName(code string) string {
	for _, d := range Departments {
		if d.Code == code {
			return d.Name
		}
	}
	return ""
}

func (p Profile) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "Name":
		return errors.New("please enter your name (up to 80 characters)")
	case "Department":
		return errors.New("please select your department")
	default:
		return errors.New("please select your year of study (1-4)")
	}
}

var romanYears = map[int]string{1: "I", 2: "II", 3: "III", 4: "IV"}

func (p Profile) YearRoman() string {
	if r, ok := romanYears[p.YearOfStudy]; ok {
		return r
	}
	return fmt.Sprint(p.YearOfStudy)
}

type ProfileStore interface {
	Load() (Profile, bool, error)
	Save(Profile) error
	Delete() error
}

type FileProfileStore struct {
	path string
}

func NewFileProfileStore(dir string) *FileProfileStore {
	return &FileProfileStore{path: filepath.Join(dir, ProfileFile)}
}

func (s *FileProfileStore) Load() (Profile, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := sonic.ConfigStd.Unmarshal(data, &p); err != nil {
		return Profile{}, false, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return p, true, nil
}

func (s *FileProfileStore) Save(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(p.Name)

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	data, err := sonic.ConfigStd.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

func (s *FileProfileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type MemoryProfileStore struct {
	profile *Profile
}

func (s *MemoryProfileStore) Load() (Profile, bool, error) {
	if s.profile == nil {
		return Profile{}, false, nil
	}
	return *s.profile, true, nil
}

func (s *MemoryProfileStore) Save(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(p.Name)
	s.profile = &p
	return nil
}

func (s *MemoryProfileStore) Delete() error {
	s.profile = nil
	return nil
}
