package flow

import (
	"fmt"

	"github.com/feelsunbreeze/gradecalc/internal/grading"
	"github.com/feelsunbreeze/gradecalc/internal/session"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

type Semester struct {
	ID      uuid.UUID
	Number  int
	GPA     string
	Credits string
}

type CGPA struct {
	session   *session.Session
	semesters []*Semester
	result    *grading.CGPAResult
}

func NewCGPA(s *session.Session) *CGPA {
	return &CGPA{
		session:   s,
		semesters: []*Semester{{ID: uuid.New(), Number: 1}},
	}
}

func (c *CGPA) Semesters() []Semester {
	out := make([]Semester, len(c.semesters))
	for i, s := range c.semesters {
		out[i] = *s
	}
	return out
}

func (c *CGPA) Len() int { return len(c.semesters) }

func (c *CGPA) Result() (grading.CGPAResult, bool) {
	if c.result == nil {
		return grading.CGPAResult{}, false
	}
	return *c.result, true
}

func (c *CGPA) AddSemester() uuid.UUID {
	s := &Semester{ID: uuid.New(), Number: len(c.semesters) + 1}
	c.semesters = append(c.semesters, s)
	return s.ID
}

// RemoveSemester drops a row and renumbers the rest from 1.
func (c *CGPA) RemoveSemester(id uuid.UUID) error {
	i := c.index(id)
	if i < 0 {
		return ErrRowNotFound
	}
	if len(c.semesters) == 1 {
		return fmt.Errorf("at least one semester is required: %w", grading.ErrLastRow)
	}
	c.semesters = append(c.semesters[:i], c.semesters[i+1:]...)
	for n, s := range c.semesters {
		s.Number = n + 1
	}
	return nil
}

func (c *CGPA) SetGPA(id uuid.UUID, raw string) error {
	i := c.index(id)
	if i < 0 {
		return ErrRowNotFound
	}
	c.semesters[i].GPA = raw
	return nil
}

func (c *CGPA) SetCredits(id uuid.UUID, raw string) error {
	i := c.index(id)
	if i < 0 {
		return ErrRowNotFound
	}
	c.semesters[i].Credits = raw
	return nil
}

func (c *CGPA) index(id uuid.UUID) int {
	for i, s := range c.semesters {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (c *CGPA) Calculate() (grading.CGPAResult, error) {
	var verr grading.ValidationError
	results := make([]grading.SemesterResult, 0, len(c.semesters))

	for _, s := range c.semesters {
		row := fmt.Sprintf("Semester %d", s.Number)
		gpa, gerr := grading.ParseField(row, grading.FieldGPA, s.GPA)
		credits, cerr := grading.ParseField(row, grading.FieldCredits, s.Credits)
		if gerr != nil || cerr != nil {
			verr.Merge(gerr)
			verr.Merge(cerr)
			continue
		}
		results = append(results, grading.SemesterResult{Number: s.Number, GPA: gpa, Credits: credits})
	}
	if err := verr.Err(); err != nil {
		level.Debug(c.session.Logger).Log("msg", "cgpa rejected", "violations", len(verr.Violations), "err", err)
		return grading.CGPAResult{}, err
	}

	r := grading.CGPAResult{Semesters: results, CGPA: grading.CGPA(results)}
	c.result = &r
	if err := c.session.Record(session.NewCGPAEntry(r)); err != nil {
		return r, err
	}
	return r, nil
}
