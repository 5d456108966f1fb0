package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/feelsunbreeze/gradecalc/internal/grading"
	"github.com/feelsunbreeze/gradecalc/internal/session"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

var ErrRowNotFound = errors.New("row not found")

// Subject is one editable GPA row. Inputs may hold fields of other course
// types; only those the current course type needs are read.
type Subject struct {
	ID         uuid.UUID
	Name       string
	CourseType grading.CourseType
	Credit     string
	Inputs     map[grading.Field]string
}

func newSubject() *Subject {
	return &Subject{
		ID:         uuid.New(),
		CourseType: grading.Theory,
		Inputs:     map[grading.Field]string{},
	}
}

func (s Subject) clone() Subject {
	inputs := make(map[grading.Field]string, len(s.Inputs))
	for k, v := range s.Inputs {
		inputs[k] = v
	}
	s.Inputs = inputs
	return s
}

type GPA struct {
	session  *session.Session
	subjects []*Subject
	result   *grading.GPAResult
}

func NewGPA(s *session.Session) *GPA {
	return &GPA{
		session:  s,
		subjects: []*Subject{newSubject()},
	}
}

// Subjects returns copies of the rows in display order.
func (g *GPA) Subjects() []Subject {
	out := make([]Subject, len(g.subjects))
	for i, s := range g.subjects {
		out[i] = s.clone()
	}
	return out
}

func (g *GPA) Len() int { return len(g.subjects) }

func (g *GPA) Result() (grading.GPAResult, bool) {
	if g.result == nil {
		return grading.GPAResult{}, false
	}
	return *g.result, true
}

func (g *GPA) AddSubject() uuid.UUID {
	s := newSubject()
	g.subjects = append(g.subjects, s)
	return s.ID
}

func (g *GPA) RemoveSubject(id uuid.UUID) error {
	i := g.index(id)
	if i < 0 {
		return ErrRowNotFound
	}
	if len(g.subjects) == 1 {
		return fmt.Errorf("at least one subject is required: %w", grading.ErrLastRow)
	}
	g.subjects = append(g.subjects[:i], g.subjects[i+1:]...)
	return nil
}

func (g *GPA) SetName(id uuid.UUID, name string) error {
	return g.update(id, func(s *Subject) { s.Name = name })
}

func (g *GPA) SetCourseType(id uuid.UUID, ct grading.CourseType) error {
	return g.update(id, func(s *Subject) { s.CourseType = ct })
}

func (g *GPA) SetCredit(id uuid.UUID, credit string) error {
	return g.update(id, func(s *Subject) { s.Credit = credit })
}

func (g *GPA) SetMark(id uuid.UUID, f grading.Field, raw string) error {
	return g.update(id, func(s *Subject) { s.Inputs[f] = raw })
}

func (g *GPA) update(id uuid.UUID, fn func(*Subject)) error {
	i := g.index(id)
	if i < 0 {
		return ErrRowNotFound
	}
	fn(g.subjects[i])
	return nil
}

func (g *GPA) index(id uuid.UUID) int {
	for i, s := range g.subjects {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func SubjectRowName(i int) string {
	return fmt.Sprintf("Subject %d", i+1)
}

// Calculate grades every row and folds them into a GPA. Any invalid row aborts
// the whole calculation; the returned *grading.ValidationError lists every
// problem and reports the first.
func (g *GPA) Calculate() (grading.GPAResult, error) {
	var verr grading.ValidationError
	results := make([]grading.SubjectResult, 0, len(g.subjects))

	for i, s := range g.subjects {
		r, err := gradeSubject(SubjectRowName(i), s)
		if err != nil {
			verr.Merge(err)
			continue
		}
		results = append(results, r)
	}
	if err := verr.Err(); err != nil {
		level.Debug(g.session.Logger).Log("msg", "gpa rejected", "violations", len(verr.Violations), "err", err)
		return grading.GPAResult{}, err
	}

	r := grading.GPAResult{Subjects: results, GPA: grading.GPA(results)}
	g.result = &r
	// The result stands even when the history write fails.
	if err := g.session.Record(session.NewGPAEntry(r)); err != nil {
		return r, err
	}
	return r, nil
}

func gradeSubject(row string, s *Subject) (grading.SubjectResult, error) {
	var verr grading.ValidationError
	policy := grading.Policy(s.CourseType)

	if strings.TrimSpace(s.Name) == "" {
		verr.Merge(&grading.MissingFieldError{Row: row, Field: grading.FieldSubject})
	}
	credit, err := grading.ParseField(row, grading.FieldCredit, s.Credit)
	verr.Merge(err)
	marks, err := policy.Parse(row, s.Inputs)
	verr.Merge(err)
	endSem, err := grading.ParseField(row, policy.EndSem, s.Inputs[policy.EndSem])
	verr.Merge(err)

	if err := verr.Err(); err != nil {
		return grading.SubjectResult{}, err
	}

	total := grading.TotalMark(marks, endSem)
	grade := grading.GradeFromTotal(total)
	return grading.SubjectResult{
		ID:         s.ID,
		Name:       strings.TrimSpace(s.Name),
		CourseType: s.CourseType,
		Credit:     credit,
		Marks:      marks.Values(),
		EndSem:     endSem,
		Internal:   grading.InternalMark(marks),
		Total:      total,
		Grade:      grade,
		GradePoint: grading.GradePoint(grade),
	}, nil
}
