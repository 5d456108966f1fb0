package flow

import (
	"errors"
	"strings"

	"github.com/feelsunbreeze/gradecalc/internal/grading"
	"github.com/feelsunbreeze/gradecalc/internal/session"
	"github.com/go-kit/log/level"
)

type EndSemState int

const (
	CollectingInternals EndSemState = iota
	InternalsComputed
	Done
)

func (s EndSemState) String() string {
	switch s {
	case CollectingInternals:
		return "collecting internals"
	case InternalsComputed:
		return "internals computed"
	case Done:
		return "done"
	}
	return "unknown"
}

var (
	ErrNoTarget     = errors.New("please select a grade")
	ErrInvalidState = errors.New("action not available at this step")
)

// EndSem walks a student from internal marks to the end-sem mark needed for a
// target grade. End-sem calculations are not written to the history.
type EndSem struct {
	session *session.Session

	state      EndSemState
	subject    string
	courseType grading.CourseType
	inputs     map[grading.Field]string

	internal float64
	target   grading.TargetGrade
	result   *grading.EndSemResult
}

func NewEndSem(s *session.Session) *EndSem {
	return &EndSem{
		session: s,
		inputs:  map[grading.Field]string{},
	}
}

func (e *EndSem) State() EndSemState             { return e.state }
func (e *EndSem) Subject() string                { return e.subject }
func (e *EndSem) CourseType() grading.CourseType { return e.courseType }
func (e *EndSem) InternalMark() float64          { return e.internal }
func (e *EndSem) Target() grading.TargetGrade    { return e.target }
func (e *EndSem) Input(f grading.Field) string   { return e.inputs[f] }
func (e *EndSem) Policy() grading.CoursePolicy   { return grading.Policy(e.courseType) }

func (e *EndSem) Result() (grading.EndSemResult, bool) {
	if e.result == nil {
		return grading.EndSemResult{}, false
	}
	return *e.result, true
}

func (e *EndSem) SetSubject(name string) error {
	if e.state != CollectingInternals {
		return ErrInvalidState
	}
	e.subject = name
	return nil
}

func (e *EndSem) SetCourseType(ct grading.CourseType) error {
	if e.state != CollectingInternals {
		return ErrInvalidState
	}
	e.courseType = ct
	return nil
}

func (e *EndSem) SetMark(f grading.Field, raw string) error {
	if e.state != CollectingInternals {
		return ErrInvalidState
	}
	e.inputs[f] = raw
	return nil
}

// SubmitInternals validates the marks for the chosen course type. On failure
// nothing changes.
func (e *EndSem) SubmitInternals() error {
	if e.state != CollectingInternals {
		return ErrInvalidState
	}
	if strings.TrimSpace(e.subject) == "" {
		return &grading.MissingFieldError{Field: grading.FieldSubject}
	}

	marks, err := e.Policy().Parse("", e.inputs)
	if err != nil {
		level.Debug(e.session.Logger).Log("msg", "internals rejected", "course", e.courseType, "err", err)
		return err
	}

	e.internal = grading.InternalMark(marks)
	e.state = InternalsComputed
	return nil
}

// SelectTarget picks the grade to solve for. Changing it after a result was
// shown drops that result.
func (e *EndSem) SelectTarget(t grading.TargetGrade) error {
	if e.state == CollectingInternals {
		return ErrInvalidState
	}
	if !t.Valid() {
		return ErrNoTarget
	}
	e.target = t
	e.result = nil
	e.state = InternalsComputed
	return nil
}

func (e *EndSem) CalculateRequired() (grading.EndSemResult, error) {
	if e.state == CollectingInternals {
		return grading.EndSemResult{}, ErrInvalidState
	}
	if e.target == "" {
		return grading.EndSemResult{}, ErrNoTarget
	}

	required, err := grading.RequiredEndSemMark(e.internal, e.target.MinTotal(), e.courseType)
	if err != nil {
		e.result = nil
		e.state = InternalsComputed
		level.Debug(e.session.Logger).Log("msg", "grade unreachable", "internal", e.internal, "target", e.target)
		return grading.EndSemResult{}, err
	}

	r := grading.EndSemResult{
		Subject:      strings.TrimSpace(e.subject),
		CourseType:   e.courseType,
		InternalMark: e.internal,
		Target:       e.target,
		RequiredMark: required,
	}
	e.result = &r
	e.state = Done
	return r, nil
}

// Reset clears everything, course type included, for another subject.
func (e *EndSem) Reset() {
	e.state = CollectingInternals
	e.subject = ""
	e.courseType = grading.Theory
	e.inputs = map[grading.Field]string{}
	e.internal = 0
	e.target = ""
	e.result = nil
}
