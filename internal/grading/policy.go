package grading

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const NPTELAssignmentCount = 8

type Field string

const (
	FieldCAT1        Field = "cat1"
	FieldCAT2        Field = "cat2"
	FieldCAT3        Field = "cat3"
	FieldAssignment  Field = "assignment"
	FieldPractical   Field = "practical"
	FieldLabInternal Field = "labInternal"
	FieldEndSem      Field = "endSem"
	FieldCredit      Field = "credit"
	FieldGPA         Field = "gpa"
	FieldCredits     Field = "credits"
	FieldSubject     Field = "subject"
)

func NPTELField(n int) Field {
	return Field("nptel" + strconv.Itoa(n))
}

type Bound struct {
	Min float64
	Max float64
}

func (b Bound) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

func (b Bound) String() string {
	if math.IsInf(b.Max, 1) {
		return fmt.Sprintf("at least %s", FormatMark(b.Min))
	}
	return fmt.Sprintf("between %s and %s", FormatMark(b.Min), FormatMark(b.Max))
}

type FieldSpec struct {
	Field Field
	Label string
	Bound Bound
	// Integer rejects fractional values.
	Integer bool
}

var fieldSpecs = map[Field]FieldSpec{
	FieldCAT1:        {FieldCAT1, "CAT 1", Bound{0, 75}, false},
	FieldCAT2:        {FieldCAT2, "CAT 2", Bound{0, 75}, false},
	FieldCAT3:        {FieldCAT3, "CAT 3", Bound{0, 50}, false},
	FieldAssignment:  {FieldAssignment, "Assignment", Bound{0, 50}, false},
	FieldPractical:   {FieldPractical, "Practical", Bound{0, 50}, false},
	FieldLabInternal: {FieldLabInternal, "Internal Lab", Bound{0, 50}, false},
	FieldEndSem:      {FieldEndSem, "End Sem", Bound{0, 100}, false},
	FieldCredit:      {FieldCredit, "Credit", Bound{1, 5}, true},
	FieldGPA:         {FieldGPA, "GPA", Bound{0, 10}, false},
	FieldCredits:     {FieldCredits, "Credits", Bound{0, math.Inf(1)}, false},
	FieldSubject:     {FieldSubject, "Subject name", Bound{}, false},
}

func init() {
	for i := 1; i <= NPTELAssignmentCount; i++ {
		f := NPTELField(i)
		fieldSpecs[f] = FieldSpec{f, fmt.Sprintf("Assignment %d", i), Bound{0, 100}, false}
	}
}

func Spec(f Field) FieldSpec {
	if s, ok := fieldSpecs[f]; ok {
		return s
	}
	return FieldSpec{Field: f, Label: string(f), Bound: Bound{math.Inf(-1), math.Inf(1)}}
}

func (f Field) Label() string {
	return Spec(f).Label
}

// CoursePolicy lists the inputs one course type needs. It is the only place
// course-type bounds live.
type CoursePolicy struct {
	Type   CourseType
	Fields []Field
	// EndSem is the final exam (or end practical) field used by the GPA total.
	EndSem Field
}

var policies = map[CourseType]CoursePolicy{
	Theory: {
		Type:   Theory,
		Fields: []Field{FieldCAT1, FieldCAT2, FieldCAT3, FieldAssignment},
		EndSem: FieldEndSem,
	},
	TheoryCumLab: {
		Type:   TheoryCumLab,
		Fields: []Field{FieldCAT1, FieldCAT2, FieldCAT3, FieldAssignment, FieldPractical},
		EndSem: FieldEndSem,
	},
	NPTEL: {
		Type:   NPTEL,
		Fields: nptelFields(),
		EndSem: FieldEndSem,
	},
	LabOnly: {
		Type:   LabOnly,
		Fields: []Field{FieldLabInternal},
		EndSem: FieldEndSem,
	},
}

func nptelFields() []Field {
	fields := make([]Field, 0, NPTELAssignmentCount)
	for i := 1; i <= NPTELAssignmentCount; i++ {
		fields = append(fields, NPTELField(i))
	}
	return fields
}

func Policy(ct CourseType) CoursePolicy {
	if p, ok := policies[ct]; ok {
		return p
	}
	return policies[Theory]
}

func (p CoursePolicy) Requires(f Field) bool {
	for _, pf := range p.Fields {
		if pf == f {
			return true
		}
	}
	return false
}

// Parse validates the raw internal marks of one row and returns the typed
// variant. Every violation is collected; the returned *ValidationError reports
// the first one.
func (p CoursePolicy) Parse(row string, values map[Field]string) (Components, error) {
	parsed := make(map[Field]float64, len(p.Fields))
	var errs []error
	for _, f := range p.Fields {
		v, err := ParseField(row, f, values[f])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		parsed[f] = v
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Violations: errs}
	}
	return ComponentsFromValues(p.Type, parsed), nil
}

// ParseField checks presence, numeric form and bound of a single input.
func ParseField(row string, f Field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &MissingFieldError{Row: row, Field: f}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &MissingFieldError{Row: row, Field: f, Raw: raw}
	}
	spec := Spec(f)
	if !spec.Bound.Contains(v) || (spec.Integer && v != math.Trunc(v)) {
		return 0, &OutOfRangeError{Row: row, Field: f, Value: v}
	}
	return v, nil
}

func FormatMark(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
