package grading

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyParseTheory(t *testing.T) {
	c, err := Policy(Theory).Parse("Subject 1", map[Field]string{
		FieldCAT1:       "75",
		FieldCAT2:       "75",
		FieldCAT3:       "50",
		FieldAssignment: " 50 ",
	})
	require.NoError(t, err)
	assert.Equal(t, TheoryMarks{CAT1: 75, CAT2: 75, CAT3: 50, Assignment: 50}, c)
	assert.Equal(t, 40.0, InternalMark(c))
}

func TestPolicyParseIgnoresOtherCourseFields(t *testing.T) {
	c, err := Policy(LabOnly).Parse("Subject 1", map[Field]string{
		FieldLabInternal: "30",
		FieldCAT1:        "999",
	})
	require.NoError(t, err)
	assert.Equal(t, LabOnlyMarks{LabInternal: 30}, c)
}

func TestPolicyParseMissingField(t *testing.T) {
	_, err := Policy(TheoryCumLab).Parse("Subject 2", map[Field]string{
		FieldCAT1:       "70",
		FieldCAT2:       "70",
		FieldCAT3:       "40",
		FieldAssignment: "40",
	})
	require.Error(t, err)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Subject 2", missing.Row)
	assert.Equal(t, FieldPractical, missing.Field)
	assert.Equal(t, "Subject 2: please enter Practical", err.Error())
}

func TestPolicyParseOutOfRange(t *testing.T) {
	_, err := Policy(Theory).Parse("Subject 3", map[Field]string{
		FieldCAT1:       "76",
		FieldCAT2:       "10",
		FieldCAT3:       "10",
		FieldAssignment: "10",
	})
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, FieldCAT1, oor.Field)
	assert.Equal(t, Bound{0, 75}, oor.Bound())
	assert.Equal(t, "Subject 3: CAT 1 must be between 0 and 75 (got 76)", err.Error())
}

func TestPolicyParseCollectsEveryViolation(t *testing.T) {
	_, err := Policy(Theory).Parse("Subject 1", map[Field]string{
		FieldCAT1: "80",
		FieldCAT2: "abc",
		FieldCAT3: "-1",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 4)

	var oor *OutOfRangeError
	assert.True(t, errors.As(ve.First(), &oor))
	assert.Equal(t, "Subject 1: CAT 2 must be a number, got \"abc\"", ve.Violations[1].Error())
	assert.Equal(t, "Subject 1: please enter Assignment", ve.Violations[3].Error())
	// Error reports the first violation only.
	assert.Equal(t, ve.Violations[0].Error(), err.Error())
}

func TestPolicyNPTELFields(t *testing.T) {
	p := Policy(NPTEL)
	require.Len(t, p.Fields, NPTELAssignmentCount)
	values := map[Field]string{}
	for i, f := range p.Fields {
		assert.Equal(t, NPTELField(i+1), f)
		values[f] = "100"
	}
	c, err := p.Parse("Subject 1", values)
	require.NoError(t, err)
	assert.Equal(t, 25.0, InternalMark(c))
	assert.Equal(t, "Assignment 8", NPTELField(8).Label())
}

func TestParseFieldCredit(t *testing.T) {
	v, err := ParseField("Subject 1", FieldCredit, "4")
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	_, err = ParseField("Subject 1", FieldCredit, "2.5")
	assert.EqualError(t, err, "Subject 1: Credit must be a whole number between 1 and 5 (got 2.5)")

	_, err = ParseField("Subject 1", FieldCredit, "0")
	var oor *OutOfRangeError
	assert.ErrorAs(t, err, &oor)
}

func TestParseFieldCreditsUnbounded(t *testing.T) {
	_, err := ParseField("Semester 1", FieldCredits, "140")
	assert.NoError(t, err)

	_, err = ParseField("Semester 1", FieldCredits, "-2")
	assert.EqualError(t, err, "Semester 1: Credits must be at least 0 (got -2)")
}

func TestValidationErrorMerge(t *testing.T) {
	var ve ValidationError
	assert.NoError(t, ve.Err())

	ve.Merge(nil)
	ve.Merge(&MissingFieldError{Row: "Subject 1", Field: FieldSubject})
	ve.Merge(&ValidationError{Violations: []error{
		&OutOfRangeError{Row: "Subject 2", Field: FieldEndSem, Value: 120},
	}})
	require.Len(t, ve.Violations, 2)
	assert.Equal(t, "Subject 1: please enter Subject name", ve.Err().Error())

	var oor *OutOfRangeError
	assert.ErrorAs(t, ve.Err(), &oor)
	assert.Equal(t, "Subject 2", oor.Row)
}
