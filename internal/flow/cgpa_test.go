package flow

import (
	"errors"
	"testing"

	"github.com/feelsunbreeze/gradecalc/internal/grading"
	"github.com/feelsunbreeze/gradecalc/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

type failingStore struct{ session.MemoryStore }

func (*failingStore) Add(session.Entry) error { return errDiskFull }

func failingSession() *session.Session {
	return session.New(&failingStore{}, &session.MemoryProfileStore{}, nil)
}

func TestCGPACalculate(t *testing.T) {
	s := session.NewMemory()
	c := NewCGPA(s)
	first := c.Semesters()[0].ID
	require.NoError(t, c.SetGPA(first, "8.5"))
	require.NoError(t, c.SetCredits(first, "20"))

	second := c.AddSemester()
	require.NoError(t, c.SetGPA(second, "9.0"))
	require.NoError(t, c.SetCredits(second, "22"))

	r, err := c.Calculate()
	require.NoError(t, err)
	assert.InDelta(t, 8.7619, r.CGPA, 1e-4)
	assert.Equal(t, 8.76, grading.Round2(r.CGPA))
	assert.Equal(t, 42.0, r.TotalCredits())

	entries := s.History.List()
	require.Len(t, entries, 1)
	assert.Equal(t, session.KindCGPA, entries[0].Kind)
	assert.Len(t, entries[0].CGPA.Semesters, 2)
}

func TestCGPARenumbersOnRemove(t *testing.T) {
	c := NewCGPA(session.NewMemory())
	first := c.Semesters()[0].ID
	second := c.AddSemester()
	third := c.AddSemester()
	assert.Equal(t, 3, c.Semesters()[2].Number)

	require.NoError(t, c.RemoveSemester(second))
	sems := c.Semesters()
	require.Len(t, sems, 2)
	assert.Equal(t, first, sems[0].ID)
	assert.Equal(t, 1, sems[0].Number)
	assert.Equal(t, third, sems[1].ID)
	assert.Equal(t, 2, sems[1].Number)

	c.AddSemester()
	assert.Equal(t, 3, c.Semesters()[2].Number)
}

func TestCGPARemoveLastRejected(t *testing.T) {
	c := NewCGPA(session.NewMemory())
	err := c.RemoveSemester(c.Semesters()[0].ID)
	assert.ErrorIs(t, err, grading.ErrLastRow)
	assert.Equal(t, 1, c.Len())
}

func TestCGPAValidation(t *testing.T) {
	s := session.NewMemory()
	c := NewCGPA(s)
	first := c.Semesters()[0].ID
	require.NoError(t, c.SetGPA(first, "10.5"))
	require.NoError(t, c.SetCredits(first, "20"))

	_, err := c.Calculate()
	assert.EqualError(t, err, "Semester 1: GPA must be between 0 and 10 (got 10.5)")

	require.NoError(t, c.SetGPA(first, "9"))
	require.NoError(t, c.SetCredits(first, ""))
	_, err = c.Calculate()
	assert.EqualError(t, err, "Semester 1: please enter Credits")
	assert.Empty(t, s.History.List())
}

func TestCGPAZeroCreditsIsZero(t *testing.T) {
	c := NewCGPA(session.NewMemory())
	first := c.Semesters()[0].ID
	require.NoError(t, c.SetGPA(first, "9"))
	require.NoError(t, c.SetCredits(first, "0"))
	r, err := c.Calculate()
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.CGPA)
}

func TestCGPAReturnsResultWhenHistoryFails(t *testing.T) {
	c := NewCGPA(failingSession())
	first := c.Semesters()[0].ID
	require.NoError(t, c.SetGPA(first, "8"))
	require.NoError(t, c.SetCredits(first, "20"))

	r, err := c.Calculate()
	assert.ErrorIs(t, err, session.ErrNotRecorded)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, 8.0, r.CGPA)

	got, ok := c.Result()
	assert.True(t, ok)
	assert.Equal(t, r, got)
}
