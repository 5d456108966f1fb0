package export

import (
	"path/filepath"
	"testing"

	"github.com/feelsunbreeze/gradecalc/internal/grading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGPAWorkbook(t *testing.T) {
	r := grading.GPAResult{
		Subjects: []grading.SubjectResult{
			{Name: "Maths", CourseType: grading.Theory, Credit: 4, Internal: 32, EndSem: 80, Total: 80, Grade: grading.GradeA, GradePoint: 8},
			{Name: "Physics Lab", CourseType: grading.LabOnly, Credit: 2, Internal: 25, EndSem: 100, Total: 100, Grade: grading.GradeO, GradePoint: 10},
		},
		GPA: 26.0 / 3,
	}

	f, err := GPAWorkbook(r)
	require.NoError(t, err)

	rows, err := f.GetRows(gpaSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, gpaHeaders, rows[0])
	assert.Equal(t, "Maths", rows[1][1])
	assert.Equal(t, "Theory", rows[1][2])
	assert.Equal(t, "A", rows[1][7])
	assert.Equal(t, "Lab Course", rows[2][2])
	assert.Equal(t, "GPA", rows[4][1])
	assert.Equal(t, "6", rows[4][3])
	assert.Equal(t, "8.67", rows[4][8])
}

func TestCGPAWorkbookSave(t *testing.T) {
	r := grading.CGPAResult{
		Semesters: []grading.SemesterResult{{Number: 1, GPA: 8.5, Credits: 20}, {Number: 2, GPA: 9, Credits: 22}},
		CGPA:      368.0 / 42,
	}
	f, err := CGPAWorkbook(r)
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := Save(f, dir, "cgpa")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	opened, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer opened.Close()

	v, err := opened.GetCellValue(cgpaSheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "8.76", v)
	v, err = opened.GetCellValue(cgpaSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}
