package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/feelsunbreeze/gradecalc/internal/grading"
	"github.com/xuri/excelize/v2"
)

const (
	gpaSheet  = "GPA"
	cgpaSheet = "CGPA"
)

var gpaHeaders = []string{"#", "Subject", "Course Type", "Credit", "Internal", "End Sem", "Total", "Grade", "Grade Point"}
var cgpaHeaders = []string{"Semester", "GPA", "Credits"}

// GPAWorkbook lays out the per-subject breakdown with the GPA underneath.
func GPAWorkbook(r grading.GPAResult) (*excelize.File, error) {
	f, err := newSheet(gpaSheet, gpaHeaders)
	if err != nil {
		return nil, err
	}

	for i, s := range r.Subjects {
		row := i + 2
		values := []any{
			i + 1,
			s.Name,
			s.CourseType.Label(),
			s.Credit,
			grading.Round2(s.Internal),
			s.EndSem,
			grading.Round2(s.Total),
			string(s.Grade),
			s.GradePoint,
		}
		if err := setRow(f, gpaSheet, row, values); err != nil {
			return nil, err
		}
	}

	footer := len(r.Subjects) + 3
	if err := setRow(f, gpaSheet, footer, []any{"", "GPA", "", r.TotalCredits(), "", "", "", "", grading.Round2(r.GPA)}); err != nil {
		return nil, err
	}
	return f, nil
}

func CGPAWorkbook(r grading.CGPAResult) (*excelize.File, error) {
	f, err := newSheet(cgpaSheet, cgpaHeaders)
	if err != nil {
		return nil, err
	}

	for i, s := range r.Semesters {
		if err := setRow(f, cgpaSheet, i+2, []any{s.Number, s.GPA, s.Credits}); err != nil {
			return nil, err
		}
	}

	footer := len(r.Semesters) + 3
	if err := setRow(f, cgpaSheet, footer, []any{"CGPA", grading.Round2(r.CGPA), r.TotalCredits()}); err != nil {
		return nil, err
	}
	return f, nil
}

func newSheet(name string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(name, cell, header)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// Save writes f as <prefix>_<timestamp>.xlsx under dir and returns the path.
func Save(f *excelize.File, dir, prefix string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	fileName := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", fileName, err)
	}
	return path, nil
}
