package grading

import (
	"fmt"
	"math"
	"strings"
)

type Grade string

const (
	GradeO     Grade = "O"
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeU     Grade = "U"
)

// boundaries is ordered highest first; a total belongs to the first band whose
// minimum it reaches.
var boundaries = []struct {
	min   float64
	grade Grade
	point float64
}{
	{91, GradeO, 10},
	{81, GradeAPlus, 9},
	{71, GradeA, 8},
	{61, GradeBPlus, 7},
	{51, GradeB, 6},
}

func GradeFromTotal(total float64) Grade {
	for _, b := range boundaries {
		if total >= b.min {
			return b.grade
		}
	}
	return GradeU
}

func GradePoint(g Grade) float64 {
	for _, b := range boundaries {
		if b.grade == g {
			return b.point
		}
	}
	return 0
}

// MinTotal is the lowest total that earns g. U needs nothing.
func MinTotal(g Grade) float64 {
	for _, b := range boundaries {
		if b.grade == g {
			return b.min
		}
	}
	return 0
}

// TargetGrade is one option of the end-sem grade picker.
type TargetGrade string

const (
	TargetPass  TargetGrade = "pass"
	TargetB     TargetGrade = "B"
	TargetBPlus TargetGrade = "B+"
	TargetA     TargetGrade = "A"
	TargetAPlus TargetGrade = "A+"
	TargetO     TargetGrade = "O"
)

// passMinTotal sits one below the B boundary. Both tiers are offered.
const passMinTotal = 50

func TargetGrades() []TargetGrade {
	return []TargetGrade{TargetPass, TargetB, TargetBPlus, TargetA, TargetAPlus, TargetO}
}

func (t TargetGrade) MinTotal() float64 {
	if t == TargetPass {
		return passMinTotal
	}
	return MinTotal(Grade(t))
}

func (t TargetGrade) Label() string {
	if t == TargetPass {
		return "Pass"
	}
	return string(t)
}

func (t TargetGrade) Valid() bool {
	for _, g := range TargetGrades() {
		if g == t {
			return true
		}
	}
	return false
}

func ParseTargetGrade(s string) (TargetGrade, error) {
	s = strings.TrimSpace(s)
	for _, g := range TargetGrades() {
		if strings.EqualFold(string(g), s) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown grade %q", s)
}

// Round2 is for display only; keep full precision in calculations.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
