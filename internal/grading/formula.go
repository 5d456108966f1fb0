package grading

import "math"

const (
	MaxEndSemMark = 100
	// MinEndSemMark is the lowest end-sem score the calculator will ever ask
	// for, whatever the arithmetic says.
	MinEndSemMark = 51

	theoryPool = 250
)

func MaxInternal(ct CourseType) float64 {
	switch ct {
	case Theory:
		return 40
	case TheoryCumLab:
		return 50
	default:
		return 25
	}
}

// EndSemWeight is the share of the 0-100 end-sem score that lands in the
// final total.
func EndSemWeight(ct CourseType) float64 {
	switch ct {
	case Theory:
		return 0.6
	case TheoryCumLab:
		return 0.5
	default:
		return 0.75
	}
}

func InternalMark(c Components) float64 {
	switch m := c.(type) {
	case TheoryMarks:
		return scaled(m.CAT1+m.CAT2+m.CAT3+m.Assignment, theoryPool, 40)
	case TheoryCumLabMarks:
		theory := scaled(m.CAT1+m.CAT2+m.CAT3+m.Assignment, theoryPool, 25)
		practical := scaled(m.Practical, 50, 25)
		return theory + practical
	case NPTELMarks:
		var sum float64
		for _, a := range m.Assignments {
			sum += a
		}
		return scaled(sum, 100*NPTELAssignmentCount, 25)
	case LabOnlyMarks:
		return scaled(m.LabInternal, 50, 25)
	default:
		return 0
	}
}

func scaled(v, outOf, limit float64) float64 {
	return clamp(v/outOf*limit, 0, limit)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// RawRequiredEndSemMark inverts the final-total rule without any clamping.
func RawRequiredEndSemMark(internal, minTotal float64, ct CourseType) float64 {
	return (minTotal - internal) / EndSemWeight(ct)
}

// RequiredEndSemMark returns the whole end-sem mark needed to reach minTotal,
// never below MinEndSemMark. A requirement above 100 is ErrUnreachableGrade.
func RequiredEndSemMark(internal, minTotal float64, ct CourseType) (float64, error) {
	raw := normalize(RawRequiredEndSemMark(internal, minTotal, ct))
	if raw > MaxEndSemMark {
		return 0, ErrUnreachableGrade
	}
	return math.Max(MinEndSemMark, math.Ceil(raw)), nil
}

// normalize drops float noise below 1e-9 so 41/0.5 style divisions do not
// round up a whole mark.
func normalize(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}

// TotalMark folds the end-sem score into the internal mark, giving the 0-100
// total a GPA row is graded on.
func TotalMark(c Components, endSem float64) float64 {
	ct := c.CourseType()
	end := clamp(endSem, 0, MaxEndSemMark) * EndSemWeight(ct)
	return clamp(normalize(InternalMark(c)+end), 0, 100)
}
