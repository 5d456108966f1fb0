package grading

import "github.com/google/uuid"

type EndSemResult struct {
	Subject      string      `json:"subject"`
	CourseType   CourseType  `json:"course_type"`
	InternalMark float64     `json:"internal_mark"`
	Target       TargetGrade `json:"target"`
	RequiredMark float64     `json:"required_mark"`
}

type SubjectResult struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	CourseType CourseType        `json:"course_type"`
	Credit     float64           `json:"credit"`
	Marks      map[Field]float64 `json:"marks"`
	EndSem     float64           `json:"end_sem"`
	Internal   float64           `json:"internal"`
	Total      float64           `json:"total"`
	Grade      Grade             `json:"grade"`
	GradePoint float64           `json:"grade_point"`
}

func (s SubjectResult) Components() Components {
	return ComponentsFromValues(s.CourseType, s.Marks)
}

type GPAResult struct {
	Subjects []SubjectResult `json:"subjects"`
	GPA      float64         `json:"gpa"`
}

func (r GPAResult) TotalCredits() float64 {
	var sum float64
	for _, s := range r.Subjects {
		sum += s.Credit
	}
	return sum
}

type SemesterResult struct {
	Number  int     `json:"number"`
	GPA     float64 `json:"gpa"`
	Credits float64 `json:"credits"`
}

type CGPAResult struct {
	Semesters []SemesterResult `json:"semesters"`
	CGPA      float64          `json:"cgpa"`
}

func (r CGPAResult) TotalCredits() float64 {
	var sum float64
	for _, s := range r.Semesters {
		sum += s.Credits
	}
	return sum
}

// GPA folds graded subjects into a credit-weighted grade point average.
func GPA(subjects []SubjectResult) float64 {
	return WeightedAverage(subjects,
		func(s SubjectResult) float64 { return s.GradePoint },
		func(s SubjectResult) float64 { return s.Credit })
}

func CGPA(semesters []SemesterResult) float64 {
	return WeightedAverage(semesters,
		func(s SemesterResult) float64 { return s.GPA },
		func(s SemesterResult) float64 { return s.Credits })
}
