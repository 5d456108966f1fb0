package grading

// Components is the set of internal assessment marks of one course. Each
// variant carries exactly the fields its course type needs.
type Components interface {
	CourseType() CourseType
	Values() map[Field]float64
	isComponents()
}

type TheoryMarks struct {
	CAT1       float64
	CAT2       float64
	CAT3       float64
	Assignment float64
}

type TheoryCumLabMarks struct {
	CAT1       float64
	CAT2       float64
	CAT3       float64
	Assignment float64
	Practical  float64
}

type NPTELMarks struct {
	Assignments [NPTELAssignmentCount]float64
}

type LabOnlyMarks struct {
	LabInternal float64
}

func (TheoryMarks) CourseType() CourseType       { return Theory }
func (TheoryCumLabMarks) CourseType() CourseType { return TheoryCumLab }
func (NPTELMarks) CourseType() CourseType        { return NPTEL }
func (LabOnlyMarks) CourseType() CourseType      { return LabOnly }

func (TheoryMarks) isComponents()       {}
func (TheoryCumLabMarks) isComponents() {}
func (NPTELMarks) isComponents()        {}
func (LabOnlyMarks) isComponents()      {}

func (m TheoryMarks) Values() map[Field]float64 {
	return map[Field]float64{
		FieldCAT1:       m.CAT1,
		FieldCAT2:       m.CAT2,
		FieldCAT3:       m.CAT3,
		FieldAssignment: m.Assignment,
	}
}

func (m TheoryCumLabMarks) Values() map[Field]float64 {
	return map[Field]float64{
		FieldCAT1:       m.CAT1,
		FieldCAT2:       m.CAT2,
		FieldCAT3:       m.CAT3,
		FieldAssignment: m.Assignment,
		FieldPractical:  m.Practical,
	}
}

func (m NPTELMarks) Values() map[Field]float64 {
	values := make(map[Field]float64, NPTELAssignmentCount)
	for i, v := range m.Assignments {
		values[NPTELField(i+1)] = v
	}
	return values
}

func (m LabOnlyMarks) Values() map[Field]float64 {
	return map[Field]float64{FieldLabInternal: m.LabInternal}
}

// ComponentsFromValues builds the variant for ct from already validated
// values. Missing fields read as zero.
func ComponentsFromValues(ct CourseType, v map[Field]float64) Components {
	switch ct {
	case TheoryCumLab:
		return TheoryCumLabMarks{
			CAT1:       v[FieldCAT1],
			CAT2:       v[FieldCAT2],
			CAT3:       v[FieldCAT3],
			Assignment: v[FieldAssignment],
			Practical:  v[FieldPractical],
		}
	case NPTEL:
		var m NPTELMarks
		for i := range m.Assignments {
			m.Assignments[i] = v[NPTELField(i+1)]
		}
		return m
	case LabOnly:
		return LabOnlyMarks{LabInternal: v[FieldLabInternal]}
	default:
		return TheoryMarks{
			CAT1:       v[FieldCAT1],
			CAT2:       v[FieldCAT2],
			CAT3:       v[FieldCAT3],
			Assignment: v[FieldAssignment],
		}
	}
}
