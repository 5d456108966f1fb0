package grading

import (
	"fmt"
	"strings"
)

type CourseType int

const (
	Theory CourseType = iota
	TheoryCumLab
	NPTEL
	LabOnly
)

var courseTypeNames = map[CourseType]string{
	Theory:       "theory",
	TheoryCumLab: "theoryCumLab",
	NPTEL:        "nptel",
	LabOnly:      "lab",
}

func CourseTypes() []CourseType {
	return []CourseType{Theory, TheoryCumLab, NPTEL, LabOnly}
}

func (c CourseType) String() string {
	if name, ok := courseTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CourseType(%d)", int(c))
}

func (c CourseType) Label() string {
	switch c {
	case Theory:
		return "Theory"
	case TheoryCumLab:
		return "Theory cum Lab"
	case NPTEL:
		return "NPTEL Course"
	case LabOnly:
		return "Lab Course"
	default:
		return c.String()
	}
}

// ParseCourseType accepts the short names used in saved history as well as a
// few spellings people type on the command line.
func ParseCourseType(s string) (CourseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "theory", "t":
		return Theory, nil
	case "theorycumlab", "theory-cum-lab", "tcl":
		return TheoryCumLab, nil
	case "nptel":
		return NPTEL, nil
	case "lab", "labonly", "lab-only", "fulllab":
		return LabOnly, nil
	}
	return Theory, fmt.Errorf("unknown course type %q", s)
}

func (c CourseType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CourseType) UnmarshalText(b []byte) error {
	ct, err := ParseCourseType(string(b))
	if err != nil {
		return err
	}
	*c = ct
	return nil
}
