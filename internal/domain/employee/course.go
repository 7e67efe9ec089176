package employee

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Course string

const (
	CourseBCA Course = "BCA"
	CourseBSC Course = "BSC"
	CourseMCA Course = "MCA"
)

// Courses lists every course in canonical order.
var Courses = []Course{CourseBCA, CourseBSC, CourseMCA}

// ParseCourse matches raw case-insensitively against the known courses.
func ParseCourse(raw string) (Course, error) {
	for _, c := range Courses {
		if strings.EqualFold(strings.TrimSpace(raw), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCourse, raw)
}

func (c Course) bit() CourseSet {
	for i, known := range Courses {
		if known == c {
			return 1 << i
		}
	}
	return 0
}

// CourseSet is a set of courses. The zero value is the empty set.
//
// On the wire a set travels as one comma separated string in canonical
// order ("BCA,MCA"), which is what the backend stores in its course field.
type CourseSet uint8

func NewCourseSet(courses ...Course) CourseSet {
	var s CourseSet
	for _, c := range courses {
		s |= c.bit()
	}
	return s
}

// ParseCourseSet parses the combined wire form. Separators may be commas or
// whitespace; duplicates collapse. Unknown names are an error.
func ParseCourseSet(raw string) (CourseSet, error) {
	var s CourseSet
	for _, part := range splitCourses(raw) {
		c, err := ParseCourse(part)
		if err != nil {
			return 0, err
		}
		s = s.Add(c)
	}
	return s, nil
}

func (s CourseSet) Has(c Course) bool {
	b := c.bit()
	return b != 0 && s&b == b
}

func (s CourseSet) Add(c Course) CourseSet {
	return s | c.bit()
}

// Toggle adds c when absent and removes it when present.
func (s CourseSet) Toggle(c Course) CourseSet {
	return s ^ c.bit()
}

func (s CourseSet) Len() int {
	n := 0
	for _, c := range Courses {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// Values returns the members in canonical order.
func (s CourseSet) Values() []Course {
	values := make([]Course, 0, len(Courses))
	for _, c := range Courses {
		if s.Has(c) {
			values = append(values, c)
		}
	}
	return values
}

func (s CourseSet) String() string {
	parts := make([]string, 0, len(Courses))
	for _, c := range s.Values() {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ",")
}

func (s CourseSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *CourseSet) UnmarshalText(text []byte) error {
	parsed, err := ParseCourseSet(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalJSON accepts the combined string, an array of names or null.
// Names the client does not know about are skipped so one odd record cannot
// break decoding of the whole list.
func (s *CourseSet) UnmarshalJSON(data []byte) error {
	var raw []string
	switch {
	case string(data) == "null":
		*s = 0
		return nil
	case len(data) > 0 && data[0] == '[':
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	default:
		var combined string
		if err := json.Unmarshal(data, &combined); err != nil {
			return err
		}
		raw = splitCourses(combined)
	}

	var set CourseSet
	for _, part := range raw {
		if c, err := ParseCourse(part); err == nil {
			set = set.Add(c)
		}
	}
	*s = set
	return nil
}

func splitCourses(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
