package search

import (
	"strings"
	"testing"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/stretchr/testify/assert"
)

func sample() []employee.Employee {
	return []employee.Employee{
		{ID: "1", Name: "Alice", Email: "alice@x.io", Mobile: "1111", Designation: employee.DesignationHR,
			Gender: employee.GenderFemale, Course: employee.NewCourseSet(employee.CourseBCA)},
		{ID: "2", Name: "Bob", Email: "bob@corp.com", Mobile: "2222", Designation: employee.DesignationManager,
			Gender: employee.GenderMale, Course: employee.NewCourseSet(employee.CourseMCA, employee.CourseBSC)},
		{ID: "3", Name: "Carol", Email: "carol@x.io", Mobile: "3333", Designation: employee.DesignationSales,
			Gender: employee.GenderFemale},
		{ID: "4"},
	}
}

func ids(list []employee.Employee) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID)
	}
	return out
}

func TestFilter_EmptyQueryReturnsInput(t *testing.T) {
	list := sample()
	assert.Equal(t, list, Filter(list, ""))
	assert.Nil(t, Filter(nil, ""))
}

func TestFilter_Fields(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"alice", []string{"1"}},
		{"ALICE", []string{"1"}},
		{"corp", []string{"2"}},
		{"333", []string{"3"}},
		{"manager", []string{"2"}},
		{"mca", []string{"2"}},
		{"bsc,m", []string{"2"}},
		{"female", []string{"1", "3"}},
		{"male", []string{"1", "2", "3"}},
		{"x.io", []string{"1", "3"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sample(), tt.query)))
		})
	}
}

func TestFilter_MatchesOnlySubstrings(t *testing.T) {
	list := sample()
	for _, q := range []string{"a", "o", "1", "hr", "Sales", "@"} {
		got := Filter(list, q)
		lower := strings.ToLower(q)
		for _, e := range got {
			assert.True(t, Matches(e, lower), "query %q returned non-matching %s", q, e.ID)
		}
		for _, e := range list {
			if Matches(e, lower) {
				assert.Contains(t, ids(got), e.ID, "query %q dropped %s", q, e.ID)
			}
		}
	}
}

func TestFilter_Idempotent(t *testing.T) {
	list := sample()
	for _, q := range []string{"", "a", "female", "x.io", "nothing"} {
		once := Filter(list, q)
		assert.Equal(t, once, Filter(once, q), "query %q", q)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	list := sample()
	before := ids(list)
	_ = Filter(list, "bob")
	assert.Equal(t, before, ids(list))
}
