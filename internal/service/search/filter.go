package search

import (
	"strings"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
)

// Filter returns the employees for which query is a case-insensitive
// substring of name, email, mobile, designation, course or gender.
// An empty query returns employees unchanged. The relative order is kept.
func Filter(employees []employee.Employee, query string) []employee.Employee {
	if query == "" {
		return employees
	}

	q := strings.ToLower(query)
	matched := make([]employee.Employee, 0, len(employees))
	for _, e := range employees {
		if Matches(e, q) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Matches reports whether e matches an already lower-cased query.
func Matches(e employee.Employee, lowerQuery string) bool {
	for _, field := range fields(e) {
		if strings.Contains(strings.ToLower(field), lowerQuery) {
			return true
		}
	}
	return false
}

func fields(e employee.Employee) [6]string {
	return [6]string{
		e.Name,
		e.Email,
		e.Mobile,
		string(e.Designation),
		e.Course.String(),
		string(e.Gender),
	}
}
