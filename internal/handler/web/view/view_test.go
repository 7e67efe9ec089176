package view

import (
	"bytes"
	"context"
	"testing"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, data DashboardData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, DashboardPage(data).Render(context.Background(), &buf))
	return buf.String()
}

var alice = employee.Employee{
	ID: "e-1", Name: "Alice", Email: "a@x.io", Mobile: "111",
	Designation: employee.DesignationHR, Gender: employee.GenderFemale,
	Course: employee.NewCourseSet(employee.CourseBCA, employee.CourseMCA),
	Image:  "http://localhost:8080/uploads/employees/e-1/a.png",
}

func TestDashboardPage_EmptyStates(t *testing.T) {
	html := renderString(t, DashboardData{Loaded: true, Layout: "cards"})
	assert.Contains(t, html, "No Users Yet")
	assert.NotContains(t, html, "No matching employees")

	html = renderString(t, DashboardData{Loaded: true, Layout: "cards", Total: 2, Query: "zzz"})
	assert.Contains(t, html, "No matching employees")
	assert.NotContains(t, html, "No Users Yet")

	html = renderString(t, DashboardData{Loaded: false})
	assert.Contains(t, html, "could not be loaded")
}

func TestDashboardPage_Layouts(t *testing.T) {
	data := DashboardData{Loaded: true, Total: 1, Employees: []employee.Employee{alice}, UserName: "Mani Kumar"}

	data.Layout = "cards"
	html := renderString(t, data)
	assert.Contains(t, html, "Name : <span class=\"font-normal\">Alice</span>")
	assert.Contains(t, html, "BCA,MCA")
	assert.Contains(t, html, "HR")
	assert.Contains(t, html, alice.Image)
	assert.Contains(t, html, "/Dashboard/employees/e-1/delete")
	assert.Contains(t, html, "Mani Kumar")
	assert.NotContains(t, html, "<table")

	data.Layout = "table"
	html = renderString(t, data)
	assert.Contains(t, html, "<table")
	assert.Contains(t, html, "/Dashboard/employees/e-1/edit")
}

func TestDashboardPage_Form(t *testing.T) {
	draft := employee.DraftFrom(alice)
	data := DashboardData{Loaded: true, Form: NewFormView(true, draft, "")}

	html := renderString(t, data)
	assert.Contains(t, html, "Edit Employee")
	assert.Contains(t, html, "Update Employee")
	assert.Contains(t, html, `value="Alice"`)
	assert.Contains(t, html, `value="BCA" checked`)
	assert.NotContains(t, html, `value="BSC" checked`)
	assert.Contains(t, html, `value="female" checked`)

	data.Form = NewFormView(false, employee.Draft{}, "")
	html = renderString(t, data)
	assert.Contains(t, html, "Create Employee")
	assert.NotContains(t, html, "Update Employee")
}

func TestFlashesAndEscaping(t *testing.T) {
	data := DashboardData{
		Page:   Page{Flashes: []Flash{{Kind: FlashError, Message: "<b>nope</b>"}}},
		Loaded: true,
	}
	html := renderString(t, data)
	assert.Contains(t, html, "&lt;b&gt;nope&lt;/b&gt;")
	assert.Contains(t, html, "bg-red-500")
}

func TestEmployeeList_PartialCarriesToasts(t *testing.T) {
	var buf bytes.Buffer
	data := DashboardData{
		Page:      Page{OOB: true, Flashes: []Flash{{Kind: FlashSuccess, Message: "hi"}}},
		Loaded:    true,
		Total:     1,
		Employees: []employee.Employee{alice},
		Layout:    "cards",
	}
	require.NoError(t, EmployeeList(data).Render(context.Background(), &buf))
	html := buf.String()
	assert.Contains(t, html, `id="employee-list"`)
	assert.Contains(t, html, `hx-swap-oob="true"`)
	assert.NotContains(t, html, "<html")
}
