// Package view holds the panel pages. Templates are embedded html/template
// files exposed as templ components so handlers render them uniformly.
package view

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"card": func(e employee.Employee, csrfField template.HTML) cardData {
		return cardData{Employee: e, CSRFField: csrfField}
	},
}).ParseFS(templateFS, "templates/*.html"))

// Flash is a one-shot toast.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Page carries what every page needs.
type Page struct {
	Title     string
	CSRFField template.HTML
	CSRFToken string
	Flashes   []Flash
	// OOB marks a partial response; toasts are swapped out of band.
	OOB bool
}

type LoginData struct {
	Page
	Username string
}

type DashboardData struct {
	Page
	UserName  string
	Layout    string
	Loaded    bool
	Query     string
	Employees []employee.Employee
	Total     int
	Form      *FormView
}

// FormView is the open create or edit form. Nil when no form is open.
type FormView struct {
	Title        string
	SubmitLabel  string
	CSRFField    template.HTML
	Draft        employee.Draft
	Designations []employee.Designation
	Genders      []employee.Gender
	Courses      []employee.Course
}

func NewFormView(editing bool, draft employee.Draft, csrfField template.HTML) *FormView {
	v := &FormView{
		Title:        "Create Employee",
		SubmitLabel:  "Create Employee",
		CSRFField:    csrfField,
		Draft:        draft,
		Designations: employee.Designations,
		Genders:      employee.Genders,
		Courses:      employee.Courses,
	}
	if editing {
		v.Title = "Edit Employee"
		v.SubmitLabel = "Update Employee"
	}
	return v
}

type cardData struct {
	Employee  employee.Employee
	CSRFField template.HTML
}

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

func LoginPage(data LoginData) templ.Component {
	if data.Title == "" {
		data.Title = "Login"
	}
	return component("login", data)
}

func DashboardPage(data DashboardData) templ.Component {
	if data.Title == "" {
		data.Title = "Admin Panel"
	}
	return component("dashboard", data)
}

// EmployeeList renders only the list region, for htmx swaps.
func EmployeeList(data DashboardData) templ.Component {
	return component("employee-list", data)
}
