package employee

import (
	"strings"
	"time"
)

type Designation string

const (
	DesignationHR      Designation = "hr"
	DesignationManager Designation = "manager"
	DesignationSales   Designation = "sales"
)

var Designations = []Designation{DesignationHR, DesignationManager, DesignationSales}

func (d Designation) IsValid() bool {
	for _, known := range Designations {
		if d == known {
			return true
		}
	}
	return false
}

// Label is the display form used by the panel.
func (d Designation) Label() string {
	switch d {
	case DesignationHR:
		return "HR"
	case DesignationManager:
		return "Manager"
	case DesignationSales:
		return "Sales"
	}
	return string(d)
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

var Genders = []Gender{GenderMale, GenderFemale}

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

func (g Gender) Label() string {
	if g == "" {
		return ""
	}
	return strings.ToUpper(string(g[:1])) + string(g[1:])
}

// Employee is the server owned record. ID is assigned by the backend and
// never changed by the client.
type Employee struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Mobile      string      `json:"mobile"`
	Designation Designation `json:"designation"`
	Gender      Gender      `json:"gender"`
	Course      CourseSet   `json:"course"`
	Image       string      `json:"image,omitempty"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

// Attachment is a raw image picked in the form and not yet uploaded.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (a *Attachment) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}
