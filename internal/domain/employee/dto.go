package employee

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/cmlabs-hris/usermanager/internal/pkg/validator"
)

// MaxImageSize bounds a single employee image upload.
const MaxImageSize = 5 << 20

// Draft is the client side, possibly incomplete, form state for one employee.
type Draft struct {
	Name        string
	Email       string
	Mobile      string
	Designation Designation
	Gender      Gender
	Course      CourseSet
	// Image is the pending upload. Nil means no image part is sent.
	Image *Attachment
	// ImageURL is the current image of the employee being edited. Display only.
	ImageURL string
}

// DraftFrom copies e into a draft. The course set is carried over member by member.
func DraftFrom(e Employee) Draft {
	return Draft{
		Name:        e.Name,
		Email:       e.Email,
		Mobile:      e.Mobile,
		Designation: e.Designation,
		Gender:      e.Gender,
		Course:      NewCourseSet(e.Course.Values()...),
		ImageURL:    e.Image,
	}
}

// Validate applies the checks a browser form would apply before submitting:
// name, email and mobile are required and a non-empty email must look like one.
func (d Draft) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(d.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if validator.IsEmpty(d.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(strings.TrimSpace(d.Email)) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if validator.IsEmpty(d.Mobile) {
		errs = append(errs, validator.ValidationError{
			Field:   "mobile",
			Message: "mobile is required",
		})
	}
	if d.Image.Size() > MaxImageSize {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "image must not exceed 5MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SaveEmployeeRequest is the multipart payload accepted by POST /employee and
// PUT /employee/{id}.
type SaveEmployeeRequest struct {
	Name        string
	Email       string
	Mobile      string
	Designation string
	Gender      string
	Course      string

	File       io.Reader
	FileHeader *multipart.FileHeader
}

func (r *SaveEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(strings.TrimSpace(r.Email)) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if validator.IsEmpty(r.Mobile) {
		errs = append(errs, validator.ValidationError{
			Field:   "mobile",
			Message: "mobile is required",
		})
	}
	if r.Designation != "" && !Designation(r.Designation).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "designation",
			Message: "designation must be one of hr, manager, sales",
		})
	}
	if r.Gender != "" && !Gender(r.Gender).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "gender",
			Message: "gender must be male or female",
		})
	}
	if _, err := ParseCourseSet(r.Course); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "course",
			Message: "course must be a combination of BCA, BSC, MCA",
		})
	}
	if r.FileHeader != nil && r.FileHeader.Size > MaxImageSize {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "image must not exceed 5MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Employee builds the record described by the request. Callers validate first.
func (r *SaveEmployeeRequest) Employee() Employee {
	course, _ := ParseCourseSet(r.Course)
	return Employee{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		Mobile:      strings.TrimSpace(r.Mobile),
		Designation: Designation(r.Designation),
		Gender:      Gender(r.Gender),
		Course:      course,
	}
}

type ListResponse struct {
	Data []Employee `json:"data"`
}
