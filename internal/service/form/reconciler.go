package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
)

var (
	ErrNoDraft      = errors.New("no form is open")
	ErrUnknownField = errors.New("unknown form field")
	ErrInvalidValue = errors.New("value not offered by the form")
)

type State int

const (
	StateEmpty State = iota
	StateDrafting
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateDrafting:
		return "drafting"
	case StateEditing:
		return "editing"
	}
	return "empty"
}

// Form field names accepted by SetField and Reconcile.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldMobile      = "mobile"
	FieldDesignation = "designation"
	FieldGender      = "gender"
)

// Outcome describes a successful submit.
type Outcome struct {
	Created  bool
	Employee employee.Employee
}

// Reconciler owns the create/edit form. It is not safe for concurrent use;
// callers serialize access per session.
type Reconciler struct {
	state    State
	targetID string
	draft    employee.Draft
}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

func (r *Reconciler) State() State {
	return r.state
}

// TargetID is the id of the employee being edited, empty otherwise.
func (r *Reconciler) TargetID() string {
	return r.targetID
}

// Draft returns a copy of the current draft.
func (r *Reconciler) Draft() employee.Draft {
	d := r.draft
	if d.Image != nil {
		img := *d.Image
		d.Image = &img
	}
	return d
}

func (r *Reconciler) StartCreate() {
	r.state = StateDrafting
	r.targetID = ""
	r.draft = employee.Draft{}
}

func (r *Reconciler) StartEdit(e employee.Employee) {
	r.state = StateEditing
	r.targetID = e.ID
	r.draft = employee.DraftFrom(e)
}

func (r *Reconciler) Cancel() {
	r.state = StateEmpty
	r.targetID = ""
	r.draft = employee.Draft{}
}

func (r *Reconciler) SetField(name, value string) error {
	if r.state == StateEmpty {
		return ErrNoDraft
	}

	switch name {
	case FieldName:
		r.draft.Name = value
	case FieldEmail:
		r.draft.Email = value
	case FieldMobile:
		r.draft.Mobile = value
	case FieldDesignation:
		d := employee.Designation(value)
		if value != "" && !d.IsValid() {
			return fmt.Errorf("%w: designation %q", ErrInvalidValue, value)
		}
		r.draft.Designation = d
	case FieldGender:
		g := employee.Gender(value)
		if value != "" && !g.IsValid() {
			return fmt.Errorf("%w: gender %q", ErrInvalidValue, value)
		}
		r.draft.Gender = g
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

func (r *Reconciler) ToggleCourse(value string) error {
	if r.state == StateEmpty {
		return ErrNoDraft
	}

	c, err := employee.ParseCourse(value)
	if err != nil {
		return err
	}
	r.draft.Course = r.draft.Course.Toggle(c)
	return nil
}

// SetImage replaces the pending image. Nil clears it.
func (r *Reconciler) SetImage(img *employee.Attachment) error {
	if r.state == StateEmpty {
		return ErrNoDraft
	}
	if img.Size() > employee.MaxImageSize {
		return employee.ErrImageTooLarge
	}
	r.draft.Image = img
	return nil
}

// Reconcile applies a fully posted form. Scalar fields go through SetField;
// only courses whose selection differs from the draft are toggled.
// Nothing is applied when any value is rejected.
func (r *Reconciler) Reconcile(fields map[string]string, courses []string) error {
	if r.state == StateEmpty {
		return ErrNoDraft
	}

	wanted := employee.NewCourseSet()
	for _, raw := range courses {
		c, err := employee.ParseCourse(raw)
		if err != nil {
			return err
		}
		wanted = wanted.Add(c)
	}

	saved := r.draft
	for _, name := range []string{FieldName, FieldEmail, FieldMobile, FieldDesignation, FieldGender} {
		value, ok := fields[name]
		if !ok {
			continue
		}
		if err := r.SetField(name, value); err != nil {
			r.draft = saved
			return err
		}
	}

	for _, c := range employee.Courses {
		if wanted.Has(c) != r.draft.Course.Has(c) {
			if err := r.ToggleCourse(string(c)); err != nil {
				r.draft = saved
				return err
			}
		}
	}
	return nil
}

// Submit validates the draft and sends it as a create or an update depending
// on the state. On success the form closes. On failure state and draft are
// left exactly as they were.
func (r *Reconciler) Submit(ctx context.Context, client employee.Client) (Outcome, error) {
	if r.state == StateEmpty {
		return Outcome{}, ErrNoDraft
	}

	if err := r.draft.Validate(); err != nil {
		return Outcome{}, err
	}

	var (
		saved employee.Employee
		err   error
	)
	created := r.state == StateDrafting
	if created {
		saved, err = client.Create(ctx, r.Draft())
	} else {
		saved, err = client.Update(ctx, r.targetID, r.Draft())
	}
	if err != nil {
		return Outcome{}, err
	}

	r.Cancel()
	return Outcome{Created: created, Employee: saved}, nil
}
