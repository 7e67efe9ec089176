package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/cmlabs-hris/usermanager/internal/domain/remote"
	"github.com/cmlabs-hris/usermanager/internal/domain/session"
	"github.com/cmlabs-hris/usermanager/internal/handler/web/view"
	"github.com/cmlabs-hris/usermanager/internal/pkg/validator"
	"github.com/cmlabs-hris/usermanager/internal/service/dashboard"
	"github.com/cmlabs-hris/usermanager/internal/service/form"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
)

const (
	dashboardPath = "/Dashboard"
	// maxSubmitBody leaves room for the text fields around a full size image.
	maxSubmitBody = employee.MaxImageSize + 1<<20
)

type DashboardHandler interface {
	Show(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	New(w http.ResponseWriter, r *http.Request)
	Edit(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Field(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	workspaces *dashboard.Store
	layout     string
}

func NewDashboardHandler(workspaces *dashboard.Store, layout string) DashboardHandler {
	return &dashboardHandlerImpl{
		workspaces: workspaces,
		layout:     layout,
	}
}

func (h *dashboardHandlerImpl) workspace(r *http.Request) (*dashboard.Workspace, session.Identity) {
	id, _ := session.FromContext(r.Context())
	return h.workspaces.Get(id.ID), id
}

// snapshot copies what the page shows out of the presenter.
func (h *dashboardHandlerImpl) snapshot(r *http.Request, p *dashboard.Presenter) view.DashboardData {
	data := view.DashboardData{
		Layout:    h.layout,
		Loaded:    p.Loaded(),
		Query:     p.Query(),
		Employees: p.Employees(),
		Total:     p.Total(),
	}
	if reconciler := p.Form(); reconciler.State() != form.StateEmpty {
		data.Form = view.NewFormView(reconciler.State() == form.StateEditing, reconciler.Draft(), csrf.TemplateField(r))
	}
	return data
}

// Show implements DashboardHandler. A q parameter, even empty, replaces the query.
func (h *dashboardHandlerImpl) Show(w http.ResponseWriter, r *http.Request) {
	ws, id := h.workspace(r)

	var data view.DashboardData
	loadErr := ws.View(func(p *dashboard.Presenter) error {
		if q, ok := r.URL.Query()["q"]; ok {
			p.SetQuery(q[0])
		}
		err := p.Activate(r.Context())
		data = h.snapshot(r, p)
		return err
	})

	var extra []view.Flash
	if loadErr != nil {
		slog.Error("Dashboard load error", "error", loadErr)
		extra = append(extra, failure(errorMessage(loadErr)))
	}

	data.Page = page(w, r, extra...)
	data.UserName = id.Name
	render(w, r, view.DashboardPage(data))
}

// Search implements DashboardHandler. htmx gets the list region only.
func (h *dashboardHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	ws, _ := h.workspace(r)
	query := r.URL.Query().Get("q")

	var data view.DashboardData
	_ = ws.View(func(p *dashboard.Presenter) error {
		p.SetQuery(query)
		data = h.snapshot(r, p)
		return nil
	})

	if !isHTMX(r) {
		redirect(w, r, dashboardPath)
		return
	}
	data.Page = page(w, r)
	data.OOB = len(data.Flashes) > 0
	render(w, r, view.EmployeeList(data))
}

// Refresh implements DashboardHandler.
func (h *dashboardHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(p *dashboard.Presenter) (string, error) {
		return "", p.Refresh(r.Context())
	})
}

// New implements DashboardHandler.
func (h *dashboardHandlerImpl) New(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(p *dashboard.Presenter) (string, error) {
		p.Form().StartCreate()
		return "", nil
	})
}

// Edit implements DashboardHandler.
func (h *dashboardHandlerImpl) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mutate(w, r, func(p *dashboard.Presenter) (string, error) {
		return "", p.Edit(id)
	})
}

// Delete implements DashboardHandler.
func (h *dashboardHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mutate(w, r, func(p *dashboard.Presenter) (string, error) {
		if err := p.Delete(r.Context(), id); err != nil {
			var refreshErr *dashboard.RefreshError
			if errors.As(err, &refreshErr) && !errors.Is(err, remote.ErrNotFound) {
				return "Employee Removed", err
			}
			return "", err
		}
		return "Employee Removed", nil
	})
}

// Cancel implements DashboardHandler.
func (h *dashboardHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(p *dashboard.Presenter) (string, error) {
		p.Form().Cancel()
		return "", nil
	})
}

// Field implements DashboardHandler. It applies one change of the open form:
// either field=<name> with the value under that name, or toggle=<course>.
func (h *dashboardHandlerImpl) Field(w http.ResponseWriter, r *http.Request) {
	ws, _ := h.workspace(r)
	field := r.FormValue("field")
	toggle := r.FormValue("toggle")

	err := ws.View(func(p *dashboard.Presenter) error {
		if toggle != "" {
			return p.Form().ToggleCourse(toggle)
		}
		return p.Form().SetField(field, r.FormValue(field))
	})
	if err != nil {
		slog.Warn("Form change rejected", "field", field, "toggle", toggle, "error", err)
		http.Error(w, errorMessage(err), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submit implements DashboardHandler. The posted form is reconciled into the
// draft first, so it wins over any field change still in flight.
func (h *dashboardHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBody)
	if err := r.ParseMultipartForm(maxSubmitBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.Error("Failed to parse employee form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			flash(w, r, failure("Image must not exceed 5MB"))
		} else {
			flash(w, r, failure("Could not read the form"))
		}
		redirect(w, r, dashboardPath)
		return
	}

	fields := make(map[string]string)
	for _, name := range []string{form.FieldName, form.FieldEmail, form.FieldMobile, form.FieldDesignation, form.FieldGender} {
		if values, ok := r.PostForm[name]; ok && len(values) > 0 {
			fields[name] = values[0]
		}
	}
	courses := r.PostForm["course"]

	image, err := readImage(r)
	if err != nil {
		flash(w, r, failure(errorMessage(err)))
		redirect(w, r, dashboardPath)
		return
	}

	h.mutate(w, r, func(p *dashboard.Presenter) (string, error) {
		if err := p.Form().Reconcile(fields, courses); err != nil {
			return "", err
		}
		if image != nil {
			if err := p.Form().SetImage(image); err != nil {
				return "", err
			}
		}

		outcome, err := p.Submit(r.Context())
		var refreshErr *dashboard.RefreshError
		if err != nil && !errors.As(err, &refreshErr) {
			return "", err
		}
		if outcome.Created {
			return "Employee Added", err
		}
		return "Employee Updated", err
	})
}

// mutate runs fn as the workspace's single in-flight action and answers with
// a redirect back to the dashboard carrying the resulting toasts.
func (h *dashboardHandlerImpl) mutate(w http.ResponseWriter, r *http.Request, fn func(p *dashboard.Presenter) (string, error)) {
	ws, _ := h.workspace(r)

	var message string
	err := ws.Mutate(func(p *dashboard.Presenter) error {
		var err error
		message, err = fn(p)
		return err
	})

	var flashes []view.Flash
	if message != "" {
		flashes = append(flashes, success(message))
	}
	if err != nil {
		slog.Error("Dashboard action failed", "path", r.URL.Path, "error", err)
		for _, msg := range errorMessages(err) {
			flashes = append(flashes, failure(msg))
		}
	}
	if len(flashes) > 0 {
		flash(w, r, flashes...)
	}
	redirect(w, r, dashboardPath)
}

// readImage returns the uploaded image, or nil when none was chosen.
func readImage(r *http.Request) (*employee.Attachment, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	defer file.Close()

	if header.Size > employee.MaxImageSize {
		return nil, employee.ErrImageTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, employee.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) > employee.MaxImageSize {
		return nil, employee.ErrImageTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &employee.Attachment{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// errorMessages gives one toast per error joined into err.
func errorMessages(err error) []string {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{errorMessage(err)}
	}
	var msgs []string
	for _, e := range joined.Unwrap() {
		msgs = append(msgs, errorMessages(e)...)
	}
	return msgs
}

// errorMessage is the toast text for err.
func errorMessage(err error) string {
	var (
		verrs      validator.ValidationErrors
		refreshErr *dashboard.RefreshError
	)
	switch {
	case errors.Is(err, dashboard.ErrBusy):
		return "Request already in progress"
	case errors.As(err, &verrs):
		msgs := make([]string, 0, len(verrs))
		for _, v := range verrs {
			msgs = append(msgs, v.Message)
		}
		return strings.Join(msgs, "; ")
	case errors.As(err, &refreshErr):
		return "Could not reload employees: " + remote.Message(refreshErr.Err)
	case errors.Is(err, employee.ErrImageTooLarge):
		return "Image must not exceed 5MB"
	case errors.Is(err, form.ErrNoDraft):
		return "No form is open"
	case errors.Is(err, form.ErrInvalidValue), errors.Is(err, form.ErrUnknownField), errors.Is(err, employee.ErrUnknownCourse):
		return "Invalid form value"
	}
	return remote.Message(err)
}
