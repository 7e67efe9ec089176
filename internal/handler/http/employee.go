package http

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/cmlabs-hris/usermanager/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const (
	// maxFormMemory is kept in memory while parsing; the rest spills to disk.
	maxFormMemory = 10 << 20
	// maxRequestBody leaves room for the form fields around a full size image.
	maxRequestBody = employee.MaxImageSize + 1<<20
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// List implements EmployeeHandler
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.employeeService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Create implements EmployeeHandler
func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := parseSaveRequest(w, r)
	if !ok {
		return
	}
	if req.File != nil {
		defer req.File.(multipart.File).Close()
	}

	result, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		slog.Error("CreateEmployee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.JSON(w, result)
}

// Update implements EmployeeHandler
func (h *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	req, ok := parseSaveRequest(w, r)
	if !ok {
		return
	}
	if req.File != nil {
		defer req.File.(multipart.File).Close()
	}

	result, err := h.employeeService.Update(r.Context(), id, req)
	if err != nil {
		slog.Error("UpdateEmployee service error", "error", err, "employee_id", id)
		response.HandleError(w, err)
		return
	}

	response.JSON(w, result)
}

// Delete implements EmployeeHandler
func (h *employeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	if err := h.employeeService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// parseSaveRequest reads the multipart employee form. Repeated course
// fields are merged into one list. It writes the error response itself and
// reports false when the request cannot be used.
func parseSaveRequest(w http.ResponseWriter, r *http.Request) (employee.SaveEmployeeRequest, bool) {
	var req employee.SaveEmployeeRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RequestEntityTooLarge(w, "Request body too large")
			return req, false
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return req, false
	}

	form := r.MultipartForm
	req.Name = r.FormValue("name")
	req.Email = r.FormValue("email")
	req.Mobile = r.FormValue("mobile")
	req.Designation = r.FormValue("designation")
	req.Gender = r.FormValue("gender")
	req.Course = strings.Join(form.Value["course"], ",")

	file, fileHeader, err := r.FormFile("image")
	if err == nil {
		req.File = file
		req.FileHeader = fileHeader
	}

	return req, true
}
