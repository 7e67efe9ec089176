package http

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/cmlabs-hris/usermanager/internal/pkg/storage"
	"github.com/cmlabs-hris/usermanager/internal/repository/memory"
	authService "github.com/cmlabs-hris/usermanager/internal/service/auth"
	employeeService "github.com/cmlabs-hris/usermanager/internal/service/employee"
	"github.com/cmlabs-hris/usermanager/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewUnstartedServer(nil)
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, "http://"+srv.Listener.Addr().String()+"/uploads")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("Manikumar@123"), bcrypt.MinCost)
	require.NoError(t, err)
	authSvc, err := authService.NewAuthService("Mani Kumar", string(hash))
	require.NoError(t, err)

	employeeSvc := employeeService.NewEmployeeService(memory.NewEmployeeRepository(), file.NewFileService(local))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv.Config.Handler = NewRouter(logger, []string{"http://localhost:3000"}, NewAuthHandler(authSvc), NewEmployeeHandler(employeeSvc), local.BasePath())
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

type multipartField struct {
	name, value string
}

func multipartBody(t *testing.T, fields []multipartField, image []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, w.WriteField(f.name, f.value))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func aliceFields() []multipartField {
	return []multipartField{
		{"name", "Alice"},
		{"email", "a@x.io"},
		{"mobile", "1234567890"},
		{"designation", "hr"},
		{"gender", "female"},
		{"course", "BCA"},
	}
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func send(t *testing.T, method, url string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestLogin(t *testing.T) {
	srv := newTestAPI(t)

	resp := send(t, http.MethodPost, srv.URL+"/login", strings.NewReader(`{"text":"Mani Kumar","password":"Manikumar@123"}`), "application/json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, authService.LoginSuccessMessage, decode[map[string]any](t, resp)["message"])

	resp = send(t, http.MethodPost, srv.URL+"/login", strings.NewReader(`{"text":"Mani Kumar","password":"wrong"}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or password", decode[map[string]any](t, resp)["message"])

	resp = send(t, http.MethodPost, srv.URL+"/login", strings.NewReader(`not json`), "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEmployeeLifecycle(t *testing.T) {
	srv := newTestAPI(t)

	resp := send(t, http.MethodGet, srv.URL+"/users", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[employee.ListResponse](t, resp).Data)

	body, ct := multipartBody(t, aliceFields(), tinyPNG(t))
	resp = send(t, http.MethodPost, srv.URL+"/employee", body, ct)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decode[employee.Employee](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "BCA", created.Course.String())
	require.True(t, strings.HasPrefix(created.Image, srv.URL+"/uploads/employees/"))

	img := send(t, http.MethodGet, created.Image, nil, "")
	assert.Equal(t, http.StatusOK, img.StatusCode)

	fields := aliceFields()
	fields[2] = multipartField{"mobile", "999"}
	fields = append(fields, multipartField{"course", "MCA"})
	body, ct = multipartBody(t, fields, nil)
	resp = send(t, http.MethodPut, srv.URL+"/employee/"+created.ID, body, ct)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[employee.Employee](t, resp)
	assert.Equal(t, "999", updated.Mobile)
	assert.Equal(t, "BCA,MCA", updated.Course.String())
	assert.Equal(t, created.Image, updated.Image)

	resp = send(t, http.MethodGet, srv.URL+"/users", nil, "")
	list := decode[employee.ListResponse](t, resp).Data
	require.Len(t, list, 1)
	assert.Equal(t, updated.Mobile, list[0].Mobile)

	resp = send(t, http.MethodDelete, srv.URL+"/employee/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, http.MethodDelete, srv.URL+"/employee/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Employee not found", decode[map[string]any](t, resp)["message"])
}

func TestCreateEmployee_Rejects(t *testing.T) {
	srv := newTestAPI(t)

	fields := aliceFields()
	fields[1] = multipartField{"email", "not-an-email"}
	body, ct := multipartBody(t, fields, nil)
	resp := send(t, http.MethodPost, srv.URL+"/employee", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "email must be a valid email address", decode[map[string]any](t, resp)["message"])

	resp = send(t, http.MethodPost, srv.URL+"/employee", strings.NewReader(`{"name":"x"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, ct = multipartBody(t, aliceFields(), nil)
	resp = send(t, http.MethodPut, srv.URL+"/employee/missing", body, ct)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHeartbeat(t *testing.T) {
	srv := newTestAPI(t)

	resp := send(t, http.MethodGet, srv.URL+"/ping", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
