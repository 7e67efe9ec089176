package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/usermanager/internal/domain/auth"
	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/cmlabs-hris/usermanager/internal/domain/remote"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// Client talks to the employee REST backend. It implements employee.Client
// and auth.Authenticator. Nothing is retried.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", baseURL)
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// List fetches GET /users.
func (c *Client) List(ctx context.Context) ([]employee.Employee, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/users", nil, "")
	if err != nil {
		return nil, err
	}

	var body employee.ListResponse
	if err := c.do(req, "list employees", "", &body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		return []employee.Employee{}, nil
	}
	return body.Data, nil
}

// Create sends POST /employee.
func (c *Client) Create(ctx context.Context, draft employee.Draft) (employee.Employee, error) {
	return c.save(ctx, http.MethodPost, "/employee", "", draft, "create employee")
}

// Update sends PUT /employee/{id}.
func (c *Client) Update(ctx context.Context, id string, draft employee.Draft) (employee.Employee, error) {
	return c.save(ctx, http.MethodPut, "/employee/"+url.PathEscape(id), id, draft, "update employee")
}

// Delete sends DELETE /employee/{id}.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/employee/"+url.PathEscape(id), nil, "")
	if err != nil {
		return err
	}
	return c.do(req, "delete employee", id, nil)
}

// Login sends POST /login and returns the backend's message on success.
func (c *Client) Login(ctx context.Context, login auth.LoginRequest) (string, error) {
	payload, err := json.Marshal(login)
	if err != nil {
		return "", fmt.Errorf("encode login: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/login", bytes.NewReader(payload), "application/json")
	if err != nil {
		return "", err
	}

	var body auth.LoginResponse
	err = c.do(req, "login", "", &body)
	var serverErr *remote.ServerError
	if errors.As(err, &serverErr) && serverErr.Status == http.StatusUnauthorized {
		return "", &auth.CredentialsError{Message: serverErr.Message}
	}
	if err != nil {
		return "", err
	}
	return body.Message, nil
}

func (c *Client) save(ctx context.Context, method, path, id string, draft employee.Draft, op string) (employee.Employee, error) {
	payload, contentType, err := encodeDraft(draft)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("%s: encode form: %w", op, err)
	}

	req, err := c.newRequest(ctx, method, path, payload, contentType)
	if err != nil {
		return employee.Employee{}, err
	}

	var body savedEmployee
	if err := c.do(req, op, id, &body); err != nil {
		return employee.Employee{}, err
	}
	if body.Data != nil {
		return *body.Data, nil
	}
	return body.Employee, nil
}

// savedEmployee accepts either the bare record or one wrapped in "data".
type savedEmployee struct {
	employee.Employee
	Data *employee.Employee `json:"data"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// do executes req and maps the outcome onto the remote error taxonomy.
// id is the target of an update or delete; a 404 is reported as NotFound
// only when it is set.
func (c *Client) do(req *http.Request, op, id string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Backend request failed", "op", op, "url", req.URL.String(), "error", err)
		return &remote.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return &remote.ServerError{Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
		}
		return nil
	}

	message := readMessage(resp)
	slog.Warn("Backend rejected request", "op", op, "status", resp.StatusCode, "message", message)

	switch {
	case resp.StatusCode == http.StatusNotFound && id != "":
		return &remote.NotFoundError{ID: id}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		if req.Method == http.MethodPost || req.Method == http.MethodPut {
			return &remote.ValidationError{Message: message}
		}
	}
	return &remote.ServerError{Status: resp.StatusCode, Message: message}
}

// errorBody covers both {message} and the {error:{message}} envelope.
type errorBody struct {
	Message string `json:"message"`
	Error   *struct {
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func readMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != nil && body.Error.Message != "" {
			return body.Error.Message
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") && len(text) < 200 {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// encodeDraft builds the multipart body. The image part is only written
// when a pending attachment exists.
func encodeDraft(d employee.Draft) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", d.Name},
		{"email", d.Email},
		{"mobile", d.Mobile},
		{"designation", string(d.Designation)},
		{"gender", string(d.Gender)},
		{"course", d.Course.String()},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if d.Image != nil {
		contentType := d.Image.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(d.Image.Filename)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(d.Image.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
