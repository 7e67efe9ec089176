package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/cmlabs-hris/usermanager/internal/domain/remote"
	"github.com/cmlabs-hris/usermanager/internal/service/form"
	"github.com/cmlabs-hris/usermanager/internal/service/search"
)

// Presenter holds one session's cached employee list, its search query and
// the filtered view derived from both. The cache is replaced wholesale by
// a refetch and never patched in place.
type Presenter struct {
	client employee.Client
	form   *form.Reconciler

	cache  []employee.Employee
	loaded bool
	query  string
	view   []employee.Employee
}

func NewPresenter(client employee.Client, reconciler *form.Reconciler) *Presenter {
	return &Presenter{
		client: client,
		form:   reconciler,
	}
}

// Activate loads the list the first time the dashboard is shown. After a
// failed load the next activation tries again.
func (p *Presenter) Activate(ctx context.Context) error {
	if p.loaded {
		return nil
	}
	return p.Refresh(ctx)
}

// Refresh refetches the full list. On failure the previous cache is kept.
func (p *Presenter) Refresh(ctx context.Context) error {
	list, err := p.client.List(ctx)
	if err != nil {
		slog.Error("Employee list fetch failed", "error", err)
		return fmt.Errorf("load employees: %w", err)
	}

	p.cache = list
	p.loaded = true
	p.derive()
	return nil
}

func (p *Presenter) SetQuery(query string) {
	p.query = query
	p.derive()
}

func (p *Presenter) derive() {
	p.view = search.Filter(p.cache, p.query)
}

func (p *Presenter) Query() string {
	return p.query
}

func (p *Presenter) Loaded() bool {
	return p.loaded
}

// Employees returns the filtered view.
func (p *Presenter) Employees() []employee.Employee {
	return p.view
}

// Total is the size of the cache, independent of the query.
func (p *Presenter) Total() int {
	return len(p.cache)
}

func (p *Presenter) Form() *form.Reconciler {
	return p.form
}

func (p *Presenter) find(id string) (employee.Employee, bool) {
	for _, e := range p.cache {
		if e.ID == id {
			return e, true
		}
	}
	return employee.Employee{}, false
}

// Edit opens the form on the cached employee with the given id.
func (p *Presenter) Edit(id string) error {
	e, ok := p.find(id)
	if !ok {
		return &remote.NotFoundError{ID: id}
	}
	p.form.StartEdit(e)
	return nil
}

// Delete removes the employee on the backend and then refetches. The refetch
// also runs when the backend no longer knows the id, so a stale cache heals;
// the NotFound error is still returned, joined with a RefreshError when the
// refetch fails too.
func (p *Presenter) Delete(ctx context.Context, id string) error {
	err := p.client.Delete(ctx, id)
	if err != nil && !errors.Is(err, remote.ErrNotFound) {
		slog.Error("Employee delete failed", "id", id, "error", err)
		return err
	}

	if refreshErr := p.Refresh(ctx); refreshErr != nil {
		return errors.Join(err, &RefreshError{Err: refreshErr})
	}
	return err
}

// Submit sends the open form and refetches after a successful write. A
// failed refetch is returned together with the outcome of the write.
func (p *Presenter) Submit(ctx context.Context) (form.Outcome, error) {
	outcome, err := p.form.Submit(ctx, p.client)
	if err != nil {
		return form.Outcome{}, err
	}

	if err := p.Refresh(ctx); err != nil {
		return outcome, &RefreshError{Err: err}
	}
	return outcome, nil
}

// RefreshError reports that a write succeeded but the list could not be reloaded.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "saved, but reloading the list failed: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}
