package form

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/cmlabs-hris/usermanager/internal/domain/remote"
	"github.com/cmlabs-hris/usermanager/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) List(ctx context.Context) ([]employee.Employee, error) {
	args := m.Called(ctx)
	return args.Get(0).([]employee.Employee), args.Error(1)
}

func (m *mockClient) Create(ctx context.Context, draft employee.Draft) (employee.Employee, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockClient) Update(ctx context.Context, id string, draft employee.Draft) (employee.Employee, error) {
	args := m.Called(ctx, id, draft)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockClient) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func bob() employee.Employee {
	return employee.Employee{
		ID:          "b-1",
		Name:        "Bob",
		Email:       "bob@x.io",
		Mobile:      "555",
		Designation: employee.DesignationManager,
		Gender:      employee.GenderMale,
		Course:      employee.NewCourseSet(employee.CourseBSC, employee.CourseMCA),
		Image:       "http://cdn/bob.png",
	}
}

func fillAlice(t *testing.T, r *Reconciler) {
	t.Helper()
	require.NoError(t, r.SetField(FieldName, "Alice"))
	require.NoError(t, r.SetField(FieldEmail, "alice@x.io"))
	require.NoError(t, r.SetField(FieldMobile, "1234567890"))
	require.NoError(t, r.SetField(FieldDesignation, "hr"))
	require.NoError(t, r.SetField(FieldGender, "female"))
	require.NoError(t, r.ToggleCourse("BCA"))
}

func TestReconciler_StartsEmpty(t *testing.T) {
	r := NewReconciler()
	assert.Equal(t, StateEmpty, r.State())
	assert.ErrorIs(t, r.SetField(FieldName, "x"), ErrNoDraft)
	assert.ErrorIs(t, r.ToggleCourse("BCA"), ErrNoDraft)
	assert.ErrorIs(t, r.SetImage(nil), ErrNoDraft)

	_, err := r.Submit(context.Background(), &mockClient{})
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestReconciler_StartEditDecomposesCourses(t *testing.T) {
	r := NewReconciler()
	r.StartEdit(bob())

	assert.Equal(t, StateEditing, r.State())
	assert.Equal(t, "b-1", r.TargetID())

	d := r.Draft()
	assert.Equal(t, "Bob", d.Name)
	assert.Equal(t, []employee.Course{employee.CourseBSC, employee.CourseMCA}, d.Course.Values())
	assert.Nil(t, d.Image)
	assert.Equal(t, "http://cdn/bob.png", d.ImageURL)

	require.NoError(t, r.ToggleCourse("bsc"))
	assert.Equal(t, "MCA", r.Draft().Course.String())
}

func TestReconciler_ToggleTwiceRestores(t *testing.T) {
	r := NewReconciler()
	r.StartEdit(bob())
	before := r.Draft().Course

	for _, c := range []string{"BCA", "BSC", "MCA"} {
		require.NoError(t, r.ToggleCourse(c))
		require.NoError(t, r.ToggleCourse(c))
		assert.Equal(t, before, r.Draft().Course)
	}
}

func TestReconciler_SetFieldRejects(t *testing.T) {
	r := NewReconciler()
	r.StartCreate()

	assert.ErrorIs(t, r.SetField("salary", "1"), ErrUnknownField)
	assert.ErrorIs(t, r.SetField(FieldDesignation, "ceo"), ErrInvalidValue)
	assert.ErrorIs(t, r.SetField(FieldGender, "other"), ErrInvalidValue)
	assert.ErrorIs(t, r.ToggleCourse("PHD"), employee.ErrUnknownCourse)

	assert.NoError(t, r.SetField(FieldDesignation, ""))
	assert.Equal(t, employee.Draft{}, r.Draft())
}

func TestReconciler_SetImage(t *testing.T) {
	r := NewReconciler()
	r.StartCreate()

	first := &employee.Attachment{Filename: "a.png", Data: []byte{1}}
	second := &employee.Attachment{Filename: "b.png", Data: []byte{2}}
	require.NoError(t, r.SetImage(first))
	require.NoError(t, r.SetImage(second))
	assert.Equal(t, "b.png", r.Draft().Image.Filename)

	tooBig := &employee.Attachment{Filename: "c.png", Data: make([]byte, employee.MaxImageSize+1)}
	assert.ErrorIs(t, r.SetImage(tooBig), employee.ErrImageTooLarge)
	assert.Equal(t, "b.png", r.Draft().Image.Filename)

	require.NoError(t, r.SetImage(nil))
	assert.Nil(t, r.Draft().Image)
}

func TestReconciler_SubmitCreate(t *testing.T) {
	ctx := context.Background()
	r := NewReconciler()
	r.StartCreate()
	fillAlice(t, r)

	want := employee.Draft{
		Name:        "Alice",
		Email:       "alice@x.io",
		Mobile:      "1234567890",
		Designation: employee.DesignationHR,
		Gender:      employee.GenderFemale,
		Course:      employee.NewCourseSet(employee.CourseBCA),
	}
	created := employee.Employee{ID: "new", Name: "Alice"}

	client := &mockClient{}
	client.On("Create", ctx, want).Return(created, nil).Once()

	out, err := r.Submit(ctx, client)
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, created, out.Employee)
	assert.Equal(t, StateEmpty, r.State())
	client.AssertExpectations(t)
}

func TestReconciler_SubmitUpdateRoutesToTarget(t *testing.T) {
	ctx := context.Background()
	r := NewReconciler()
	r.StartEdit(bob())
	require.NoError(t, r.SetField(FieldMobile, "999"))

	want := employee.DraftFrom(bob())
	want.Mobile = "999"

	client := &mockClient{}
	client.On("Update", ctx, "b-1", want).Return(bob(), nil).Once()

	out, err := r.Submit(ctx, client)
	require.NoError(t, err)
	assert.False(t, out.Created)
	assert.Equal(t, StateEmpty, r.State())
	assert.Empty(t, r.TargetID())
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReconciler_SubmitValidationKeepsDraft(t *testing.T) {
	r := NewReconciler()
	r.StartCreate()
	require.NoError(t, r.SetField(FieldName, "Alice"))

	client := &mockClient{}
	_, err := r.Submit(context.Background(), client)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("email"))
	assert.True(t, errs.Has("mobile"))
	assert.Equal(t, StateDrafting, r.State())
	assert.Equal(t, "Alice", r.Draft().Name)
	client.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReconciler_SubmitFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	r := NewReconciler()
	r.StartEdit(bob())
	before := r.Draft()

	client := &mockClient{}
	client.On("Update", ctx, "b-1", before).Return(employee.Employee{}, &remote.ServerError{Status: 500, Message: "down"})

	_, err := r.Submit(ctx, client)
	assert.ErrorIs(t, err, remote.ErrServer)
	assert.Equal(t, StateEditing, r.State())
	assert.Equal(t, "b-1", r.TargetID())
	assert.Equal(t, before, r.Draft())
}

func TestReconciler_Reconcile(t *testing.T) {
	r := NewReconciler()
	r.StartEdit(bob())

	err := r.Reconcile(map[string]string{
		FieldName:   "Robert",
		FieldMobile: "777",
	}, []string{"BCA", "MCA"})
	require.NoError(t, err)

	d := r.Draft()
	assert.Equal(t, "Robert", d.Name)
	assert.Equal(t, "777", d.Mobile)
	assert.Equal(t, "bob@x.io", d.Email, "fields not posted stay as they were")
	assert.Equal(t, "BCA,MCA", d.Course.String())
}

func TestReconciler_ReconcileIsAllOrNothing(t *testing.T) {
	r := NewReconciler()
	r.StartEdit(bob())
	before := r.Draft()

	err := r.Reconcile(map[string]string{FieldName: "Robert", FieldGender: "other"}, nil)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, before, r.Draft())

	err = r.Reconcile(map[string]string{FieldName: "Robert"}, []string{"PHD"})
	assert.ErrorIs(t, err, employee.ErrUnknownCourse)
	assert.Equal(t, before, r.Draft())
}

func TestReconciler_Cancel(t *testing.T) {
	r := NewReconciler()
	r.StartEdit(bob())
	r.Cancel()

	assert.Equal(t, StateEmpty, r.State())
	assert.Empty(t, r.TargetID())
	assert.Equal(t, employee.Draft{}, r.Draft())
}
