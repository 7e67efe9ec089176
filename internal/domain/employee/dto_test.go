package employee

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/cmlabs-hris/usermanager/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name   string
		draft  Draft
		fields []string
	}{
		{
			name:  "complete",
			draft: Draft{Name: "Alice", Email: "a@x.io", Mobile: "123"},
		},
		{
			name:   "everything missing",
			draft:  Draft{},
			fields: []string{"name", "email", "mobile"},
		},
		{
			name:   "blank name",
			draft:  Draft{Name: "  ", Email: "a@x.io", Mobile: "123"},
			fields: []string{"name"},
		},
		{
			name:   "malformed email",
			draft:  Draft{Name: "Alice", Email: "alice", Mobile: "123"},
			fields: []string{"email"},
		},
		{
			name: "image too large",
			draft: Draft{Name: "Alice", Email: "a@x.io", Mobile: "123",
				Image: &Attachment{Filename: "a.png", Data: make([]byte, MaxImageSize+1)}},
			fields: []string{"image"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Len(t, errs, len(tt.fields))
			for _, f := range tt.fields {
				assert.True(t, errs.Has(f), "expected error for %s", f)
			}
		})
	}
}

func TestDraftFrom(t *testing.T) {
	e := Employee{
		ID:          "42",
		Name:        "Bob",
		Email:       "bob@x.io",
		Mobile:      "555",
		Designation: DesignationManager,
		Gender:      GenderMale,
		Course:      NewCourseSet(CourseBSC, CourseMCA),
		Image:       "http://cdn/bob.png",
	}

	d := DraftFrom(e)

	assert.Equal(t, "Bob", d.Name)
	assert.Equal(t, DesignationManager, d.Designation)
	assert.True(t, d.Course.Has(CourseBSC))
	assert.True(t, d.Course.Has(CourseMCA))
	assert.False(t, d.Course.Has(CourseBCA))
	assert.Nil(t, d.Image)
	assert.Equal(t, "http://cdn/bob.png", d.ImageURL)
}

func TestSaveEmployeeRequest_Validate(t *testing.T) {
	valid := SaveEmployeeRequest{
		Name: "Alice", Email: "a@x.io", Mobile: "123",
		Designation: "hr", Gender: "female", Course: "BCA",
	}
	assert.NoError(t, valid.Validate())

	bad := SaveEmployeeRequest{
		Name: "Alice", Email: "a@x.io", Mobile: "123",
		Designation: "ceo", Gender: "other", Course: "PHD",
	}
	var errs validator.ValidationErrors
	require.ErrorAs(t, bad.Validate(), &errs)
	assert.True(t, errs.Has("designation"))
	assert.True(t, errs.Has("gender"))
	assert.True(t, errs.Has("course"))

	large := valid
	large.FileHeader = &multipart.FileHeader{Filename: "big.jpg", Size: MaxImageSize + 1}
	require.ErrorAs(t, large.Validate(), &errs)
	assert.True(t, errs.Has("image"))
}

func TestSaveEmployeeRequest_Employee(t *testing.T) {
	req := SaveEmployeeRequest{
		Name: " Alice ", Email: "a@x.io", Mobile: "123",
		Designation: "hr", Gender: "female", Course: "MCA,BCA",
		File: bytes.NewReader(nil),
	}
	e := req.Employee()
	assert.Equal(t, "Alice", e.Name)
	assert.Equal(t, DesignationHR, e.Designation)
	assert.Equal(t, GenderFemale, e.Gender)
	assert.Equal(t, "BCA,MCA", e.Course.String())
	assert.Empty(t, e.ID)
}
