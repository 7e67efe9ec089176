package web

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/usermanager/internal/domain/remote"
	"github.com/cmlabs-hris/usermanager/internal/service/dashboard"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "single error",
			err:  &remote.NotFoundError{ID: "e-1"},
			want: []string{"Employee no longer exists"},
		},
		{
			name: "busy",
			err:  dashboard.ErrBusy,
			want: []string{"Request already in progress"},
		},
		{
			name: "gone and reload failed",
			err: errors.Join(
				&remote.NotFoundError{ID: "e-1"},
				&dashboard.RefreshError{Err: &remote.NetworkError{Op: "list", Err: errors.New("refused")}},
			),
			want: []string{"Employee no longer exists", "Could not reload employees: No response from the server"},
		},
		{
			name: "reload failed after a delete",
			err:  errors.Join(nil, &dashboard.RefreshError{Err: &remote.ServerError{Status: 503, Message: "down"}}),
			want: []string{"Could not reload employees: down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessages(tt.err))
		})
	}
}
