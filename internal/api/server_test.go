package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/pkg/errors"
)

func TestClassify(t *testing.T) {
	type testcase struct {
		name string
		err  error

		wantStatus int
	}

	tests := [...]testcase{
		{
			name:       "not found",
			err:        errors.Wrap(models.ErrNotFound, "slot"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "access denied",
			err:        errors.Wrap(models.ErrAccessDenied, "booking requires an invitation"),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "invalid input",
			err:        errors.Wrap(models.ErrInvalidInput, "no applications given"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "slot taken",
			err:        models.ErrSlotTaken,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "stale interviewee",
			err:        models.ErrStaleInterviewee,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown errors stay internal",
			err:        errors.Error("mongo timeout"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := classify(tt.err)
			require.Equal(t, tt.wantStatus, status)
			require.NotEmpty(t, msg)
		})
	}
}

func TestClassify_ConflictMessagesAreActionable(t *testing.T) {
	_, taken := classify(models.ErrSlotTaken)
	_, stale := classify(models.ErrStaleInterviewee)

	require.NotEqual(t, taken, stale, "the two conflict kinds must be distinguishable")
	require.NotEqual(t, models.ErrSlotTaken.Error(), taken)
}

func TestClassify_WrappedConflict(t *testing.T) {
	err := errors.WrapFail(models.ErrSlotTaken, "commit booking")

	status, _ := classify(err)
	require.Equal(t, http.StatusConflict, status)
}
