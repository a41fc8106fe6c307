package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "reason", Message: "reason is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"already checked in", attendance.ErrAlreadyCheckedIn, http.StatusConflict, "CONFLICT"},
		{"break in progress", attendance.ErrBreakInProgress, http.StatusBadRequest, "BAD_REQUEST"},
		{"wrapped not checked in", fmt.Errorf("checkout: %w", attendance.ErrNotCheckedIn), http.StatusBadRequest, "BAD_REQUEST"},
		{"overlap", leave.ErrOverlappingRequest, http.StatusConflict, "CONFLICT"},
		{"already decided", leave.ErrAlreadyDecided, http.StatusConflict, "CONFLICT"},
		{"past date", leave.ErrPastDate, http.StatusBadRequest, "BAD_REQUEST"},
		{"leave not found", leave.ErrLeaveRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"notification not found", notification.ErrNotificationNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"inactive employee", employee.ErrEmployeeInactive, http.StatusForbidden, "FORBIDDEN"},
		{"self deactivation", employee.ErrSelfDeactivation, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown permission", user.ErrInvalidPermission, http.StatusBadRequest, "BAD_REQUEST"},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, errors.New("pq: password authentication failed"))
	assert.NotContains(t, w.Body.String(), "password")
}
