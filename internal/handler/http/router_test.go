package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-timekeeping/internal/service/attendance"
	holidayService "github.com/cmlabs-hris/hris-timekeeping/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-timekeeping/internal/service/leave"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, verifier *jwt.Verifier) *chi.Mux {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC))

	registry := holidayService.NewRegistry(memory.NewHolidayRepository())
	attendanceSvc := attendanceService.NewAttendanceService(memory.NewAttendanceRepository(), clock, time.UTC, attendance.DefaultPolicy())
	leaveSvc := leaveService.NewLeaveService(memory.NewLeaveRequestRepository(), registry, clock)

	return NewRouter(
		RouterConfig{AppName: "test", Version: "test", Env: "test"},
		verifier,
		NewAttendanceHandler(attendanceSvc),
		NewLeaveHandler(leaveSvc),
		NewHolidayHandler(registry),
	)
}

func tokenFor(t *testing.T, claims map[string]any) string {
	t.Helper()
	_, token, err := jwtauth.New("HS256", []byte(testSecret), nil).Encode(claims)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, router http.Handler, method, path string, body any, token string) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestAttendanceRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	code, env := do(t, router, http.MethodPost, "/api/v1/attendance/check-in", map[string]any{
		"employee_id": "emp-1",
		"time":        "09:00",
	}, "")
	require.Equal(t, http.StatusCreated, code)
	rec := decode[map[string]any](t, env)
	assert.Equal(t, "2024-06-03", rec["date"])
	assert.Equal(t, "09:00:00", rec["check_in_time"])
	assert.Equal(t, "present", rec["status"])

	code, env = do(t, router, http.MethodPost, "/api/v1/attendance/check-in", map[string]any{"employee_id": "emp-1"}, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, env = do(t, router, http.MethodPost, "/api/v1/attendance/check-out", map[string]any{
		"employee_id": "emp-1",
		"date":        []int{2024, 6, 3},
		"time":        "11:00",
	}, "")
	require.Equal(t, http.StatusOK, code)
	rec = decode[map[string]any](t, env)
	assert.Equal(t, "half-day", rec["status"])
	assert.Equal(t, 2.0, rec["work_hours"])

	code, env = do(t, router, http.MethodGet, "/api/v1/attendance/emp-1?date=20240603", nil, "")
	require.Equal(t, http.StatusOK, code)
	rec = decode[map[string]any](t, env)
	assert.Equal(t, "11:00:00", rec["check_out_time"])

	code, env = do(t, router, http.MethodGet, "/api/v1/attendance/emp-1/range?from=2024-06-01&to=2024-06-30", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, env), 1)
}

func TestAttendanceRoutes_NormalizationError(t *testing.T) {
	router := newTestRouter(t, nil)

	code, env := do(t, router, http.MethodGet, "/api/v1/attendance/emp-1?date=2024-02-30", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "out_of_range", env.Error.Details["reason"])
	assert.Equal(t, "2024-02-30", env.Error.Details["value"])

	code, env = do(t, router, http.MethodGet, "/api/v1/attendance/emp-1?date=soon", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "unparseable", env.Error.Details["reason"])
}

func TestLeaveRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	create := func(start, end string) string {
		code, env := do(t, router, http.MethodPost, "/api/v1/leave-requests", map[string]any{
			"employee_id": "emp-1",
			"leave_type":  "annual",
			"start_date":  start,
			"end_date":    end,
		}, "")
		require.Equal(t, http.StatusCreated, code)
		return decode[map[string]any](t, env)["id"].(string)
	}

	first := create("2024-06-03", "2024-06-03")
	second := create("2024-06-10", "2024-06-10")

	code, _ := do(t, router, http.MethodPost, "/api/v1/leave-requests/"+first+"/approve", nil, "")
	require.Equal(t, http.StatusOK, code)

	code, env := do(t, router, http.MethodPost, "/api/v1/leave-requests/"+first+"/approve", map[string]any{}, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, _ = do(t, router, http.MethodPost, "/api/v1/leave-requests/"+second+"/reject", map[string]any{"comment": ""}, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, router, http.MethodGet, "/api/v1/leave-requests/"+second+"/evaluation", nil, "")
	require.Equal(t, http.StatusOK, code)
	signal := decode[map[string]any](t, env)
	assert.Equal(t, float64(1), signal["monthly_count"])
	assert.Equal(t, "ok", signal["severity"])

	code, env = do(t, router, http.MethodGet, "/api/v1/employees/emp-1/leave-requests?status=pending", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, env), 1)

	code, _ = do(t, router, http.MethodGet, "/api/v1/leave-requests/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, router, http.MethodPost, "/api/v1/leave-requests/evaluate", map[string]any{
		"candidate": map[string]any{"employee_id": "emp-9", "start_date": "2024-06-20", "end_date": "2024-06-22"},
		"employee_history": []map[string]any{},
	}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "violation", decode[map[string]any](t, env)["severity"])
}

func TestHolidayRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	code, env := do(t, router, http.MethodPost, "/api/v1/holidays", map[string]any{"name": "Australia Day", "date": "2024-01-26"}, "")
	require.Equal(t, http.StatusCreated, code)
	created := decode[map[string]any](t, env)
	assert.Equal(t, "Friday", created["day_of_week"])

	code, env = do(t, router, http.MethodPut, "/api/v1/holidays/1", map[string]any{"date": "2024-01-27"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Saturday", decode[map[string]any](t, env)["day_of_week"])

	code, env = do(t, router, http.MethodGet, "/api/v1/holidays?from=2024-01-01&to=2024-01-31", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, env), 1)

	code, _ = do(t, router, http.MethodDelete, "/api/v1/holidays/1", nil, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, router, http.MethodGet, "/api/v1/holidays/1", nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, router, http.MethodGet, "/api/v1/holidays/abc", nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, router, http.MethodPost, "/api/v1/holidays", map[string]any{"name": "", "date": "2024-01-26"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestAuth(t *testing.T) {
	router := newTestRouter(t, jwt.NewVerifier(testSecret))

	employee := tokenFor(t, map[string]any{"user_id": "user-1", "employee_id": "emp-1", "role": "employee", "type": "access"})
	hr := tokenFor(t, map[string]any{"user_id": "user-hr", "employee_id": "emp-hr", "role": "hr", "type": "access"})
	refresh := tokenFor(t, map[string]any{"user_id": "user-1", "role": "hr", "type": "refresh"})

	code, _ := do(t, router, http.MethodGet, "/api/v1/holidays", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, router, http.MethodGet, "/api/v1/holidays", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, code)

	// The employee comes from the token when the body omits it.
	code, env := do(t, router, http.MethodPost, "/api/v1/attendance/check-in", map[string]any{}, employee)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "emp-1", decode[map[string]any](t, env)["employee_id"])

	code, env = do(t, router, http.MethodPost, "/api/v1/leave-requests", map[string]any{
		"leave_type": "annual",
		"start_date": "2024-06-03",
		"end_date":   "2024-06-03",
	}, employee)
	require.Equal(t, http.StatusCreated, code)
	id := decode[map[string]any](t, env)["id"].(string)

	code, env = do(t, router, http.MethodPost, "/api/v1/leave-requests/"+id+"/approve", nil, employee)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, _ = do(t, router, http.MethodPost, "/api/v1/holidays", map[string]any{"name": "X", "date": "2024-01-01"}, employee)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = do(t, router, http.MethodPost, "/api/v1/leave-requests/"+id+"/approve", nil, hr)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user-hr", decode[map[string]any](t, env)["decided_by"])
}

func TestAuth_EmployeeTokenActsForItsOwnEmployee(t *testing.T) {
	router := newTestRouter(t, jwt.NewVerifier(testSecret))

	employee := tokenFor(t, map[string]any{"user_id": "user-1", "employee_id": "emp-1", "role": "employee", "type": "access"})
	hr := tokenFor(t, map[string]any{"user_id": "user-hr", "employee_id": "emp-hr", "role": "hr", "type": "access"})

	code, env := do(t, router, http.MethodPost, "/api/v1/attendance/check-in", map[string]any{"employee_id": "emp-2"}, employee)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "emp-1", decode[map[string]any](t, env)["employee_id"])

	code, env = do(t, router, http.MethodPost, "/api/v1/attendance/check-out", map[string]any{"employee_id": "emp-2", "time": "17:00"}, employee)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "emp-1", decode[map[string]any](t, env)["employee_id"])

	code, env = do(t, router, http.MethodPost, "/api/v1/leave-requests", map[string]any{
		"employee_id": "emp-2",
		"leave_type":  "annual",
		"start_date":  "2024-06-03",
		"end_date":    "2024-06-03",
	}, employee)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "emp-1", decode[map[string]any](t, env)["employee_id"])

	// HR may act for another employee.
	code, env = do(t, router, http.MethodPost, "/api/v1/attendance/check-in", map[string]any{"employee_id": "emp-7"}, hr)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "emp-7", decode[map[string]any](t, env)["employee_id"])
}
