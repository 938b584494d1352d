package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func newTestService(t *testing.T, now time.Time) (attendance.AttendanceService, *clockwork.FakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(now)
	svc := NewAttendanceService(memory.NewAttendanceRepository(), fc, jakarta, attendance.DefaultPolicy())
	return svc, fc
}

func TestGetDay_TodayCreatesAbsentRecord(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2024, 6, 3, 8, 0, 0, 0, jakarta))
	ctx := context.Background()

	first, err := svc.GetDay(ctx, "emp-1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, calendar.CalendarDate{Year: 2024, Month: 6, Day: 3}, first.Date)
	assert.Equal(t, string(attendance.AttendanceStatusAbsent), first.Status)
	assert.Nil(t, first.CheckInTime)
	assert.Zero(t, first.WorkHours)

	second, err := svc.GetDay(ctx, "emp-1", []int{2024, 6, 3})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetDay_OtherDayIsNotPersisted(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2024, 6, 3, 8, 0, 0, 0, jakarta))

	resp, err := svc.GetDay(context.Background(), "emp-1", "2024-05-31")
	require.NoError(t, err)
	assert.Empty(t, resp.ID)
	assert.Equal(t, string(attendance.AttendanceStatusAbsent), resp.Status)
}

func TestGetDay_UsesConfiguredTimeZone(t *testing.T) {
	// 23:30 UTC is already the next morning in UTC+7.
	svc, _ := newTestService(t, time.Date(2024, 6, 2, 23, 30, 0, 0, time.UTC))

	resp, err := svc.GetDay(context.Background(), "emp-1", nil)
	require.NoError(t, err)
	assert.Equal(t, calendar.CalendarDate{Year: 2024, Month: 6, Day: 3}, resp.Date)
}

func TestGetDay_Errors(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2024, 6, 3, 8, 0, 0, 0, jakarta))
	ctx := context.Background()

	_, err := svc.GetDay(ctx, "emp-1", "not a date")
	var normErr *calendar.NormalizationError
	require.True(t, errors.As(err, &normErr))
	assert.Equal(t, "not a date", normErr.Raw)

	_, err = svc.GetDay(ctx, " ", "2024-06-03")
	var valErr validator.ValidationErrors
	assert.True(t, errors.As(err, &valErr))
}

func TestCheckIn_LiveHoursAndLateness(t *testing.T) {
	svc, fc := newTestService(t, time.Date(2024, 6, 3, 10, 0, 0, 0, jakarta))
	ctx := context.Background()

	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, "10:00:00", *resp.CheckInTime)
	assert.Equal(t, string(attendance.AttendanceStatusLate), resp.Status)

	fc.Advance(45 * time.Minute)

	day, err := svc.GetDay(ctx, "emp-1", "")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, day.WorkHours, 1e-9)
	assert.Equal(t, string(attendance.AttendanceStatusLate), day.Status)
}

func TestCheckIn_Twice(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2024, 6, 3, 8, 0, 0, 0, jakarta))
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", Time: "08:55"})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", Time: "09:10"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_InvalidWorkLocation(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2024, 6, 3, 8, 0, 0, 0, jakarta))
	moon := "moon_base"

	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1", WorkLocation: &moon})
	var valErr validator.ValidationErrors
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "work_location", valErr[0].Field)
}

func TestCheckOut_FullSession(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2024, 6, 3, 20, 0, 0, 0, jakarta))
	ctx := context.Background()
	office := string(attendance.WorkLocationHeadOffice)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{
		EmployeeID:   "emp-1",
		Date:         "20240603",
		Time:         "0900",
		WorkLocation: &office,
	})
	require.NoError(t, err)

	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{
		EmployeeID: "emp-1",
		Date:       []any{float64(2024), float64(6), float64(3)},
		Time:       "17:30",
	})
	require.NoError(t, err)
	assert.InDelta(t, 8.5, resp.WorkHours, 1e-9)
	assert.Equal(t, string(attendance.AttendanceStatusPresent), resp.Status)
	require.NotNil(t, resp.WorkLocation)
	assert.Equal(t, office, *resp.WorkLocation)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1", Date: "2024-06-03", Time: "18:00"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestCheckOut_Errors(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2024, 6, 3, 12, 0, 0, 0, jakarta))
	ctx := context.Background()

	_, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", Time: "09:00"})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1", Time: "08:00"})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1", Time: "25:00"})
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)
}

func TestCheckIn_ConcurrentRequestsOpenOneSession(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2024, 6, 3, 8, 0, 0, 0, jakarta))
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
}

func TestListRange(t *testing.T) {
	svc, fc := newTestService(t, time.Date(2024, 6, 3, 9, 0, 0, 0, jakarta))
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", Date: "2024-06-01", Time: "09:00"})
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", Date: "2024-06-03", Time: "09:00"})
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-2", Date: "2024-06-02", Time: "09:00"})
	require.NoError(t, err)

	fc.Advance(2 * time.Hour)

	list, err := svc.ListRange(ctx, attendance.ListAttendanceRequest{EmployeeID: "emp-1", From: "2024-6-1", To: [3]int{2024, 6, 3}})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, calendar.CalendarDate{Year: 2024, Month: 6, Day: 1}, list[0].Date)
	assert.Zero(t, list[0].WorkHours, "past open session accrues nothing")
	assert.InDelta(t, 2.0, list[1].WorkHours, 1e-9)

	_, err = svc.ListRange(ctx, attendance.ListAttendanceRequest{EmployeeID: "emp-1", From: "2024-06-03", To: "2024-06-01"})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)
}
