package attendance

import (
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(h, m, s int) *calendar.ClockTime {
	return &calendar.ClockTime{Hour: h, Minute: m, Second: s}
}

func TestComputeWorkHours(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  *calendar.ClockTime
		checkOut *calendar.ClockTime
		now      calendar.ClockTime
		isToday  bool
		want     float64
	}{
		{"closed full day", clock(9, 0, 0), clock(17, 30, 0), calendar.ClockTime{}, false, 8.5},
		{"closed rounds to minute", clock(9, 0, 0), clock(9, 30, 40), calendar.ClockTime{}, true, 31.0 / 60},
		{"open today", clock(10, 0, 0), nil, calendar.ClockTime{Hour: 10, Minute: 45}, true, 0.75},
		{"open today with clock skew", clock(10, 0, 0), nil, calendar.ClockTime{Hour: 9, Minute: 59}, true, 0},
		{"open past day", clock(10, 0, 0), nil, calendar.ClockTime{Hour: 18}, false, 0},
		{"no check-in", nil, nil, calendar.ClockTime{Hour: 12}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWorkHours(tt.checkIn, tt.checkOut, tt.now, tt.isToday)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	policy := attendance.DefaultPolicy()

	tests := []struct {
		name     string
		checkIn  *calendar.ClockTime
		checkOut *calendar.ClockTime
		want     attendance.AttendanceStatus
	}{
		{"no check-in", nil, nil, attendance.AttendanceStatusAbsent},
		{"open on time", clock(9, 0, 0), nil, attendance.AttendanceStatusPresent},
		{"open exactly at threshold", clock(9, 30, 0), nil, attendance.AttendanceStatusPresent},
		{"open after threshold", clock(10, 0, 0), nil, attendance.AttendanceStatusLate},
		{"closed full day", clock(9, 0, 0), clock(17, 30, 0), attendance.AttendanceStatusPresent},
		{"closed short day", clock(9, 0, 0), clock(12, 0, 0), attendance.AttendanceStatusHalfDay},
		{"closed exactly at half-day threshold", clock(9, 0, 0), clock(13, 30, 0), attendance.AttendanceStatusPresent},
		{"late and short stays late", clock(10, 0, 0), clock(12, 0, 0), attendance.AttendanceStatusLate},
		{"late and long stays late", clock(10, 0, 0), clock(19, 0, 0), attendance.AttendanceStatusLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.checkIn, tt.checkOut, policy))
		})
	}
}

func TestDeriveStatus_CustomPolicy(t *testing.T) {
	policy := attendance.AttendancePolicy{
		LateThreshold:    calendar.ClockTime{Hour: 10, Minute: 15},
		HalfDayThreshold: 6,
	}

	assert.Equal(t, attendance.AttendanceStatusPresent, DeriveStatus(clock(10, 0, 0), nil, policy))
	assert.Equal(t, attendance.AttendanceStatusHalfDay, DeriveStatus(clock(10, 0, 0), clock(15, 0, 0), policy))
}

func TestRecordCheckIn(t *testing.T) {
	policy := attendance.DefaultPolicy()
	remote := attendance.WorkLocationRemote
	rec := attendance.AttendanceRecord{
		EmployeeID: "emp-1",
		Date:       calendar.CalendarDate{Year: 2024, Month: 6, Day: 3},
		Status:     attendance.AttendanceStatusAbsent,
	}

	opened, err := RecordCheckIn(rec, calendar.ClockTime{Hour: 10}, &remote, policy)
	require.NoError(t, err)
	assert.Equal(t, attendance.AttendanceStatusLate, opened.Status)
	require.NotNil(t, opened.WorkLocation)
	assert.Equal(t, attendance.WorkLocationRemote, *opened.WorkLocation)

	live := Refresh(opened, calendar.ClockTime{Hour: 10, Minute: 45}, true, policy)
	assert.InDelta(t, 0.75, live.WorkHours, 1e-9)
	assert.Equal(t, attendance.AttendanceStatusLate, live.Status)

	_, err = RecordCheckIn(opened, calendar.ClockTime{Hour: 11}, nil, policy)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestRecordCheckOut(t *testing.T) {
	policy := attendance.DefaultPolicy()
	rec := attendance.AttendanceRecord{EmployeeID: "emp-1", Status: attendance.AttendanceStatusAbsent}

	t.Run("no check-in", func(t *testing.T) {
		_, err := RecordCheckOut(rec, calendar.ClockTime{Hour: 17}, policy)
		assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
	})

	opened, err := RecordCheckIn(rec, calendar.ClockTime{Hour: 9}, nil, policy)
	require.NoError(t, err)

	t.Run("before check-in", func(t *testing.T) {
		_, err := RecordCheckOut(opened, calendar.ClockTime{Hour: 8, Minute: 59}, policy)
		assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
	})

	closed, err := RecordCheckOut(opened, calendar.ClockTime{Hour: 17, Minute: 30}, policy)
	require.NoError(t, err)
	assert.Equal(t, attendance.AttendanceStatusPresent, closed.Status)
	assert.InDelta(t, 8.5, closed.WorkHours, 1e-9)

	t.Run("already closed", func(t *testing.T) {
		_, err := RecordCheckOut(closed, calendar.ClockTime{Hour: 18}, policy)
		assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
	})
}

func TestRefresh_KeepsStoredLateMark(t *testing.T) {
	rec := attendance.AttendanceRecord{
		CheckIn:  clock(9, 45, 0),
		CheckOut: clock(18, 0, 0),
		Status:   attendance.AttendanceStatusLate,
	}
	relaxed := attendance.AttendancePolicy{
		LateThreshold:    calendar.ClockTime{Hour: 10},
		HalfDayThreshold: 4.5,
	}

	got := Refresh(rec, calendar.ClockTime{Hour: 20}, false, relaxed)
	assert.Equal(t, attendance.AttendanceStatusLate, got.Status)
	assert.InDelta(t, 8.25, got.WorkHours, 1e-9)
}
