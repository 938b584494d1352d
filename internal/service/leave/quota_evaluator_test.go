package leave

import (
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/stretchr/testify/assert"
)

func day(y, m, d int) calendar.CalendarDate {
	return calendar.CalendarDate{Year: y, Month: m, Day: d}
}

func approved(id string, start, end calendar.CalendarDate) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:           id,
		EmployeeID:   "emp-1",
		StartDate:    start,
		EndDate:      end,
		NumberOfDays: start.DaysUntil(end),
		Status:       leave.LeaveRequestStatusApproved,
	}
}

func candidateOn(date calendar.CalendarDate, days int) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:           "candidate",
		EmployeeID:   "emp-1",
		StartDate:    date,
		EndDate:      date.AddDays(days - 1),
		NumberOfDays: days,
		Status:       leave.LeaveRequestStatusPending,
	}
}

func TestQuotaEvaluator_Evaluate(t *testing.T) {
	twoPrior := []leave.LeaveRequest{
		approved("a", day(2024, 6, 3), day(2024, 6, 3)),
		approved("b", day(2024, 6, 10), day(2024, 6, 10)),
	}
	threePrior := append(twoPrior[:2:2], approved("c", day(2024, 6, 12), day(2024, 6, 12)))

	tests := []struct {
		name      string
		candidate leave.LeaveRequest
		history   []leave.LeaveRequest
		wantCount int
		wantSev   leave.QuotaSeverity
		wantMsg   string
	}{
		{
			name:      "first leave",
			candidate: candidateOn(day(2024, 6, 20), 1),
			wantSev:   leave.QuotaSeverityOK,
			wantMsg:   MessageFirstLeave,
		},
		{
			name:      "second leave",
			candidate: candidateOn(day(2024, 6, 20), 1),
			history:   twoPrior,
			wantCount: 2,
			wantSev:   leave.QuotaSeverityWarn,
			wantMsg:   MessageSecondLeave,
		},
		{
			name:      "third leave",
			candidate: candidateOn(day(2024, 6, 20), 1),
			history:   threePrior,
			wantCount: 3,
			wantSev:   leave.QuotaSeverityViolation,
			wantMsg:   MessageMoreThanTwoLeaves,
		},
		{
			name:      "long request with empty history",
			candidate: candidateOn(day(2024, 6, 20), 3),
			wantSev:   leave.QuotaSeverityViolation,
			wantMsg:   MessageExceedsMonthlyQuota,
		},
		{
			name:      "long request wins over second leave",
			candidate: candidateOn(day(2024, 6, 20), 2),
			history:   twoPrior,
			wantCount: 2,
			wantSev:   leave.QuotaSeverityViolation,
			wantMsg:   MessageExceedsMonthlyQuota,
		},
		{
			name:      "other months do not count",
			candidate: candidateOn(day(2024, 7, 1), 1),
			history:   threePrior,
			wantSev:   leave.QuotaSeverityOK,
			wantMsg:   MessageFirstLeave,
		},
		{
			name:      "a multi-day approval counts each date",
			candidate: candidateOn(day(2024, 6, 20), 1),
			history:   []leave.LeaveRequest{approved("a", day(2024, 6, 3), day(2024, 6, 4))},
			wantCount: 2,
			wantSev:   leave.QuotaSeverityWarn,
			wantMsg:   MessageSecondLeave,
		},
		{
			name:      "range spanning months is split",
			candidate: candidateOn(day(2024, 7, 10), 1),
			history:   []leave.LeaveRequest{approved("a", day(2024, 6, 29), day(2024, 7, 2))},
			wantCount: 2,
			wantSev:   leave.QuotaSeverityWarn,
			wantMsg:   MessageSecondLeave,
		},
	}

	evaluator := NewQuotaEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluator.Evaluate(tt.candidate, tt.history)
			assert.Equal(t, tt.wantCount, got.MonthlyCount)
			assert.Equal(t, tt.wantSev, got.Severity)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}
}

func TestQuotaEvaluator_LongRequestAlwaysViolates(t *testing.T) {
	evaluator := NewQuotaEvaluator()
	histories := [][]leave.LeaveRequest{
		nil,
		{approved("a", day(2024, 6, 3), day(2024, 6, 3))},
		{approved("a", day(2024, 6, 3), day(2024, 6, 4))},
		{approved("a", day(2024, 6, 3), day(2024, 6, 7))},
	}

	for _, history := range histories {
		got := evaluator.Evaluate(candidateOn(day(2024, 6, 20), 3), history)
		assert.Equal(t, leave.QuotaSeverityViolation, got.Severity)
		assert.Equal(t, MessageExceedsMonthlyQuota, got.Message)
	}
}

func TestQuotaEvaluator_HistoryFilter(t *testing.T) {
	candidate := candidateOn(day(2024, 6, 20), 1)

	otherEmployee := approved("x", day(2024, 6, 3), day(2024, 6, 4))
	otherEmployee.EmployeeID = "emp-2"

	pending := approved("p", day(2024, 6, 5), day(2024, 6, 6))
	pending.Status = leave.LeaveRequestStatusPending

	rejected := approved("r", day(2024, 6, 7), day(2024, 6, 8))
	rejected.Status = leave.LeaveRequestStatusRejected

	self := approved(candidate.ID, day(2024, 6, 20), day(2024, 6, 20))

	got := NewQuotaEvaluator().Evaluate(candidate, []leave.LeaveRequest{otherEmployee, pending, rejected, self})
	assert.Equal(t, 0, got.MonthlyCount)
	assert.Equal(t, leave.QuotaSeverityOK, got.Severity)
}

type holidaySet map[calendar.CalendarDate]bool

func (h holidaySet) IsNonWorkingDay(date calendar.CalendarDate) bool {
	return h[date]
}

func TestQuotaEvaluator_WithNonWorkingDays(t *testing.T) {
	history := []leave.LeaveRequest{approved("a", day(2024, 6, 3), day(2024, 6, 4))}
	candidate := candidateOn(day(2024, 6, 20), 1)

	withoutHolidays := NewQuotaEvaluator().Evaluate(candidate, history)
	assert.Equal(t, 2, withoutHolidays.MonthlyCount)

	withHolidays := NewQuotaEvaluator(WithNonWorkingDays(holidaySet{day(2024, 6, 4): true})).Evaluate(candidate, history)
	assert.Equal(t, 1, withHolidays.MonthlyCount)
	assert.Equal(t, leave.QuotaSeverityOK, withHolidays.Severity)
}

func TestExpandDates(t *testing.T) {
	assert.Equal(t,
		[]calendar.CalendarDate{day(2024, 2, 28), day(2024, 2, 29), day(2024, 3, 1)},
		ExpandDates(day(2024, 2, 28), day(2024, 3, 1)),
	)
	assert.Equal(t, []calendar.CalendarDate{day(2024, 6, 1)}, ExpandDates(day(2024, 6, 1), day(2024, 6, 1)))
	assert.Empty(t, ExpandDates(day(2024, 6, 2), day(2024, 6, 1)))
}

func TestBucketByMonth(t *testing.T) {
	buckets := BucketByMonth(ExpandDates(day(2023, 12, 30), day(2024, 1, 2)))

	assert.Equal(t, map[calendar.YearMonth]int{
		{Year: 2023, Month: 12}: 2,
		{Year: 2024, Month: 1}:  2,
	}, buckets)
}
