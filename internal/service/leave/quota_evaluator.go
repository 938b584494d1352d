package leave

import (
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
)

const (
	MessageExceedsMonthlyQuota = "Leave request exceeds monthly quota"
	MessageSecondLeave         = "Second leave this month"
	MessageMoreThanTwoLeaves   = "More than 2 leaves this month"
	MessageFirstLeave          = "First leave this month"
)

// QuotaEvaluator classifies a candidate leave request against the
// employee's approved history. It never fails.
type QuotaEvaluator struct {
	nonWorking leave.NonWorkingDays
}

type QuotaEvaluatorOption func(*QuotaEvaluator)

// WithNonWorkingDays drops dates reported as non-working from the monthly count.
func WithNonWorkingDays(days leave.NonWorkingDays) QuotaEvaluatorOption {
	return func(e *QuotaEvaluator) {
		e.nonWorking = days
	}
}

func NewQuotaEvaluator(opts ...QuotaEvaluatorOption) *QuotaEvaluator {
	e := &QuotaEvaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *QuotaEvaluator) Evaluate(candidate leave.LeaveRequest, history []leave.LeaveRequest) leave.QuotaSignal {
	var dates []calendar.CalendarDate
	for _, req := range history {
		if req.EmployeeID != candidate.EmployeeID || req.Status != leave.LeaveRequestStatusApproved {
			continue
		}
		// The candidate may already be stored; it is never its own history.
		if candidate.ID != "" && req.ID == candidate.ID {
			continue
		}
		for _, d := range ExpandDates(req.StartDate, req.EndDate) {
			if e.nonWorking != nil && e.nonWorking.IsNonWorkingDay(d) {
				continue
			}
			dates = append(dates, d)
		}
	}

	monthlyCount := BucketByMonth(dates)[candidate.StartDate.YearMonth()]

	signal := leave.QuotaSignal{MonthlyCount: monthlyCount}
	switch {
	case candidate.NumberOfDays >= 2:
		signal.Severity = leave.QuotaSeverityViolation
		signal.Message = MessageExceedsMonthlyQuota
	case monthlyCount == 2:
		signal.Severity = leave.QuotaSeverityWarn
		signal.Message = MessageSecondLeave
	case monthlyCount > 2:
		signal.Severity = leave.QuotaSeverityViolation
		signal.Message = MessageMoreThanTwoLeaves
	default:
		signal.Severity = leave.QuotaSeverityOK
		signal.Message = MessageFirstLeave
	}
	return signal
}

// ExpandDates walks start..end inclusive. An inverted range yields nothing.
func ExpandDates(start, end calendar.CalendarDate) []calendar.CalendarDate {
	n := start.DaysUntil(end)
	dates := make([]calendar.CalendarDate, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDays(i))
	}
	return dates
}

func BucketByMonth(dates []calendar.CalendarDate) map[calendar.YearMonth]int {
	buckets := make(map[calendar.YearMonth]int)
	for _, d := range dates {
		buckets[d.YearMonth()]++
	}
	return buckets
}
