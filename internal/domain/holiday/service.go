package holiday

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

type HolidayService interface {
	Add(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	Update(ctx context.Context, req UpdateHolidayRequest) (HolidayResponse, error)
	Remove(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (HolidayResponse, error)
	List(ctx context.Context, filter HolidayFilter) ([]HolidayResponse, error)
	ListRange(ctx context.Context, from, to calendar.CalendarDate) ([]Holiday, error)

	IsNonWorkingDay(ctx context.Context, date calendar.CalendarDate) (bool, error)
	Calendar(ctx context.Context, from, to calendar.CalendarDate) (Calendar, error)
}
