package holiday

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	GetByID(ctx context.Context, id int) (Holiday, error)
	Update(ctx context.Context, holiday Holiday) (Holiday, error)
	Delete(ctx context.Context, id int) error
	// List returns holidays ordered by date. Nil bounds are open.
	List(ctx context.Context, from, to *calendar.CalendarDate) ([]Holiday, error)
}
