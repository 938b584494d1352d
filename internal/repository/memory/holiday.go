package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/holiday"
)

type holidayRepository struct {
	mu       sync.RWMutex
	nextID   int
	holidays map[int]holiday.Holiday
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepository) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	if err := ctx.Err(); err != nil {
		return holiday.Holiday{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	h.ID = r.nextID
	h.CreatedAt = now
	h.UpdatedAt = now
	r.holidays[h.ID] = h
	return h, nil
}

// GetByID implements holiday.HolidayRepository.
func (r *holidayRepository) GetByID(ctx context.Context, id int) (holiday.Holiday, error) {
	if err := ctx.Err(); err != nil {
		return holiday.Holiday{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.holidays[id]
	if !ok {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	return h, nil
}

// Update implements holiday.HolidayRepository.
func (r *holidayRepository) Update(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	if err := ctx.Err(); err != nil {
		return holiday.Holiday{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.holidays[h.ID]
	if !ok {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	h.CreatedAt = stored.CreatedAt
	h.UpdatedAt = time.Now().UTC()
	r.holidays[h.ID] = h
	return h, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepository) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.holidays[id]; !ok {
		return holiday.ErrHolidayNotFound
	}
	delete(r.holidays, id)
	return nil
}

// List implements holiday.HolidayRepository.
func (r *holidayRepository) List(ctx context.Context, from, to *calendar.CalendarDate) ([]holiday.Holiday, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []holiday.Holiday
	for _, h := range r.holidays {
		if from != nil && h.Date.Before(*from) {
			continue
		}
		if to != nil && h.Date.After(*to) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func NewHolidayRepository() holiday.HolidayRepository {
	return &holidayRepository{holidays: make(map[int]holiday.Holiday)}
}
